// Command beltview shows the belts of a scene in a window, re-rendering them
// every interval while the control poles sway.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor/belt"
	"honnef.co/go/conveyor/internal/config"
	"honnef.co/go/conveyor/internal/logging"
	"honnef.co/go/conveyor/internal/scene"
	"honnef.co/go/conveyor/render/view"
)

func main() {
	configPath := flag.String("config", "", "Scene file (YAML); the built-in scene if empty")
	logLevel := flag.String("log-level", "", "Log level, overrides the scene's")
	sway := flag.Float64("sway", 2, "How far control poles sway sideways")
	flag.Parse()

	if err := run(*configPath, *logLevel, *sway); err != nil {
		fmt.Fprintln(os.Stderr, "beltview:", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string, sway float64) (err error) {
	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log, err := logging.New(logLevel, "console")
	if err != nil {
		return err
	}
	defer log.Sync()

	rl.InitWindow(1280, 720, "beltview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	v := view.NewScene(center(cfg))
	defer v.Close()
	s, err := scene.Build(cfg, v, log)
	if err != nil {
		return err
	}
	defer s.Cleanup()

	start := time.Now()
	pose := func(e *scene.Entry) []belt.Pole {
		phase := time.Since(start).Seconds()
		poles := make([]belt.Pole, len(e.Poles))
		copy(poles, e.Poles)
		ctl := &poles[cfg.Curve.ControlPole]
		ctl.Position = r3.Add(ctl.Position, r3.Vec{X: sway * math.Sin(phase)})
		return poles
	}

	var last time.Time
	for !rl.WindowShouldClose() {
		if time.Since(last) >= cfg.Interval {
			if err := s.Cleanup(); err != nil {
				log.Warn("cleanup failed", zap.Error(err))
			}
			if err := s.Render(context.Background(), pose); err != nil {
				log.Warn("render failed", zap.Error(err))
			}
			last = time.Now()
		}

		v.Update()
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		v.Draw()
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
	return nil
}

// center returns the mean position of all poles.
func center(cfg *config.Config) r3.Vec {
	var sum r3.Vec
	if len(cfg.Poles) == 0 {
		return sum
	}
	for _, p := range cfg.Poles {
		sum = r3.Add(sum, r3.Vec{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]})
	}
	return r3.Scale(1/float64(len(cfg.Poles)), sum)
}
