// Command beltplot renders the belts of a scene into a top-down plot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"honnef.co/go/conveyor/internal/config"
	"honnef.co/go/conveyor/internal/logging"
	"honnef.co/go/conveyor/internal/scene"
	"honnef.co/go/conveyor/render/chart"
)

func main() {
	configPath := flag.String("config", "", "Scene file (YAML); the built-in scene if empty")
	out := flag.String("out", "belts.png", "Output file; format from extension (png, svg, pdf)")
	logLevel := flag.String("log-level", "", "Log level, overrides the scene's")
	width := flag.Float64("width", 6, "Plot width in inches")
	height := flag.Float64("height", 6, "Plot height in inches")
	flag.Parse()

	if err := run(*configPath, *out, *logLevel, vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch); err != nil {
		fmt.Fprintln(os.Stderr, "beltplot:", err)
		os.Exit(1)
	}
}

func run(configPath, out, logLevel string, width, height vg.Length) (err error) {
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

	title := "belts"
	if configPath != "" {
		title = filepath.Base(configPath)
	}
	r := chart.NewScene(title)
	s, err := scene.Build(cfg, r, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Cleanup())
	}()

	if err := s.Render(context.Background(), nil); err != nil {
		// Whatever did render is still worth plotting.
		log.Warn("render failed", zap.Error(err))
	}
	for pole, belts := range s.Shared() {
		log.Info("shared pole", zap.String("pole", pole), zap.Strings("belts", belts))
	}
	if err := r.Save(out, width, height); err != nil {
		return err
	}
	log.Info("wrote plot", zap.String("path", out), zap.Int("items", r.Len()))
	return nil
}
