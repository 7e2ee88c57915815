// Package config loads conveyor scenes: the poles, the belts laid between
// them, and how those belts are rendered.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"honnef.co/go/conveyor"
	"honnef.co/go/conveyor/belt"
)

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid config")

// Config describes a scene.
type Config struct {
	// EntityDebug places a marker at every curve sample.
	EntityDebug bool   `yaml:"entity_debug"`
	LogLevel    string `yaml:"log_level"`
	// Interval is how long a render stays up before it is cleaned up and
	// the belts are rendered again.
	Interval time.Duration `yaml:"interval"`

	Curve Curve  `yaml:"curve"`
	Style Style  `yaml:"style"`
	Poles []Pole `yaml:"poles"`
	Belts []Belt `yaml:"belts"`
}

// Curve selects how the belt curve is built from a belt's poles.
type Curve struct {
	Steps       int `yaml:"steps"`
	StartAnchor int `yaml:"start_anchor"`
	EndAnchor   int `yaml:"end_anchor"`
	ControlPole int `yaml:"control_pole"`
}

// Style is the look of belts.
type Style struct {
	Tint         string  `yaml:"tint"`
	Width        float64 `yaml:"width"`
	Thickness    float64 `yaml:"thickness"`
	MarkerRadius float64 `yaml:"marker_radius"`
}

type Pole struct {
	ID       string     `yaml:"id"`
	Position [3]float64 `yaml:"position"`
	// Yaw is the rotation about the vertical axis, in degrees.
	Yaw float64 `yaml:"yaw"`
}

type Belt struct {
	Name  string   `yaml:"name"`
	Poles []string `yaml:"poles"`
	// Tint overrides Style.Tint.
	Tint string `yaml:"tint,omitempty"`
}

// Default returns a scene with one belt over four poles.
func Default() *Config {
	return &Config{
		EntityDebug: true,
		LogLevel:    "info",
		Interval:    50 * time.Millisecond,
		Curve: Curve{
			Steps:       conveyor.DefaultSteps,
			StartAnchor: belt.StartAnchorIndex,
			EndAnchor:   belt.EndAnchorIndex,
			ControlPole: belt.ControlPoleIndex,
		},
		Style: Style{
			Tint:         belt.DefaultTint.Hex(),
			Width:        1,
			Thickness:    0.2,
			MarkerRadius: 0.25,
		},
		Poles: []Pole{
			{ID: "c0", Position: [3]float64{0, 0, 0}},
			{ID: "c1", Position: [3]float64{10, 0, 0}},
			{ID: "c2", Position: [3]float64{20, 0, 0}},
			{ID: "c3", Position: [3]float64{5, 0, 5}},
		},
		Belts: []Belt{
			{Name: "main", Poles: []string{"c0", "c1", "c2", "c3"}},
		},
	}
}

// Load reads and validates the scene at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads and validates a YAML scene. Settings missing from the document
// keep their [Default] values; poles and belts given in the document replace
// the default ones.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	c.Poles = nil
	c.Belts = nil
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the scene describes buildable belts.
func (c *Config) Validate() error {
	if c.Curve.Steps <= 0 {
		return fmt.Errorf("%w: curve steps must be positive, got %d", ErrInvalid, c.Curve.Steps)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: negative interval %s", ErrInvalid, c.Interval)
	}
	if _, err := colorful.Hex(c.Style.Tint); err != nil {
		return fmt.Errorf("%w: style tint %q", ErrInvalid, c.Style.Tint)
	}
	ids := make(map[string]bool, len(c.Poles))
	for _, p := range c.Poles {
		if p.ID == "" {
			return fmt.Errorf("%w: pole without id", ErrInvalid)
		}
		if ids[p.ID] {
			return fmt.Errorf("%w: duplicate pole %q", ErrInvalid, p.ID)
		}
		ids[p.ID] = true
	}
	names := make(map[string]bool, len(c.Belts))
	for _, b := range c.Belts {
		if b.Name == "" {
			return fmt.Errorf("%w: belt without name", ErrInvalid)
		}
		if names[b.Name] {
			return fmt.Errorf("%w: duplicate belt %q", ErrInvalid, b.Name)
		}
		names[b.Name] = true
		if len(b.Poles) < belt.MinPoles {
			return fmt.Errorf("%w: belt %q has %d poles, need at least %d", ErrInvalid, b.Name, len(b.Poles), belt.MinPoles)
		}
		for _, idx := range [...]int{c.Curve.StartAnchor, c.Curve.EndAnchor, c.Curve.ControlPole} {
			if idx < 0 || idx >= len(b.Poles) {
				return fmt.Errorf("%w: belt %q: pole index %d out of range", ErrInvalid, b.Name, idx)
			}
		}
		for _, id := range b.Poles {
			if !ids[id] {
				return fmt.Errorf("%w: belt %q references unknown pole %q", ErrInvalid, b.Name, id)
			}
		}
		if b.Tint != "" {
			if _, err := colorful.Hex(b.Tint); err != nil {
				return fmt.Errorf("%w: belt %q tint %q", ErrInvalid, b.Name, b.Tint)
			}
		}
	}
	return nil
}

// Pole returns the pole with the given ID.
func (c *Config) Pole(id string) (belt.Pole, bool) {
	for _, p := range c.Poles {
		if p.ID == id {
			pos := r3.Vec{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
			pole := belt.NewPole(p.ID, pos)
			if p.Yaw != 0 {
				pole.Orientation = r3.NewRotation(p.Yaw*math.Pi/180, r3.Vec{Y: 1})
			}
			return pole, true
		}
	}
	return belt.Pole{}, false
}

// BeltPoles returns the poles of b, in order.
func (c *Config) BeltPoles(b Belt) ([]belt.Pole, error) {
	out := make([]belt.Pole, len(b.Poles))
	for i, id := range b.Poles {
		p, ok := c.Pole(id)
		if !ok {
			return nil, fmt.Errorf("%w: belt %q references unknown pole %q", ErrInvalid, b.Name, id)
		}
		out[i] = p
	}
	return out, nil
}

// Options returns the render options for b.
func (c *Config) Options(b Belt, log *zap.Logger) (belt.Options, error) {
	tint := c.Style.Tint
	if b.Tint != "" {
		tint = b.Tint
	}
	col, err := colorful.Hex(tint)
	if err != nil {
		return belt.Options{}, fmt.Errorf("%w: belt %q tint %q", ErrInvalid, b.Name, tint)
	}
	opts := belt.DefaultOptions()
	opts.Name = b.Name
	opts.Steps = c.Curve.Steps
	opts.StartAnchor = c.Curve.StartAnchor
	opts.EndAnchor = c.Curve.EndAnchor
	opts.ControlPole = c.Curve.ControlPole
	opts.Debug = c.EntityDebug
	opts.Tint = col
	opts.Width = c.Style.Width
	opts.Thickness = c.Style.Thickness
	opts.MarkerRadius = c.Style.MarkerRadius
	opts.Logger = log
	return opts, nil
}
