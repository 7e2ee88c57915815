package belt

import (
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor"
)

const (
	// MinPoles is the number of poles a belt needs.
	MinPoles = 4

	// StartAnchorIndex, EndAnchorIndex and ControlPoleIndex select the poles
	// that make up the curve. The pole at index 2 doesn't shape the curve.
	StartAnchorIndex = 0
	EndAnchorIndex   = 1
	ControlPoleIndex = 3
)

// DefaultTint is the colour of belts and debug markers when none is
// configured.
var DefaultTint = colorful.Color{R: 0, G: 0, B: 1}

// Options control how belts are projected and rendered.
// The zero value is not usable; start from [DefaultOptions].
type Options struct {
	// Name is used in log messages only.
	Name string

	// Steps is the number of curve samples, and thus segments.
	Steps int

	StartAnchor int
	EndAnchor   int
	ControlPole int

	// Debug makes renders also place a marker at every curve sample, if the
	// renderer supports markers.
	Debug bool

	Tint      colorful.Color
	Width     float64
	Thickness float64

	MarkerRadius float64

	// MeshTemplate lists vertices that get pulled onto the nearest curve
	// sample to form the belt mesh. An empty template disables the mesh.
	MeshTemplate []r3.Vec

	Logger *zap.Logger
}

// DefaultOptions returns the options for a four-pole belt sampled
// [conveyor.DefaultSteps] times.
func DefaultOptions() Options {
	return Options{
		Steps:        conveyor.DefaultSteps,
		StartAnchor:  StartAnchorIndex,
		EndAnchor:    EndAnchorIndex,
		ControlPole:  ControlPoleIndex,
		Tint:         DefaultTint,
		Width:        1,
		Thickness:    0.2,
		MarkerRadius: 0.25,
		MeshTemplate: DefaultMeshTemplate(),
	}
}

// DefaultMeshTemplate returns a 3×3 grid of vertices on the XZ plane, spanning
// [-0.5, 0.5] on both axes.
func DefaultMeshTemplate() []r3.Vec {
	out := make([]r3.Vec, 0, 9)
	for _, x := range []float64{-0.5, 0, 0.5} {
		for _, z := range []float64{-0.5, 0, 0.5} {
			out = append(out, r3.Vec{X: x, Z: z})
		}
	}
	return out
}

func (opts Options) logger() *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}
