package belt

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor"
)

// ErrInvalidTopology is returned when the poles can't form a belt.
var ErrInvalidTopology = errors.New("invalid belt topology")

// Projection is the geometry of a belt, before anything is rendered.
type Projection struct {
	Samples  []conveyor.Point
	Segments []Segment
	Mesh     Mesh
}

// Project computes the curve samples, segments and mesh of a belt laid
// between poles. It has no side effects.
//
// Poles that make up the curve must have finite positions.
//
// There is one segment per sample. A segment spans from its sample to the
// next one. The final sample has no successor, so its segment repeats the
// direction and length of the one before it. Coinciding samples produce a
// segment of length zero that keeps the previous direction.
func Project(poles []Pole, opts Options) (Projection, error) {
	if len(poles) < MinPoles {
		return Projection{}, fmt.Errorf("%w: got %d poles, need at least %d", ErrInvalidTopology, len(poles), MinPoles)
	}
	for _, idx := range [...]int{opts.StartAnchor, opts.EndAnchor, opts.ControlPole} {
		if idx < 0 || idx >= len(poles) {
			return Projection{}, fmt.Errorf("%w: pole index %d out of range for %d poles", ErrInvalidTopology, idx, len(poles))
		}
	}

	start := poles[opts.StartAnchor].Point(opts.Tint)
	control := poles[opts.ControlPole].Point(opts.Tint)
	end := poles[opts.EndAnchor].Point(opts.Tint)
	if q := (conveyor.QuadBez{P0: start.Pos, P1: control.Pos, P2: end.Pos}); q.IsNaN() || q.IsInf() {
		return Projection{}, fmt.Errorf("%w: curve %v has non-finite coordinates", ErrInvalidTopology, q)
	}

	samples, err := conveyor.Sample(start, control, end, opts.Steps)
	if err != nil {
		return Projection{}, err
	}

	mesh := Mesh{Color: opts.Tint}
	if len(opts.MeshTemplate) > 0 {
		mesh.Vertices = make([]r3.Vec, len(opts.MeshTemplate))
		for i, v := range opts.MeshTemplate {
			p, err := conveyor.Closest(samples, v)
			if err != nil {
				return Projection{}, err
			}
			mesh.Vertices[i] = p
		}
	}

	return Projection{
		Samples:  samples,
		Segments: segments(samples, opts),
		Mesh:     mesh,
	}, nil
}

func segments(samples []conveyor.Point, opts Options) []Segment {
	out := make([]Segment, len(samples))
	dir := right
	var length float64
	for i, s := range samples {
		if i < len(samples)-1 {
			d := r3.Sub(samples[i+1].Pos, s.Pos)
			length = r3.Norm(d)
			if length > 0 {
				dir = r3.Scale(1/length, d)
			}
		}
		out[i] = Segment{
			Index:       i,
			Position:    s.Pos,
			Direction:   dir,
			Orientation: orient(dir),
			Length:      length,
			Size:        r3.Vec{X: length, Y: opts.Thickness, Z: opts.Width},
			Color:       s.Color,
		}
	}
	return out
}

// Markers returns one debug marker per sample.
func (p Projection) Markers(radius float64) []Marker {
	out := make([]Marker, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = Marker{Index: i, Position: s.Pos, Radius: radius, Color: s.Color}
	}
	return out
}
