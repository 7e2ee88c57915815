package conveyor

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSteps is the number of samples taken along a belt curve.
const DefaultSteps = 20

var (
	// ErrInvalidStepCount is returned when sampling with a step count that
	// isn't positive.
	ErrInvalidStepCount = errors.New("step count must be positive")
	// ErrEmptySampleSet is returned by closest-point queries on an empty set
	// of samples.
	ErrEmptySampleSet = errors.New("empty sample set")
)

// Sample evaluates the quadratic Bézier through start, control and end at
// t = i/steps for i ∈ [0, steps). The end anchor itself is never produced.
// Every sample has the colour of start.
func Sample(start, control, end Point, steps int) ([]Point, error) {
	if steps <= 0 {
		return nil, ErrInvalidStepCount
	}
	q := QuadBez{P0: start.Pos, P1: control.Pos, P2: end.Pos}
	out := make([]Point, steps)
	for i := range steps {
		t := float64(i) / float64(steps)
		out[i] = Point{Pos: q.Eval(t), Color: start.Color}
	}
	return out, nil
}

// Positions returns the positions of pts.
func Positions(pts []Point) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, pt := range pts {
		out[i] = pt.Pos
	}
	return out
}

// Closest returns the position of the sample nearest to q.
//
// Samples are scanned in order and only a strictly smaller distance replaces
// the current best, so the earliest of several equidistant samples wins.
func Closest(samples []Point, q r3.Vec) (r3.Vec, error) {
	i, _, err := ClosestIndex(samples, q)
	if err != nil {
		return r3.Vec{}, err
	}
	return samples[i].Pos, nil
}

// ClosestIndex is like [Closest] but returns the index of the nearest sample
// and its distance to q.
func ClosestIndex(samples []Point, q r3.Vec) (int, float64, error) {
	if len(samples) == 0 {
		return -1, 0, ErrEmptySampleSet
	}
	best := 0
	minDist := r3.Norm(r3.Sub(q, samples[0].Pos))
	for i, s := range samples[1:] {
		if d := r3.Norm(r3.Sub(q, s.Pos)); d < minDist {
			minDist = d
			best = i + 1
		}
	}
	return best, minDist, nil
}
