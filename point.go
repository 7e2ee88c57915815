package conveyor

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a position in 3D space tagged with a colour. Curve sampling
// produces points; they carry no other state.
type Point struct {
	Pos   r3.Vec
	Color colorful.Color
}

// Pt returns the point (x, y, z) with the given colour.
func Pt(x, y, z float64, c colorful.Color) Point {
	return Point{Pos: r3.Vec{X: x, Y: y, Z: z}, Color: c}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g, %g) %s", pt.Pos.X, pt.Pos.Y, pt.Pos.Z, pt.Color.Hex())
}

// Lerp linearly interpolates between the positions of two points. The result
// has the colour of pt.
func (pt Point) Lerp(o Point, t float64) Point {
	return Point{Pos: Lerp(pt.Pos, o.Pos, t), Color: pt.Color}
}

// Distance returns the euclidean distance between two points.
func (pt Point) Distance(o Point) float64 {
	return r3.Norm(r3.Sub(pt.Pos, o.Pos))
}

// DistanceSquared returns the squared euclidean distance between two points.
func (pt Point) DistanceSquared(o Point) float64 {
	return r3.Norm2(r3.Sub(pt.Pos, o.Pos))
}

// IsInf reports whether at least one coordinate is infinite.
func (pt Point) IsInf() bool {
	return math.IsInf(pt.Pos.X, 0) || math.IsInf(pt.Pos.Y, 0) || math.IsInf(pt.Pos.Z, 0)
}

// IsNaN reports whether at least one coordinate is NaN.
func (pt Point) IsNaN() bool {
	return math.IsNaN(pt.Pos.X) || math.IsNaN(pt.Pos.Y) || math.IsNaN(pt.Pos.Z)
}

// Lerp linearly interpolates between a and b, componentwise.
//
// t is not clamped. Values outside of [0, 1] extrapolate along the line
// through a and b.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	// a + t * (b-a)
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// PolylineLength returns the summed length of the line segments connecting
// consecutive points.
func PolylineLength(pts []r3.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	return l
}
