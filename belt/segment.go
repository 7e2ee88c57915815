package belt

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	up    = r3.Vec{Y: 1}
	right = r3.Vec{X: 1}

	// quarterTurn maps local +X onto local -Z, the forward axis.
	quarterTurn = r3.NewRotation(math.Pi/2, up)
)

// Segment describes one piece of a belt: a box starting at Position, running
// Length along Direction.
type Segment struct {
	// Index of the sample the segment starts at.
	Index     int
	Position  r3.Vec
	Direction r3.Vec
	// Orientation maps the local +X axis onto Direction.
	Orientation r3.Rotation
	Length      float64
	// Size is the box extent along the local axes: length, thickness, width.
	Size  r3.Vec
	Color colorful.Color
}

// Center returns the midpoint of the segment.
func (s Segment) Center() r3.Vec {
	return r3.Add(s.Position, r3.Scale(s.Length/2, s.Direction))
}

// End returns the point the segment ends at.
func (s Segment) End() r3.Vec {
	return r3.Add(s.Position, r3.Scale(s.Length, s.Direction))
}

// Marker is a debug sphere placed on a curve sample.
type Marker struct {
	Index    int
	Position r3.Vec
	Radius   float64
	Color    colorful.Color
}

// Mesh is a set of vertices pulled onto the belt curve.
type Mesh struct {
	Vertices []r3.Vec
	Color    colorful.Color
}

// orient returns the rotation that looks along dir, followed by a quarter
// turn about the vertical axis. Looking along dir maps local -Z onto it, so
// after the quarter turn local +X follows dir.
//
// dir must be a unit vector.
func orient(dir r3.Vec) r3.Rotation {
	yaw := math.Atan2(-dir.X, -dir.Z)
	pitch := math.Atan2(dir.Y, math.Hypot(dir.X, dir.Z))
	q := quat.Mul(quat.Number(r3.NewRotation(yaw, up)), quat.Number(r3.NewRotation(pitch, right)))
	q = quat.Mul(q, quat.Number(quarterTurn))
	return r3.Rotation(q)
}
