package belt

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor"
)

// Identity is the rotation that leaves every vector unchanged.
var Identity = r3.Rotation{Real: 1}

// Pole is a support that a belt is attached to.
//
// Poles don't know which belts use them; see [Topology] for that.
type Pole struct {
	ID          string
	Position    r3.Vec
	Orientation r3.Rotation
}

// NewPole returns an unrotated pole at pos.
func NewPole(id string, pos r3.Vec) Pole {
	return Pole{ID: id, Position: pos, Orientation: Identity}
}

// Point returns the pole's position as a curve point of colour c.
func (p Pole) Point(c colorful.Color) conveyor.Point {
	return conveyor.Point{Pos: p.Position, Color: c}
}
