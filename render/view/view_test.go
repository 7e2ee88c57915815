package view

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor/belt"
)

func TestSceneRelease(t *testing.T) {
	s := NewScene(r3.Vec{})
	h1, err := s.CreateSegment(belt.Segment{Length: 1})
	require.NoError(t, err)
	h2, err := s.CreateMarker(belt.Marker{Radius: 0.25})
	require.NoError(t, err)
	h3, err := s.CreateMesh(belt.Mesh{Vertices: []r3.Vec{{X: 1}}})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	for _, h := range []belt.Handle{h1, h2, h3} {
		require.NoError(t, s.Release(h))
	}
	assert.Zero(t, s.Len())
	assert.ErrorIs(t, s.Release(h1), belt.ErrUnknownHandle)
}

func TestTransform(t *testing.T) {
	poles := []belt.Pole{
		belt.NewPole("a", r3.Vec{}),
		belt.NewPole("b", r3.Vec{Z: 10}),
		belt.NewPole("c", r3.Vec{X: 5}),
		belt.NewPole("d", r3.Vec{Z: 5}),
	}
	opts := belt.DefaultOptions()
	opts.Steps = 5
	proj, err := belt.Project(poles, opts)
	require.NoError(t, err)

	for _, seg := range proj.Segments {
		m := transform(seg)
		// The cube spans [-0.5, 0.5]; its +X face lands on the segment end.
		start := rl.Vector3Transform(rl.NewVector3(-0.5, 0, 0), m)
		end := rl.Vector3Transform(rl.NewVector3(0.5, 0, 0), m)
		assertVec(t, seg.Position, start)
		assertVec(t, seg.End(), end)
	}
}

func TestRotation(t *testing.T) {
	rot := r3.NewRotation(0.7, r3.Unit(r3.Vec{X: 1, Y: 2, Z: 3}))
	m := rotation(rot)
	v := r3.Vec{X: 0.3, Y: -1, Z: 2}
	assertVec(t, rot.Rotate(v), rl.Vector3Transform(vec3(v), m))
}

func TestColor(t *testing.T) {
	assert.Equal(t, rl.NewColor(0, 0, 255, 255), color(belt.DefaultTint))
	assert.Equal(t, rl.NewColor(255, 0, 0, 255), color(colorful.Color{R: 1.5}))
}

func assertVec(t *testing.T, want r3.Vec, got rl.Vector3) {
	t.Helper()
	const eps = 1e-4
	assert.InDelta(t, want.X, got.X, eps)
	assert.InDelta(t, want.Y, got.Y, eps)
	assert.InDelta(t, want.Z, got.Z, eps)
}
