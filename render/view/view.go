// Package view draws belts in a raylib window.
//
// Geometry may be created and released from any goroutine. Drawing must
// happen on the goroutine that owns the window, after it was opened.
package view

import (
	"fmt"
	"slices"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor/belt"
)

var (
	_ belt.MarkerRenderer = (*Scene)(nil)
	_ belt.MeshRenderer   = (*Scene)(nil)
)

// meshVertexRadius is the size of the spheres drawn at mesh vertices.
const meshVertexRadius = 0.08

type item struct {
	segment *belt.Segment
	marker  *belt.Marker
	mesh    *belt.Mesh
}

// Scene holds a camera and the live belt geometry.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool

	mu    sync.Mutex
	items map[belt.Handle]item

	// Created on first Draw, once a GL context exists.
	loaded bool
	cube   rl.Mesh
	mtl    rl.Material
}

// NewScene returns a scene with a perspective camera looking at target from
// above and behind.
func NewScene(target r3.Vec) *Scene {
	s := &Scene{items: make(map[belt.Handle]item), GridVisible: true}
	s.Camera.Position = rl.NewVector3(float32(target.X), float32(target.Y)+15, float32(target.Z)+25)
	s.Camera.Target = vec3(target)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	return s
}

func (s *Scene) add(it item) belt.Handle {
	h := belt.Handle(uuid.NewString())
	s.mu.Lock()
	s.items[h] = it
	s.mu.Unlock()
	return h
}

func (s *Scene) CreateSegment(seg belt.Segment) (belt.Handle, error) {
	return s.add(item{segment: &seg}), nil
}

func (s *Scene) CreateMarker(m belt.Marker) (belt.Handle, error) {
	return s.add(item{marker: &m}), nil
}

func (s *Scene) CreateMesh(m belt.Mesh) (belt.Handle, error) {
	m.Vertices = slices.Clone(m.Vertices)
	return s.add(item{mesh: &m}), nil
}

func (s *Scene) Release(h belt.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[h]; !ok {
		return fmt.Errorf("%s: %w", h, belt.ErrUnknownHandle)
	}
	delete(s.items, h)
	return nil
}

// Len returns the number of live items.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Update moves the camera.
func (s *Scene) Update() {
	rl.UpdateCamera(&s.Camera, rl.CameraOrbital)
}

func (s *Scene) ensureLoaded() {
	if s.loaded {
		return
	}
	s.cube = rl.GenMeshCube(1, 1, 1)
	s.mtl = rl.LoadMaterialDefault()
	s.loaded = true
}

// Draw renders the live geometry. Call between BeginDrawing and EndDrawing.
func (s *Scene) Draw() {
	s.ensureLoaded()

	s.mu.Lock()
	items := make([]item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	s.mu.Unlock()

	rl.BeginMode3D(s.Camera)
	if s.GridVisible {
		rl.DrawGrid(40, 1)
	}
	for _, it := range items {
		switch {
		case it.segment != nil:
			if it.segment.Length == 0 {
				continue
			}
			if albedo := s.mtl.GetMap(rl.MapAlbedo); albedo != nil {
				albedo.Color = color(it.segment.Color)
			}
			rl.DrawMesh(s.cube, s.mtl, transform(*it.segment))
		case it.marker != nil:
			rl.DrawSphere(vec3(it.marker.Position), float32(it.marker.Radius), color(it.marker.Color))
		case it.mesh != nil:
			c := color(it.mesh.Color)
			for _, v := range it.mesh.Vertices {
				rl.DrawSphere(vec3(v), meshVertexRadius, c)
			}
		}
	}
	rl.EndMode3D()
}

// Close frees GPU resources.
func (s *Scene) Close() {
	if !s.loaded {
		return
	}
	rl.UnloadMesh(&s.cube)
	rl.UnloadMaterial(s.mtl)
	s.loaded = false
}

// transform places the unit cube over seg: scaled to the segment's size,
// rotated onto its direction and moved to its center.
func transform(seg belt.Segment) rl.Matrix {
	sz := seg.Size
	scaleM := rl.MatrixScale(float32(sz.X), float32(sz.Y), float32(sz.Z))
	c := seg.Center()
	transM := rl.MatrixTranslate(float32(c.X), float32(c.Y), float32(c.Z))
	return rl.MatrixMultiply(rl.MatrixMultiply(scaleM, rotation(seg.Orientation)), transM)
}

// rotation returns the matrix of rot. Columns are the images of the local
// axes.
func rotation(rot r3.Rotation) rl.Matrix {
	x := rot.Rotate(r3.Vec{X: 1})
	y := rot.Rotate(r3.Vec{Y: 1})
	z := rot.Rotate(r3.Vec{Z: 1})
	return rl.Matrix{
		M0: float32(x.X), M4: float32(y.X), M8: float32(z.X),
		M1: float32(x.Y), M5: float32(y.Y), M9: float32(z.Y),
		M2: float32(x.Z), M6: float32(y.Z), M10: float32(z.Z),
		M15: 1,
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func color(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}
