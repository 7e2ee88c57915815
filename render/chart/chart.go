// Package chart renders belts as a top-down plot.
//
// The scene records geometry like any other renderer and draws whatever is
// live when [Scene.Save] is called, looking down the Y axis: world X is
// plotted horizontally and world Z vertically.
package chart

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"honnef.co/go/conveyor/belt"
)

var (
	_ belt.MarkerRenderer = (*Scene)(nil)
	_ belt.MeshRenderer   = (*Scene)(nil)
)

type item struct {
	seq     uint64
	segment *belt.Segment
	marker  *belt.Marker
	mesh    *belt.Mesh
}

// Scene is a renderer that plots belts.
type Scene struct {
	title string

	mu    sync.Mutex
	seq   uint64
	items map[belt.Handle]item
}

// NewScene returns an empty scene whose plots carry the given title.
func NewScene(title string) *Scene {
	return &Scene{title: title, items: make(map[belt.Handle]item)}
}

func (s *Scene) add(it item) belt.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	it.seq = s.seq
	h := belt.Handle(uuid.NewString())
	s.items[h] = it
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

func (s *Scene) snapshot() []item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b item) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// Plot builds a plot of the live geometry.
func (s *Scene) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Z"
	p.Add(plotter.NewGrid())

	for _, it := range s.snapshot() {
		switch {
		case it.segment != nil:
			seg := it.segment
			end := seg.End()
			l, err := plotter.NewLine(plotter.XYs{
				{X: seg.Position.X, Y: seg.Position.Z},
				{X: end.X, Y: end.Z},
			})
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", seg.Index, err)
			}
			l.Color = seg.Color
			l.Width = vg.Points(2)
			p.Add(l)
		case it.marker != nil:
			m := it.marker
			sc, err := plotter.NewScatter(plotter.XYs{{X: m.Position.X, Y: m.Position.Z}})
			if err != nil {
				return nil, fmt.Errorf("marker %d: %w", m.Index, err)
			}
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Color = m.Color
			sc.GlyphStyle.Radius = vg.Points(3)
			p.Add(sc)
		case it.mesh != nil:
			if len(it.mesh.Vertices) == 0 {
				continue
			}
			xys := make(plotter.XYs, len(it.mesh.Vertices))
			for i, v := range it.mesh.Vertices {
				xys[i] = plotter.XY{X: v.X, Y: v.Z}
			}
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, fmt.Errorf("mesh: %w", err)
			}
			sc.GlyphStyle.Shape = draw.CrossGlyph{}
			sc.GlyphStyle.Color = it.mesh.Color
			p.Add(sc)
		}
	}
	return p, nil
}

// Save writes a plot of the live geometry to path. The format is chosen by
// the file extension, as with [plot.Plot.Save].
func (s *Scene) Save(path string, width, height vg.Length) error {
	p, err := s.Plot()
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}
