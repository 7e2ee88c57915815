// Package memory provides a renderer that keeps belt geometry in memory.
//
// It is useful for headless runs and for inspecting what a belt rendered.
package memory

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"honnef.co/go/conveyor/belt"
)

var (
	_ belt.MarkerRenderer = (*Scene)(nil)
	_ belt.MeshRenderer   = (*Scene)(nil)
)

// Kind is the kind of an instance.
type Kind int

const (
	SegmentKind Kind = iota
	MarkerKind
	MeshKind
)

func (k Kind) String() string {
	switch k {
	case SegmentKind:
		return "segment"
	case MarkerKind:
		return "marker"
	case MeshKind:
		return "mesh"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Instance is a piece of geometry held by a Scene. Exactly one of Segment,
// Marker and Mesh is meaningful, depending on Kind.
type Instance struct {
	Handle  belt.Handle
	Kind    Kind
	Seq     uint64
	Segment belt.Segment
	Marker  belt.Marker
	Mesh    belt.Mesh
}

// Scene is an in-memory renderer. The zero value is ready to use.
type Scene struct {
	mu        sync.Mutex
	seq       uint64
	instances map[belt.Handle]Instance
	created   uint64
	released  uint64
}

func (s *Scene) add(inst Instance) belt.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.instances == nil {
		s.instances = make(map[belt.Handle]Instance)
	}
	s.seq++
	inst.Handle = belt.Handle(uuid.NewString())
	inst.Seq = s.seq
	s.instances[inst.Handle] = inst
	s.created++
	return inst.Handle
}

func (s *Scene) CreateSegment(seg belt.Segment) (belt.Handle, error) {
	return s.add(Instance{Kind: SegmentKind, Segment: seg}), nil
}

func (s *Scene) CreateMarker(m belt.Marker) (belt.Handle, error) {
	return s.add(Instance{Kind: MarkerKind, Marker: m}), nil
}

func (s *Scene) CreateMesh(m belt.Mesh) (belt.Handle, error) {
	m.Vertices = slices.Clone(m.Vertices)
	return s.add(Instance{Kind: MeshKind, Mesh: m}), nil
}

func (s *Scene) Release(h belt.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[h]; !ok {
		return fmt.Errorf("%s: %w", h, belt.ErrUnknownHandle)
	}
	delete(s.instances, h)
	s.released++
	return nil
}

// Instances returns the live instances in creation order.
func (s *Scene) Instances() []Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst)
	}
	slices.SortFunc(out, func(a, b Instance) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return out
}

// Segments returns the live segments in creation order.
func (s *Scene) Segments() []belt.Segment {
	var out []belt.Segment
	for _, inst := range s.Instances() {
		if inst.Kind == SegmentKind {
			out = append(out, inst.Segment)
		}
	}
	return out
}

// Len returns the number of live instances.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// Stats returns how many instances were created and released over the
// scene's lifetime.
func (s *Scene) Stats() (created, released uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, s.released
}
