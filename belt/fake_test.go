package belt

import (
	"errors"
	"fmt"
	"sync"
)

var errCreate = errors.New("create failed")

type fakeRenderer struct {
	mu          sync.Mutex
	next        int
	live        map[Handle]any
	failSegment map[int]bool
	releases    int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{live: make(map[Handle]any)}
}

func (f *fakeRenderer) add(v any) Handle {
	f.next++
	h := Handle(fmt.Sprintf("h%d", f.next))
	f.live[h] = v
	return h
}

func (f *fakeRenderer) CreateSegment(seg Segment) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSegment[seg.Index] {
		return "", errCreate
	}
	return f.add(seg), nil
}

func (f *fakeRenderer) CreateMarker(m Marker) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(m), nil
}

func (f *fakeRenderer) CreateMesh(m Mesh) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(m), nil
}

func (f *fakeRenderer) Release(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	if _, ok := f.live[h]; !ok {
		return fmt.Errorf("%s: %w", h, ErrUnknownHandle)
	}
	delete(f.live, h)
	return nil
}

func (f *fakeRenderer) count() (segments, markers, meshes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.live {
		switch v.(type) {
		case Segment:
			segments++
		case Marker:
			markers++
		case Mesh:
			meshes++
		}
	}
	return segments, markers, meshes
}

// segmentOnly hides the optional capabilities of a fakeRenderer.
type segmentOnly struct {
	r *fakeRenderer
}

func (s segmentOnly) CreateSegment(seg Segment) (Handle, error) { return s.r.CreateSegment(seg) }
func (s segmentOnly) Release(h Handle) error                    { return s.r.Release(h) }
