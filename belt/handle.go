package belt

import (
	"errors"
	"slices"
	"sync"

	"go.uber.org/multierr"
)

// RenderHandle holds the geometry created by one render of a belt.
type RenderHandle struct {
	renderer Renderer
	done     func(*RenderHandle)

	mu       sync.Mutex
	handles  []Handle
	released bool
}

// Handles returns the geometry held by h.
func (h *RenderHandle) Handles() []Handle {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.handles)
}

// Len returns the number of pieces of geometry held by h.
func (h *RenderHandle) Len() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handles)
}

// Cleanup releases all geometry held by h and lets the belt render again.
//
// Geometry that the renderer no longer knows about is skipped. Other release
// failures are returned, but the handle is emptied regardless. Only the first
// call has any effect.
func (h *RenderHandle) Cleanup() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil
	}
	h.released = true
	handles := h.handles
	h.handles = nil
	h.mu.Unlock()

	var err error
	for _, id := range handles {
		if rerr := h.renderer.Release(id); rerr != nil && !errors.Is(rerr, ErrUnknownHandle) {
			err = multierr.Append(err, rerr)
		}
	}
	if h.done != nil {
		h.done(h)
	}
	return err
}
