package belt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned by [Belt.TryRender] when the belt's previous render
// hasn't been cleaned up yet.
var ErrBusy = errors.New("belt is busy")

// State is the render state of a belt.
type State int

const (
	Idle State = iota
	Rendering
	Rendered
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Rendered:
		return "rendered"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Belt renders a belt through a renderer.
//
// A belt has at most one render in flight: from the start of a render until
// its [RenderHandle] is cleaned up, further renders wait (see [Belt.Render])
// or fail (see [Belt.TryRender]). This keeps two renders of the same belt from
// being visible at once.
type Belt struct {
	id       string
	renderer Renderer
	opts     Options
	log      *zap.Logger

	token *semaphore.Weighted

	mu     sync.Mutex
	state  State
	handle *RenderHandle
	poles  []Pole
}

// New returns an idle belt that renders through r.
func New(r Renderer, opts Options) *Belt {
	id := uuid.NewString()
	log := opts.logger().With(zap.String("belt", id))
	if opts.Name != "" {
		log = log.With(zap.String("name", opts.Name))
	}
	return &Belt{
		id:       id,
		renderer: r,
		opts:     opts,
		log:      log,
		token:    semaphore.NewWeighted(1),
	}
}

func (b *Belt) ID() string {
	return b.id
}

func (b *Belt) Options() Options {
	return b.opts
}

func (b *Belt) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Poles returns the poles of the most recent render that passed validation.
func (b *Belt) Poles() []Pole {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.poles)
}

// Render projects the belt onto poles and creates its geometry.
//
// If a previous render hasn't been cleaned up, Render waits for that to
// happen or for ctx to be done. Invalid poles are reported before anything is
// created.
//
// Renderer failures don't stop the render. They are returned together with
// all segments and a handle holding the geometry that was created; the handle
// must still be cleaned up.
func (b *Belt) Render(ctx context.Context, poles []Pole) ([]Segment, *RenderHandle, error) {
	if err := b.token.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	return b.render(poles)
}

// TryRender is like [Belt.Render] but returns ErrBusy instead of waiting.
func (b *Belt) TryRender(poles []Pole) ([]Segment, *RenderHandle, error) {
	if !b.token.TryAcquire(1) {
		return nil, nil, ErrBusy
	}
	return b.render(poles)
}

// Cleanup cleans up the current render, if any.
func (b *Belt) Cleanup() error {
	b.mu.Lock()
	h := b.handle
	b.mu.Unlock()
	return h.Cleanup()
}

func (b *Belt) render(poles []Pole) ([]Segment, *RenderHandle, error) {
	b.setState(Rendering)
	b.log.Debug("render start", zap.Int("poles", len(poles)))

	proj, err := Project(poles, b.opts)
	if err != nil {
		b.setState(Idle)
		b.token.Release(1)
		return nil, nil, err
	}

	h := &RenderHandle{renderer: b.renderer, done: b.finish}
	var errs error
	add := func(what string, id Handle, err error) {
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", what, err))
			return
		}
		h.handles = append(h.handles, id)
	}
	for _, seg := range proj.Segments {
		id, err := b.renderer.CreateSegment(seg)
		add(fmt.Sprintf("segment %d", seg.Index), id, err)
	}
	if b.opts.Debug {
		if mr, ok := b.renderer.(MarkerRenderer); ok {
			for _, m := range proj.Markers(b.opts.MarkerRadius) {
				id, err := mr.CreateMarker(m)
				add(fmt.Sprintf("marker %d", m.Index), id, err)
			}
		}
	}
	if mr, ok := b.renderer.(MeshRenderer); ok && len(proj.Mesh.Vertices) > 0 {
		id, err := mr.CreateMesh(proj.Mesh)
		add("mesh", id, err)
	}

	created := len(h.handles)
	b.mu.Lock()
	b.state = Rendered
	b.handle = h
	b.poles = slices.Clone(poles)
	b.mu.Unlock()

	if errs != nil {
		b.log.Warn("renderer failed", zap.Error(errs))
	}
	b.log.Debug("render done",
		zap.Int("segments", len(proj.Segments)),
		zap.Int("geometry", created))
	return proj.Segments, h, errs
}

func (b *Belt) finish(h *RenderHandle) {
	b.mu.Lock()
	if b.handle == h {
		b.handle = nil
	}
	b.state = Idle
	b.mu.Unlock()
	b.log.Debug("cleanup")
	b.token.Release(1)
}

func (b *Belt) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}
