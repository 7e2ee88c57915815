package belt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r3"
)

func testOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.Name = t.Name()
	opts.Logger = zaptest.NewLogger(t)
	return opts
}

func TestBeltRender(t *testing.T) {
	r := newFakeRenderer()
	b := New(r, testOptions(t))
	assert.NotEmpty(t, b.ID())
	assert.Equal(t, Idle, b.State())

	segs, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)
	assert.Len(t, segs, 20)
	assert.Equal(t, Rendered, b.State())
	assert.Len(t, b.Poles(), 4)

	// Debug is off, so only segments and the mesh are created.
	s, m, meshes := r.count()
	assert.Equal(t, 20, s)
	assert.Equal(t, 0, m)
	assert.Equal(t, 1, meshes)
	assert.Equal(t, 21, h.Len())

	require.NoError(t, h.Cleanup())
	assert.Equal(t, Idle, b.State())
	assert.Zero(t, h.Len())
	s, m, meshes = r.count()
	assert.Zero(t, s+m+meshes)
}

func TestBeltRenderDebugMarkers(t *testing.T) {
	r := newFakeRenderer()
	opts := testOptions(t)
	opts.Debug = true
	b := New(r, opts)

	_, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)
	s, m, meshes := r.count()
	assert.Equal(t, 20, s)
	assert.Equal(t, 20, m)
	assert.Equal(t, 1, meshes)
	assert.Equal(t, 41, h.Len())
	require.NoError(t, h.Cleanup())
}

func TestBeltRenderSegmentsOnly(t *testing.T) {
	r := newFakeRenderer()
	opts := testOptions(t)
	opts.Debug = true
	b := New(segmentOnly{r}, opts)

	_, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)
	assert.Equal(t, 20, h.Len())
	require.NoError(t, b.Cleanup())
}

func TestCleanupTwice(t *testing.T) {
	r := newFakeRenderer()
	b := New(r, testOptions(t))
	_, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)

	require.NoError(t, h.Cleanup())
	releases := r.releases
	require.NoError(t, h.Cleanup())
	assert.Equal(t, releases, r.releases)
	assert.NoError(t, b.Cleanup())
	assert.Equal(t, Idle, b.State())
}

func TestCleanupSkipsRemovedGeometry(t *testing.T) {
	r := newFakeRenderer()
	b := New(r, testOptions(t))
	_, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)

	handles := h.Handles()
	require.NoError(t, r.Release(handles[0]))
	require.NoError(t, r.Release(handles[5]))

	require.NoError(t, h.Cleanup())
	s, m, meshes := r.count()
	assert.Zero(t, s+m+meshes)
	assert.Equal(t, Idle, b.State())
}

func TestTryRenderBusy(t *testing.T) {
	b := New(newFakeRenderer(), testOptions(t))
	_, h, err := b.TryRender(testPoles())
	require.NoError(t, err)

	_, _, err = b.TryRender(testPoles())
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, h.Cleanup())
	_, h, err = b.TryRender(testPoles())
	require.NoError(t, err)
	require.NoError(t, h.Cleanup())
}

func TestRenderWaitsForCleanup(t *testing.T) {
	b := New(newFakeRenderer(), testOptions(t))
	_, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)

	done := make(chan *RenderHandle)
	go func() {
		_, h2, err := b.Render(context.Background(), testPoles())
		assert.NoError(t, err)
		done <- h2
	}()

	select {
	case <-done:
		t.Fatal("second render started before cleanup")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, h.Cleanup())
	select {
	case h2 := <-done:
		require.NoError(t, h2.Cleanup())
	case <-time.After(5 * time.Second):
		t.Fatal("second render did not start after cleanup")
	}
}

func TestRenderContextDone(t *testing.T) {
	b := New(newFakeRenderer(), testOptions(t))
	_, h, err := b.Render(context.Background(), testPoles())
	require.NoError(t, err)
	defer h.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err = b.Render(ctx, testPoles())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Rendered, b.State())
}

func TestRenderInvalidTopology(t *testing.T) {
	r := newFakeRenderer()
	b := New(r, testOptions(t))
	_, h, err := b.Render(context.Background(), testPoles()[:3])
	assert.ErrorIs(t, err, ErrInvalidTopology)
	assert.Nil(t, h)
	assert.Equal(t, Idle, b.State())
	s, m, meshes := r.count()
	assert.Zero(t, s+m+meshes)

	// The failed render gave the token back.
	_, h, err = b.TryRender(testPoles())
	require.NoError(t, err)
	require.NoError(t, h.Cleanup())
}

func TestRenderRendererFailure(t *testing.T) {
	r := newFakeRenderer()
	r.failSegment = map[int]bool{3: true, 11: true}
	b := New(r, testOptions(t))

	segs, h, err := b.Render(context.Background(), testPoles())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errCreate))
	assert.ErrorContains(t, err, "segment 3")
	assert.ErrorContains(t, err, "segment 11")
	assert.Len(t, segs, 20)
	assert.Equal(t, 19, h.Len())
	assert.Equal(t, Rendered, b.State())
	// Renderer failures don't undo the render, so its poles are kept.
	assert.Equal(t, testPoles(), b.Poles())

	require.NoError(t, h.Cleanup())
	assert.Equal(t, Idle, b.State())
}

func TestRerenderReplacesGeometry(t *testing.T) {
	r := newFakeRenderer()
	b := New(r, testOptions(t))
	ctx := context.Background()

	_, h, err := b.Render(ctx, testPoles())
	require.NoError(t, err)
	old := h.Handles()
	require.NoError(t, h.Cleanup())

	moved := testPoles()
	moved[3].Position = r3.Vec{X: 5, Y: 2, Z: -5}
	segs, h, err := b.Render(ctx, moved)
	require.NoError(t, err)
	defer h.Cleanup()

	r.mu.Lock()
	for _, id := range old {
		_, ok := r.live[id]
		assert.False(t, ok, "stale geometry %s still live", id)
	}
	for _, v := range r.live {
		if seg, ok := v.(Segment); ok {
			assert.Equal(t, segs[seg.Index], seg)
		}
	}
	r.mu.Unlock()
	assert.Equal(t, moved[3].Position, b.Poles()[3].Position)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "rendering", Rendering.String())
	assert.Equal(t, "rendered", Rendered.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestCleanupDuringRender(t *testing.T) {
	r := newFakeRenderer()
	b := New(r, testOptions(t))

	stop := make(chan struct{})
	cleaned := make(chan struct{})
	go func() {
		defer close(cleaned)
		for {
			select {
			case <-stop:
				return
			default:
				assert.NoError(t, b.Cleanup())
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for range 50 {
		segs, _, err := b.Render(ctx, testPoles())
		require.NoError(t, err)
		require.Len(t, segs, 20)
	}
	close(stop)
	<-cleaned

	require.NoError(t, b.Cleanup())
	assert.Equal(t, Idle, b.State())
	s, m, meshes := r.count()
	assert.Zero(t, s+m+meshes)
}
