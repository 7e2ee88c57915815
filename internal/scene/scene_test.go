package scene

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r3"

	"honnef.co/go/conveyor/belt"
	"honnef.co/go/conveyor/internal/config"
	"honnef.co/go/conveyor/render/memory"
)

const twoBelts = `
entity_debug: false
poles:
  - {id: a, position: [0, 0, 0]}
  - {id: b, position: [10, 0, 0]}
  - {id: c, position: [20, 0, 0]}
  - {id: d, position: [5, 0, 5]}
  - {id: e, position: [10, 0, 10]}
  - {id: f, position: [0, 0, 10]}
belts:
  - {name: one, poles: [a, b, c, d]}
  - {name: two, poles: [b, e, f, c]}
`

func load(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return cfg
}

func TestRenderAndCleanup(t *testing.T) {
	var r memory.Scene
	s, err := Build(load(t, twoBelts), &r, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, s.Entries, 2)

	require.NoError(t, s.Render(context.Background(), nil))
	// 20 segments and one mesh per belt.
	assert.Equal(t, 42, r.Len())
	for _, e := range s.Entries {
		assert.Equal(t, belt.Rendered, e.Belt.State())
	}

	require.NoError(t, s.Cleanup())
	assert.Zero(t, r.Len())
	for _, e := range s.Entries {
		assert.Equal(t, belt.Idle, e.Belt.State())
	}
	// Nothing left to clean up.
	require.NoError(t, s.Cleanup())
}

func TestRenderPose(t *testing.T) {
	var r memory.Scene
	s, err := Build(load(t, twoBelts), &r, nil)
	require.NoError(t, err)

	lift := func(e *Entry) []belt.Pole {
		out := make([]belt.Pole, len(e.Poles))
		for i, p := range e.Poles {
			p.Position = r3.Add(p.Position, r3.Vec{Y: 3})
			out[i] = p
		}
		return out
	}
	require.NoError(t, s.Render(context.Background(), lift))
	for _, seg := range r.Segments() {
		assert.InDelta(t, 3, seg.Position.Y, 1e-12)
	}
	// The configured poles are untouched.
	assert.Zero(t, s.Entries[0].Poles[0].Position.Y)
	assert.Equal(t, 3.0, s.Entries[0].Belt.Poles()[0].Position.Y)
}

func TestRenderInvalidPose(t *testing.T) {
	var r memory.Scene
	s, err := Build(load(t, twoBelts), &r, nil)
	require.NoError(t, err)

	drop := func(e *Entry) []belt.Pole {
		if e.Name == "one" {
			return e.Poles[:2]
		}
		return e.Poles
	}
	err = s.Render(context.Background(), drop)
	assert.ErrorIs(t, err, belt.ErrInvalidTopology)
	assert.Contains(t, err.Error(), `belt "one"`)
	assert.Equal(t, belt.Idle, s.Entries[0].Belt.State())
	assert.Equal(t, belt.Rendered, s.Entries[1].Belt.State())
	require.NoError(t, s.Cleanup())
}

func TestRenderCancelled(t *testing.T) {
	var r memory.Scene
	s, err := Build(load(t, twoBelts), &r, nil)
	require.NoError(t, err)
	require.NoError(t, s.Render(context.Background(), nil))

	// The previous render is still up, so the second one waits until the
	// context is done.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Render(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 42, r.Len())
	require.NoError(t, s.Cleanup())
}

func TestShared(t *testing.T) {
	s, err := Build(load(t, twoBelts), &memory.Scene{}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"b": {"one", "two"},
		"c": {"one", "two"},
	}, s.Shared())
}
