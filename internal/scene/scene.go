// Package scene builds the belts described by a config and renders them
// together.
package scene

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"honnef.co/go/conveyor/belt"
	"honnef.co/go/conveyor/internal/config"
)

// Entry is one configured belt.
type Entry struct {
	Name  string
	Belt  *belt.Belt
	Poles []belt.Pole
}

// Scene is a set of belts sharing one renderer.
type Scene struct {
	Entries  []*Entry
	Topology *belt.Topology

	log *zap.Logger
}

// Build creates the belts of cfg, rendering through r. Nothing is rendered
// yet.
func Build(cfg *config.Config, r belt.Renderer, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{Topology: belt.NewTopology(), log: log}
	for _, b := range cfg.Belts {
		opts, err := cfg.Options(b, log)
		if err != nil {
			return nil, err
		}
		poles, err := cfg.BeltPoles(b)
		if err != nil {
			return nil, err
		}
		e := &Entry{Name: b.Name, Belt: belt.New(r, opts), Poles: poles}
		s.Topology.Attach(e.Belt.ID(), b.Poles...)
		s.Entries = append(s.Entries, e)
	}
	return s, nil
}

// Render renders all belts concurrently. pose, if not nil, may move the
// poles of a belt before it is rendered; it must not modify its argument.
//
// Belts that fail to project are reported; the others still render.
// Renderer errors are returned alongside the belts that hit them.
func (s *Scene) Render(ctx context.Context, pose func(e *Entry) []belt.Pole) error {
	errs := make([]error, len(s.Entries))
	g, ctx := errgroup.WithContext(ctx)
	for i, e := range s.Entries {
		g.Go(func() error {
			poles := e.Poles
			if pose != nil {
				poles = pose(e)
			}
			segs, h, err := e.Belt.Render(ctx, poles)
			if err != nil {
				errs[i] = fmt.Errorf("belt %q: %w", e.Name, err)
			}
			s.log.Debug("rendered belt",
				zap.String("name", e.Name),
				zap.Int("segments", len(segs)),
				zap.Int("geometry", h.Len()))
			// A failing belt doesn't cancel the others.
			return ctx.Err()
		})
	}
	werr := g.Wait()
	return multierr.Append(werr, multierr.Combine(errs...))
}

// Cleanup removes the geometry of every belt.
func (s *Scene) Cleanup() error {
	var err error
	for _, e := range s.Entries {
		if cerr := e.Belt.Cleanup(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("belt %q: %w", e.Name, cerr))
		}
	}
	return err
}

// Shared returns the poles that more than one belt runs through, with the
// names of those belts.
func (s *Scene) Shared() map[string][]string {
	names := make(map[string]string, len(s.Entries))
	for _, e := range s.Entries {
		names[e.Belt.ID()] = e.Name
	}
	out := make(map[string][]string)
	for _, e := range s.Entries {
		for _, p := range e.Poles {
			if _, ok := out[p.ID]; ok {
				continue
			}
			ids := s.Topology.BeltsAt(p.ID)
			if len(ids) < 2 {
				continue
			}
			for _, id := range ids {
				out[p.ID] = append(out[p.ID], names[id])
			}
			slices.Sort(out[p.ID])
		}
	}
	return out
}
