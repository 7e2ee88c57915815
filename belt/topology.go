package belt

import (
	"maps"
	"slices"
	"sync"
)

// Topology records which belts are attached to which poles. It only stores
// IDs; it owns neither poles nor belts.
type Topology struct {
	mu     sync.RWMutex
	byPole map[string]map[string]struct{}
	byBelt map[string][]string
}

func NewTopology() *Topology {
	return &Topology{
		byPole: make(map[string]map[string]struct{}),
		byBelt: make(map[string][]string),
	}
}

// Attach records that the belt runs through the poles, replacing any poles
// previously recorded for it.
func (t *Topology) Attach(beltID string, poleIDs ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detach(beltID)
	for _, pid := range poleIDs {
		set, ok := t.byPole[pid]
		if !ok {
			set = make(map[string]struct{})
			t.byPole[pid] = set
		}
		set[beltID] = struct{}{}
	}
	t.byBelt[beltID] = slices.Clone(poleIDs)
}

// Detach forgets the belt.
func (t *Topology) Detach(beltID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detach(beltID)
}

func (t *Topology) detach(beltID string) {
	for _, pid := range t.byBelt[beltID] {
		set := t.byPole[pid]
		delete(set, beltID)
		if len(set) == 0 {
			delete(t.byPole, pid)
		}
	}
	delete(t.byBelt, beltID)
}

// BeltsAt returns the IDs of the belts attached to a pole, sorted.
func (t *Topology) BeltsAt(poleID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.byPole[poleID]))
}

// PolesOf returns the IDs of the poles a belt runs through, in order.
func (t *Topology) PolesOf(beltID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.byBelt[beltID])
}
