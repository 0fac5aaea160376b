package submission

import "sync"

// Tracker is the set of form identifiers currently mid-submission. It is the
// re-entrancy guard: at most one submission per identifier is active.
type Tracker struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]struct{})}
}

// TryBegin marks id active. It returns false when id is already active.
func (t *Tracker) TryBegin(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		t.active = make(map[string]struct{})
	}
	if _, busy := t.active[id]; busy {
		return false
	}
	t.active[id] = struct{}{}
	return true
}

// End releases id. Releasing an inactive id is a no-op.
func (t *Tracker) End(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, id)
}

// Active reports whether id is mid-submission.
func (t *Tracker) Active(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.active[id]
	return busy
}

// Len reports how many submissions are active.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}
