// internal/attendance/autosave.go
package attendance

import (
	"sync"
	"time"
)

// DefaultAutoSaveDelay is how long a field edit sits before it commits.
// Long enough to swallow a typing burst, short enough that a closed tab
// rarely loses anything.
const DefaultAutoSaveDelay = 600 * time.Millisecond

// taskRegistry arms at most one pending timer per key. Scheduling again
// cancels the previous timer first, which is what gives a burst of edits
// exactly one commit.
type taskRegistry struct {
	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{timers: make(map[uint]*time.Timer)}
}

func (r *taskRegistry) Schedule(key uint, delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[key]; ok {
		t.Stop()
	}
	r.timers[key] = time.AfterFunc(delay, func() {
		r.mu.Lock()
		delete(r.timers, key)
		r.mu.Unlock()
		fn()
	})
}

// Cancel stops the key's pending task and reports whether one was armed.
func (r *taskRegistry) Cancel(key uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[key]
	if ok {
		t.Stop()
		delete(r.timers, key)
	}
	return ok
}

func (r *taskRegistry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.timers {
		t.Stop()
		delete(r.timers, key)
	}
}

// AutoSaveCoordinator debounces field edits per team member. The commit
// callback runs when the timer fires and re-reads the live overlay value
// at that point, so a stale capture from earlier in the burst can never
// overwrite later input.
type AutoSaveCoordinator struct {
	delay time.Duration
	tasks *taskRegistry
}

func NewAutoSaveCoordinator(delay time.Duration) *AutoSaveCoordinator {
	if delay <= 0 {
		delay = DefaultAutoSaveDelay
	}
	return &AutoSaveCoordinator{delay: delay, tasks: newTaskRegistry()}
}

func (a *AutoSaveCoordinator) Schedule(memberID uint, commit func()) {
	a.tasks.Schedule(memberID, a.delay, commit)
}

// Cancel drops the member's pending commit, if any.
func (a *AutoSaveCoordinator) Cancel(memberID uint) bool {
	return a.tasks.Cancel(memberID)
}

// Stop cancels every pending commit. Used on shutdown and in tests.
func (a *AutoSaveCoordinator) Stop() {
	a.tasks.CancelAll()
}
