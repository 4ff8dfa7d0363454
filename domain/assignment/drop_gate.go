package assignment

import (
	"sync"
	"time"
)

const (
	DefaultDropCooldown = 500 * time.Millisecond
	DefaultLockRelease  = 50 * time.Millisecond
)

// DropGate decides whether an interaction event may become a mutation.
//
// Two checks apply. A per-key cooldown rejects the same (asset, target) pair seen
// within the window, and a single-flight lock rejects everything while an accepted
// drop is being applied. The lock is released a short delay after Done so that the
// burst of near-duplicate events produced by overlapping input listeners is absorbed.
// One gate is owned per session and handed to every listener.
type DropGate struct {
	mu           sync.Mutex
	clock        Clock
	cooldown     time.Duration
	releaseDelay time.Duration
	accepted     map[string]time.Time
	current      string
	busy         bool
	timer        *time.Timer
}

type GateOption func(*DropGate)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) GateOption {
	return func(g *DropGate) {
		if c != nil {
			g.clock = c
		}
	}
}

func NewDropGate(cooldown, releaseDelay time.Duration, opts ...GateOption) *DropGate {
	if cooldown < 0 {
		cooldown = 0
	}
	g := &DropGate{
		clock:        SystemClock{},
		cooldown:     cooldown,
		releaseDelay: releaseDelay,
		accepted:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DropKey is the dedup key for an asset dropped on a target.
func DropKey(assetID, targetID string) string {
	return assetID + ":" + targetID
}

// Accept admits or rejects a drop. On success the caller owns the single-flight lock
// and must call Done once the mutation is finished, or Failed when it was not applied.
func (g *DropGate) Accept(assetID, targetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy {
		return ErrDropInFlight
	}
	now := g.clock.Now()
	g.collect(now)

	key := DropKey(assetID, targetID)
	if last, ok := g.accepted[key]; ok && now.Sub(last) < g.cooldown {
		return ErrDuplicateDrop
	}
	g.accepted[key] = now
	g.current = key
	g.busy = true
	return nil
}

// Failed releases the lock like Done and forgets the cooldown record of the drop, so
// a corrected retry is not rejected as a duplicate.
func (g *DropGate) Failed() {
	g.mu.Lock()
	if g.busy {
		delete(g.accepted, g.current)
	}
	g.mu.Unlock()
	g.Done()
}

// Done schedules the release of the single-flight lock.
func (g *DropGate) Done() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.busy || g.timer != nil {
		return
	}
	if g.releaseDelay <= 0 {
		g.busy = false
		return
	}
	g.timer = time.AfterFunc(g.releaseDelay, g.release)
}

func (g *DropGate) release() {
	g.mu.Lock()
	g.busy = false
	g.timer = nil
	g.mu.Unlock()
}

// Busy reports whether the single-flight lock is currently held.
func (g *DropGate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Tracked is the number of dedup records still inside the cooldown window.
func (g *DropGate) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.collect(g.clock.Now())
	return len(g.accepted)
}

// Close stops a pending release and frees the lock.
func (g *DropGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.busy = false
}

func (g *DropGate) collect(now time.Time) {
	for k, t := range g.accepted {
		if now.Sub(t) >= g.cooldown {
			delete(g.accepted, k)
		}
	}
}
