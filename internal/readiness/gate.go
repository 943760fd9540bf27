// Package readiness provides a one-shot, broadcast readiness signal.
//
// A Gate is fulfilled exactly once, either usable or unusable, and every
// waiter (past and future) observes the same outcome. Completion is a closed
// channel, so waiting costs nothing once the gate is settled.
package readiness

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnusable is returned by Wait when the gate was signalled not-ok.
	ErrUnusable = errors.New("catalog unusable")

	// ErrSuperseded is returned by Wait when the gate was replaced before it
	// was signalled. Callers should fetch the current gate and wait again.
	ErrSuperseded = errors.New("readiness gate superseded")
)

// Outcome is the settled state of a Gate.
type Outcome int

const (
	Pending Outcome = iota
	Ready
	Unusable
	Superseded
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Ready:
		return "ready"
	case Unusable:
		return "unusable"
	case Superseded:
		return "superseded"
	default:
		return "pending"
	}
}

// Gate is a set-once, read-many readiness signal.
type Gate struct {
	once    sync.Once
	done    chan struct{}
	mu      sync.RWMutex
	outcome Outcome
}

// New returns a pending gate.
func New() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Signal settles the gate as ready (ok) or unusable (!ok).
// Only the first settlement counts; it reports whether this call was it.
func (g *Gate) Signal(ok bool) bool {
	if ok {
		return g.settle(Ready)
	}
	return g.settle(Unusable)
}

// Supersede settles a pending gate as replaced. No-op on a settled gate.
func (g *Gate) Supersede() bool {
	return g.settle(Superseded)
}

func (g *Gate) settle(o Outcome) bool {
	settled := false
	g.once.Do(func() {
		g.mu.Lock()
		g.outcome = o
		g.mu.Unlock()
		close(g.done)
		settled = true
	})
	return settled
}

// Done returns a channel closed once the gate is settled.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Outcome returns the current state without blocking.
func (g *Gate) Outcome() Outcome {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.outcome
}

// Wait blocks until the gate is settled or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	switch g.Outcome() {
	case Ready:
		return nil
	case Superseded:
		return ErrSuperseded
	default:
		return ErrUnusable
	}
}
