// Package lifecycle provides a minimal stand-in for the thread-group
// pattern the teacher codebase leans on (NebulousLabs/threadgroup,
// referenced throughout modules/wallet as w.tg): a way for a long-running
// background worker to be asked to stop and for callers to wait until it
// actually has.
package lifecycle

import (
	"errors"
	"sync"
)

// ErrStopped is the error value for a Group that has been stopped. No
// method of Group returns it; Stopped reports the same condition.
var ErrStopped = errors.New("lifecycle: group is stopped")

// Group tracks a single background goroutine's stop signal and exit.
// Unlike threadgroup it does not count concurrent callers into the
// goroutine body - walletd's workers are single-goroutine loops, so a
// simpler done-channel is enough.
type Group struct {
	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
	doneOnce sync.Once
}

// NewGroup creates a ready-to-use Group.
func NewGroup() *Group {
	return &Group{
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// StopChan returns the channel that closes when Stop is called. Workers
// should select on it between chunks/ticks and before blocking network or
// database calls.
func (g *Group) StopChan() <-chan struct{} {
	return g.stopChan
}

// Stopped reports whether Stop has been called.
func (g *Group) Stopped() bool {
	select {
	case <-g.stopChan:
		return true
	default:
		return false
	}
}

// Stop signals the worker to exit and blocks until it calls Done.
func (g *Group) Stop() {
	g.once.Do(func() { close(g.stopChan) })
	<-g.done
}

// Done must be called exactly once, by the worker goroutine, when it has
// finished exiting in response to StopChan closing (or has never started).
func (g *Group) Done() {
	g.doneOnce.Do(func() { close(g.done) })
}
