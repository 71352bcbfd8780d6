// Package conversation holds the transcript and the request gate:
// the only shared mutable state in the application core.
package conversation

import (
	"errors"
	"sync"

	"github.com/docchat/docchat/internal/domain/entities"
)

// ErrActionInFlight is returned by Begin when another user-initiated
// action has acquired the gate and has not yet settled.
var ErrActionInFlight = errors.New("another action is already in flight")

// Conversation is the ordered, append-only log of turns plus the single
// busy flag that serializes initiation of coordinator actions. It is an
// explicit object passed by reference to coordinators, never a package
// global, so independent sessions do not interfere.
//
// Coordinator bodies run inside view-command goroutines, so access is
// mutex-guarded.
type Conversation struct {
	mu    sync.Mutex
	turns []entities.Turn
	busy  bool

	renderHook func()
}

// New creates an empty conversation with the gate released.
func New() *Conversation {
	return &Conversation{}
}

// SetRenderHook registers a callback invoked after every append.
// View layers use it to re-render the transcript and scroll to the
// latest turn. A nil hook is allowed.
func (c *Conversation) SetRenderHook(fn func()) {
	c.mu.Lock()
	c.renderHook = fn
	c.mu.Unlock()
}

// Append adds a turn to the end of the transcript. Turns are never
// edited, reordered, or removed after this point.
func (c *Conversation) Append(turn entities.Turn) {
	c.mu.Lock()
	c.turns = append(c.turns, turn)
	hook := c.renderHook
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Turns returns a snapshot copy of the transcript for rendering.
func (c *Conversation) Turns() []entities.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entities.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of turns in the transcript.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// Begin acquires the request gate. It fails with ErrActionInFlight if
// an action is already in flight; the interface is expected to disable
// submission controls while busy, but the gate is the authoritative guard.
func (c *Conversation) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrActionInFlight
	}
	c.busy = true
	return nil
}

// End releases the request gate. It must run exactly once per Begin,
// on every exit path of an action; coordinators call it via defer so
// the gate is never left held after a failure.
func (c *Conversation) End() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// Busy reports whether an action is currently in flight. Views derive
// the transient typing indicator from this, never from a stored turn.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
