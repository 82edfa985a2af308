package auth

import (
	"sync"
	"time"

	"todoweb/internal/model"
)

// BootstrapState is the session bootstrap lifecycle. Transitions only move
// forward: once a terminal state is reached, later events are absorbed, so no
// "already initialized" guards are needed anywhere else.
type BootstrapState int

const (
	StateUninitialized BootstrapState = iota
	StateResolving
	StateResolvedIdentity
	StateResolvedAnonymous
	StateFailed
)

func (s BootstrapState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolving:
		return "resolving"
	case StateResolvedIdentity:
		return "resolved(identity)"
	case StateResolvedAnonymous:
		return "resolved(anonymous)"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// terminal reports whether the state absorbs further events.
func (s BootstrapState) terminal() bool {
	return s == StateResolvedIdentity || s == StateResolvedAnonymous || s == StateFailed
}

type eventKind int

const (
	eventSessionFound eventKind = iota
	eventSessionAbsent
	eventSignedOut
	eventError
)

// Event is one signal from the external auth collaborator.
type Event struct {
	kind eventKind
	user *model.User
	err  error
}

// SessionFound reports a resolved identity.
func SessionFound(user *model.User) Event { return Event{kind: eventSessionFound, user: user} }

// SessionAbsent reports that no session exists.
func SessionAbsent() Event { return Event{kind: eventSessionAbsent} }

// SignedOut reports an explicit sign-out.
func SignedOut() Event { return Event{kind: eventSignedOut} }

// BootstrapError reports a failure talking to the auth collaborator.
func BootstrapError(err error) Event { return Event{kind: eventError, err: err} }

// Bootstrap resolves "who is the caller" from asynchronous auth events with a
// single bounded wait. It replaces ad-hoc fallback-user reconstruction: the
// only paths out of resolving are an event or the timeout, and the timeout
// always lands on resolved(anonymous).
type Bootstrap struct {
	mu    sync.Mutex
	state BootstrapState
	user  *model.User
	err   error
	done  chan struct{}
}

func NewBootstrap() *Bootstrap {
	return &Bootstrap{state: StateUninitialized, done: make(chan struct{})}
}

// Begin moves uninitialized → resolving. Calling it twice is a no-op.
func (b *Bootstrap) Begin() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateUninitialized {
		b.state = StateResolving
	}
}

// Apply is the single authoritative transition function. Events arriving
// before Begin or after a terminal state are ignored.
func (b *Bootstrap) Apply(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateResolving {
		return
	}

	switch ev.kind {
	case eventSessionFound:
		b.state = StateResolvedIdentity
		b.user = ev.user
	case eventSessionAbsent, eventSignedOut:
		b.state = StateResolvedAnonymous
	case eventError:
		b.state = StateFailed
		b.err = ev.err
	}
	close(b.done)
}

// WaitResolved blocks until the machine reaches a terminal state or the
// timeout elapses. On timeout, resolving collapses to resolved(anonymous).
// The returned user is non-nil only in resolved(identity).
func (b *Bootstrap) WaitResolved(timeout time.Duration) (*model.User, BootstrapState) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-b.done:
	case <-timer.C:
		b.mu.Lock()
		if !b.state.terminal() {
			b.state = StateResolvedAnonymous
			close(b.done)
		}
		b.mu.Unlock()
		// A racing Apply may have closed done first; either way the state is
		// terminal now.
		<-b.done
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.user, b.state
}

// State returns the current state.
func (b *Bootstrap) State() BootstrapState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err returns the failure cause in the failed state.
func (b *Bootstrap) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
