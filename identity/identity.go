package identity

import (
	"sync"

	"github.com/google/uuid"
)

// User is the signed-in shopper as the rest of the application sees it.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Provider exposes the current authentication state. Consumers that hold
// long-lived state (like a cart) can subscribe to be told when the user
// signs in or out; nil is delivered on sign-out.
type Provider interface {
	// Current returns the signed-in user, or (nil, false) when anonymous.
	Current() (*User, bool)

	// Subscribe registers fn to be called on every identity change. The
	// returned function cancels the subscription.
	Subscribe(fn func(*User)) (cancel func())
}

// Emitter is a Provider whose identity can be changed at runtime. It is the
// backing implementation for embedded and test usage where sign-in and
// sign-out happen within the process.
type Emitter struct {
	mu      sync.RWMutex
	current *User
	subs    map[int]func(*User)
	nextID  int
}

// NewEmitter returns an Emitter with no signed-in user.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[int]func(*User))}
}

func (e *Emitter) Current() (*User, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return nil, false
	}
	u := *e.current
	return &u, true
}

func (e *Emitter) Subscribe(fn func(*User)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// SignIn sets the current user and notifies subscribers.
func (e *Emitter) SignIn(u User) {
	e.mu.Lock()
	e.current = &u
	subs := e.snapshotSubs()
	e.mu.Unlock()

	for _, fn := range subs {
		fn(&u)
	}
}

// SignOut clears the current user and notifies subscribers with nil.
func (e *Emitter) SignOut() {
	e.mu.Lock()
	e.current = nil
	subs := e.snapshotSubs()
	e.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

func (e *Emitter) snapshotSubs() []func(*User) {
	subs := make([]func(*User), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	return subs
}

// static is a fixed-identity Provider used for request-scoped services where
// the user is already known from the auth middleware.
type static struct {
	user *User
}

// Static returns a Provider that always reports u. Pass nil for an
// anonymous provider.
func Static(u *User) Provider {
	return &static{user: u}
}

func (s *static) Current() (*User, bool) {
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

func (s *static) Subscribe(func(*User)) func() {
	// Identity never changes for the lifetime of a static provider.
	return func() {}
}
