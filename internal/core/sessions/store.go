package sessions

import (
	"context"
	"sync"
)

// AuthProvider is the subset of the auth provider the Store consumes.
// The concrete implementation lives in internal/auth.
type AuthProvider interface {
	// SubscribeAuthState registers a callback for auth-state changes and
	// returns an unsubscribe function. The provider emits its current
	// sessions synchronously during subscription (initial resolution),
	// then one event per subsequent sign-in, sign-out, or invalidation.
	SubscribeAuthState(fn func(Event)) (unsubscribe func())

	// SignOut ends the session behind the given token. On success the
	// provider re-emits the change on the auth-state stream.
	SignOut(ctx context.Context, token string) error
}

// Store is the process-wide view of who is signed in. It subscribes once to
// the auth provider's state stream, mirrors every emitted change, and
// republishes it to its own subscribers synchronously. The API middleware
// consults the Store so that revoked tokens stop working immediately,
// without waiting for JWT expiry.
type Store struct {
	provider    AuthProvider
	unsubscribe func()

	mu       sync.Mutex
	sessions map[string]*Session
	subs     map[int]func(Event)
	nextSub  int
	closed   bool
}

// NewStore creates a Store and subscribes it to the provider's auth-state
// stream. Sessions the provider restored from persistence are mirrored
// before NewStore returns.
func NewStore(provider AuthProvider) *Store {
	s := &Store{
		provider: provider,
		sessions: make(map[string]*Session),
		subs:     make(map[int]func(Event)),
	}
	s.unsubscribe = provider.SubscribeAuthState(s.handleAuthState)
	return s
}

// Current returns the session behind token, or nil when the token is not
// signed in (never was, signed out, or invalidated).
func (s *Store) Current(token string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[token]
}

// Subscribe registers fn for every subsequent auth-state change and returns
// an unsubscribe function. Callbacks run synchronously on the goroutine that
// emitted the change.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SignOut delegates to the provider. It does not clear local state: the
// provider re-emits "no session" for the token, which is what updates the
// Store. A failed sign-out therefore leaves the session visible.
func (s *Store) SignOut(ctx context.Context, token string) error {
	return s.provider.SignOut(ctx, token)
}

// Close unsubscribes from the provider. The Store stops mirroring changes;
// held sessions remain readable.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.unsubscribe()
}

// handleAuthState replaces the held session for the event's token and
// notifies subscribers. Notification happens outside the lock so a
// subscriber may call back into the Store.
func (s *Store) handleAuthState(ev Event) {
	s.mu.Lock()
	if ev.Session != nil {
		s.sessions[ev.Token] = ev.Session
	} else {
		delete(s.sessions, ev.Token)
	}
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
