// Package session holds the authenticated identity for the lifetime of the
// running client: the in-memory token/user pair, its durable mirror, and the
// transient notification surface the UI reads outcomes from.
package session

import (
	"sync"

	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/model"
)

// Session is the single source of truth for "who is logged in". It is
// injected explicitly into every consumer; there is no package-level
// instance. Token and user are set and cleared together, never one without
// the other.
//
// Every login and logout bumps a generation counter. A login that began before a logout
// (explicit or forced by a 401) observes a stale generation and is refused,
// so an in-flight login cannot resurrect a session that was torn down
// underneath it.
type Session struct {
	store    *Store
	notifier *Notifier

	mu    sync.Mutex
	gen   uint64
	token string
	user  *model.User
}

// New constructs a session bound to the given store and rehydrates it once
// from disk. This is the only disk-to-memory synchronization point; all
// later changes flow memory-to-disk.
func New(store *Store) *Session {
	s := &Session{store: store, notifier: NewNotifier()}
	if token, user, ok := store.Load(); ok {
		s.token = token
		s.user = user
		logger.Info("session restored", logger.F("email", user.Email))
	}
	return s
}

// Notifier returns the session's notification surface.
func (s *Session) Notifier() *Notifier {
	return s.notifier
}

// Login stores the pair durably, then updates memory. The token's
// authenticity is not validated here; the server that issued it already did.
func (s *Session) Login(token string, user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(token, user)
}

// Begin returns the current generation. A flow that will complete a login
// asynchronously captures it before the network call.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Complete applies a login only if no logout happened since gen was
// observed. Returns false when the login is stale and was discarded.
func (s *Session) Complete(gen uint64, token string, user model.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		logger.Warn("stale login discarded", logger.F("email", user.Email))
		return false
	}
	s.apply(token, user)
	return true
}

func (s *Session) apply(token string, user model.User) {
	if err := s.store.Save(token, user); err != nil {
		logger.Error("failed to persist session", logger.F("error", err))
	}
	s.token = token
	s.user = &user
	s.gen++
}

// Logout clears the store first, then memory, and bumps the generation.
// Calling it with no active session is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" && s.user == nil {
		return
	}
	if err := s.store.Clear(); err != nil {
		logger.Error("failed to clear session store", logger.F("error", err))
	}
	s.token = ""
	s.user = nil
	s.gen++
	logger.Info("session cleared")
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current profile, or nil when logged out.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a session is active.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the current viewer is an administrator.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

// Generation returns the session generation, advanced by every login and
// logout. Views use it to detect viewer identity changes.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
