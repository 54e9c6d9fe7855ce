// Package session holds the client's belief about who is signed in.
//
// The Store is an explicit object: it is constructed once, hydrated from a
// persistence.Store, and passed to every component that needs it. All
// transitions write through to persistence first and then update memory, so
// the in-memory state is a cache of the persisted snapshot. A persistence
// failure is logged and the in-memory transition still happens; the session
// simply does not survive a restart.
//
// Invariant: State.IsAuthenticated == (State.Token != "") after every
// transition.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/persistence"
	"github.com/dmitrijs2005/venuebook/internal/logging"
)

// State is a snapshot of the session. An empty Token means no token.
type State struct {
	User            *models.UserProfile
	Token           string
	IsAuthenticated bool
}

// Role returns the user's role, or "" while the profile is unknown.
func (s State) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}

// Listener is notified synchronously after every transition.
type Listener func(State)

type Store struct {
	// tx serialises transitions across the persist and commit steps.
	tx        sync.Mutex
	mu        sync.RWMutex
	state     State
	persist   persistence.Store
	logger    logging.Logger
	listeners map[int]Listener
	nextID    int
}

// New builds a store hydrated from p. A failing Load starts the store logged out.
func New(ctx context.Context, p persistence.Store, logger logging.Logger) *Store {
	s := &Store{
		persist:   p,
		logger:    logger.With("component", "session"),
		listeners: make(map[int]Listener),
	}

	creds, err := p.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "session hydration failed, starting logged out", "error", err)
		return s
	}
	s.state = State{User: creds.User, Token: creds.Token, IsAuthenticated: creds.Token != ""}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Token returns the current bearer token. It is the transport's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetUser replaces the whole session after a successful login or registration.
func (s *Store) SetUser(ctx context.Context, user models.UserProfile, token string) {
	s.tx.Lock()
	defer s.tx.Unlock()

	next := State{User: &user, Token: token, IsAuthenticated: token != ""}
	if err := s.persist.Save(ctx, persistence.Credentials{Token: token, User: &user}); err != nil {
		s.logger.Warn(ctx, "persisting session failed", "error", err)
	}
	s.commit(ctx, next)
	s.logger.Info(ctx, "session started", "user_id", user.ID, "role", user.Role)
}

// Logout clears the whole session. It is idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.tx.Lock()
	defer s.tx.Unlock()
	s.logoutLocked(ctx)
}

func (s *Store) logoutLocked(ctx context.Context) {
	if err := s.persist.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "clearing persisted session failed", "error", err)
	}
	s.commit(ctx, State{})
	s.logger.Info(ctx, "session cleared")
}

// UpdateUser shallow-merges patch into the current user and re-persists it.
// Token and IsAuthenticated are untouched. Without an authenticated user it
// does nothing.
func (s *Store) UpdateUser(ctx context.Context, patch models.ProfilePatch) {
	s.tx.Lock()
	defer s.tx.Unlock()

	current := s.Snapshot()
	if !current.IsAuthenticated || current.User == nil {
		s.logger.Debug(ctx, "profile patch ignored, no user in session")
		return
	}
	s.mergeLocked(ctx, current, patch)
}

// Refresh stores a freshly fetched profile, but only while token is still
// the session's token. An empty cached user is replaced; otherwise the
// profile is merged like UpdateUser. It reports whether the session changed.
func (s *Store) Refresh(ctx context.Context, token string, profile models.UserProfile) bool {
	s.tx.Lock()
	defer s.tx.Unlock()

	current := s.Snapshot()
	if !current.IsAuthenticated || current.Token != token {
		s.logger.Debug(ctx, "profile refresh ignored, session changed")
		return false
	}
	if current.User == nil {
		s.saveLocked(ctx, current, profile)
		return true
	}
	s.mergeLocked(ctx, current, models.PatchFrom(profile))
	return true
}

func (s *Store) mergeLocked(ctx context.Context, current State, patch models.ProfilePatch) {
	s.saveLocked(ctx, current, patch.Apply(*current.User))
}

func (s *Store) saveLocked(ctx context.Context, current State, merged models.UserProfile) {
	current.User = &merged
	if err := s.persist.Save(ctx, persistence.Credentials{Token: current.Token, User: &merged}); err != nil {
		s.logger.Warn(ctx, "persisting profile update failed", "error", err)
	}
	s.commit(ctx, current)
}

// Reconcile re-reads persistence and logs the session out when it believes it
// is authenticated but the persisted token has gone (expired or removed out
// of band). It reports whether a logout happened.
func (s *Store) Reconcile(ctx context.Context) bool {
	s.tx.Lock()
	defer s.tx.Unlock()

	if !s.Snapshot().IsAuthenticated {
		return false
	}

	creds, err := s.persist.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "session reconcile skipped", "error", err)
		return false
	}
	if creds.Token != "" {
		return false
	}

	s.logger.Info(ctx, "persisted token missing, logging out")
	s.logoutLocked(ctx)
	return true
}

func (s *Store) commit(ctx context.Context, next State) {
	s.mu.Lock()
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next.clone())
	}
}
