package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/homeview/internal/apperr"
	"github.com/evcraddock/homeview/internal/snapshot"
)

// Manager owns the current session. There is at most one at a time; it is
// mirrored to the snapshot store under the "user" key so it survives restarts.
type Manager struct {
	mu      sync.Mutex
	dir     *Directory
	store   snapshot.Store
	current *Session
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerClock overrides the clock used for StartedAt.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager with no current session. Call Restore to pick
// up a persisted one.
func NewManager(dir *Directory, store snapshot.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		dir:    dir,
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Directory returns the directory the manager authenticates against.
func (m *Manager) Directory() *Directory { return m.dir }

// Login starts a session for the entry whose email and secret match exactly.
// On failure the existing session, if any, is left alone.
func (m *Manager) Login(ctx context.Context, email, secret string) (Session, error) {
	u, ok := m.dir.Authenticate(email, secret)
	if !ok {
		m.logger.Warn("login failed", "email", email)
		return Session{}, apperr.Auth("invalid email or password")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.establish(ctx, u)
	if err != nil {
		return Session{}, err
	}
	m.logger.Info("logged in", "user_id", s.ID, "session_id", s.SessionID)
	return s, nil
}

// Register adds a new account and signs it in. The email is stored byte for
// byte, as Login compares it. A duplicate email is a ConflictError and leaves
// the current session alone.
func (m *Manager) Register(ctx context.Context, p Profile) (Session, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Email == "" || p.Password == "" {
		return Session{}, apperr.Invalid("name, email and password are required")
	}
	role, err := ParseRole(p.Role)
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dir.Has(p.Email) {
		m.logger.Warn("registration rejected", "email", p.Email, "reason", "duplicate")
		return Session{}, apperr.Conflict("user with email %s already exists", p.Email)
	}

	hash, err := hashSecret(p.Password)
	if err != nil {
		return Session{}, err
	}

	e := m.dir.add(Entry{
		User: User{
			Name:   p.Name,
			Email:  p.Email,
			Role:   role,
			Avatar: p.Avatar,
			Phone:  p.Phone,
		},
		PasswordHash: hash,
	})

	if err := m.persistDirectory(ctx); err != nil {
		m.dir.remove(e.Email)
		return Session{}, err
	}

	s, err := m.establish(ctx, e.User)
	if err != nil {
		m.dir.remove(e.Email)
		if derr := m.persistDirectory(ctx); derr != nil {
			m.logger.Error("rolling back registration", "email", e.Email, "error", derr)
		}
		return Session{}, err
	}

	m.logger.Info("registered", "user_id", s.ID, "role", s.Role, "session_id", s.SessionID)
	return s, nil
}

// Logout ends the current session and clears its snapshot. Logging out with
// no session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, snapshot.KeyUser); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	if m.current != nil {
		m.logger.Info("logged out", "user_id", m.current.ID, "session_id", m.current.SessionID)
	}
	m.current = nil
	return nil
}

// Restore reloads registered accounts and the persisted session. It returns
// nil when no session was stored. The stored session is trusted as is.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	var registered []Entry
	if _, err := snapshot.ReadJSON(ctx, m.store, snapshot.KeyDirectory, &registered); err != nil {
		return nil, fmt.Errorf("restoring directory: %w", err)
	}
	m.dir.restore(registered)

	var s Session
	ok, err := snapshot.ReadJSON(ctx, m.store, snapshot.KeyUser, &s)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !ok {
		m.current = nil
		return nil, nil
	}
	if s.SessionID == "" {
		s.SessionID = m.newID()
	}
	m.current = &s
	out := s.Clone()
	m.logger.Debug("session restored", "user_id", s.ID, "session_id", s.SessionID)
	return &out, nil
}

// Current returns a copy of the current session.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return m.current.Clone(), true
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// establish makes u the current user and writes the snapshot. If the write
// fails the previous session is put back. Callers hold m.mu.
func (m *Manager) establish(ctx context.Context, u User) (Session, error) {
	s := Session{
		User:      u.clone(),
		SessionID: m.newID(),
		StartedAt: m.now().UTC(),
	}

	prev := m.current
	m.current = &s
	if err := snapshot.WriteJSON(ctx, m.store, snapshot.KeyUser, s); err != nil {
		m.current = prev
		return Session{}, fmt.Errorf("saving session: %w", err)
	}
	return s.Clone(), nil
}

func (m *Manager) persistDirectory(ctx context.Context) error {
	if err := snapshot.WriteJSON(ctx, m.store, snapshot.KeyDirectory, m.dir.Registered()); err != nil {
		return fmt.Errorf("saving directory: %w", err)
	}
	return nil
}
