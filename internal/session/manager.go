// Package session owns the authentication state of a civictrack process:
// the current access token and the user identity resolved from it.
//
// The manager is an explicit, injected object rather than global state. It
// doubles as the API client's token source, so credential attachment stays
// scoped to the one client instance it was built with.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Singhtanuhub/civicstrack5/internal/logging"
	"github.com/Singhtanuhub/civicstrack5/internal/token"
	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

// State is the session's position in its lifecycle.
type State int

const (
	// Anonymous means no valid token is held.
	Anonymous State = iota
	// Authenticated means a token is held and its user has been resolved.
	Authenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Manager mediates login, registration, logout, and silent restoration.
//
// Invariants: the user is non-nil only while a token that was unexpired at
// last check is held, and the credential store always mirrors the in-memory
// token after each transition.
type Manager struct {
	api    *civictrack.Client
	creds  *CredentialStore
	logger *slog.Logger

	mu       sync.RWMutex
	token    string
	user     *civictrack.User
	onChange func(State)
}

// NewManager builds a session manager and the API client it authenticates.
func NewManager(cfg civictrack.Config, creds *CredentialStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	m := &Manager{
		creds:  creds,
		logger: logger.With("component", "session"),
	}
	m.api = civictrack.NewClient(cfg, m, logger)
	return m
}

// API returns the client whose requests carry this session's token.
func (m *Manager) API() *civictrack.Client {
	return m.api
}

// Token implements civictrack.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns the resolved identity, nil while anonymous.
func (m *Manager) User() *civictrack.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Authenticated reports whether a user identity is currently resolved.
func (m *Manager) Authenticated() bool {
	return m.User() != nil
}

// OnChange registers a callback observing state transitions. The browser
// client navigated on login and logout; CLI consumers typically print.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Login exchanges credentials for a session. On success the token is
// persisted and the user identity resolved via the identity endpoint; on
// failure the backend's message comes back in the error and the session is
// unchanged.
func (m *Manager) Login(ctx context.Context, username, password string) (*civictrack.User, error) {
	resp, err := m.api.Login(ctx, civictrack.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp.Token)
}

// Register creates an account and starts a session with the returned token.
// Same contract as Login.
func (m *Manager) Register(ctx context.Context, username, email, password string) (*civictrack.User, error) {
	resp, err := m.api.Register(ctx, civictrack.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp.Token)
}

// Logout discards the session: in-memory token and user, and the persisted
// credential. Idempotent; logging out twice is the same as once.
func (m *Manager) Logout() error {
	m.mu.Lock()
	wasAuthenticated := m.user != nil
	m.token = ""
	m.user = nil
	fn := m.onChange
	m.mu.Unlock()

	err := m.creds.Clear()

	if wasAuthenticated {
		m.logger.Debug("session ended")
		if fn != nil {
			fn(Anonymous)
		}
	}
	return err
}

// LoadUser restores the session from the persisted token. The token is
// decoded locally first: one that fails to decode or has passed its expiry
// never reaches the identity endpoint. Any failure forces a logout, so the
// worst case is a clean return to anonymous.
func (m *Manager) LoadUser(ctx context.Context) (*civictrack.User, error) {
	stored := m.creds.Load()
	if stored == "" {
		return nil, civictrack.ErrNotAuthenticated
	}

	claims, err := token.Parse(stored)
	if err != nil {
		m.logger.Debug("stored token undecodable, logging out", "error", err)
		m.Logout()
		return nil, fmt.Errorf("%w: %w", civictrack.ErrInvalidToken, err)
	}
	if claims.Expired() {
		m.logger.Debug("stored token expired, logging out", "expired_at", claims.ExpiresAt)
		m.Logout()
		return nil, civictrack.ErrTokenExpired
	}

	m.mu.Lock()
	m.token = stored
	m.mu.Unlock()

	user, err := m.api.Me(ctx)
	if err != nil {
		m.logger.Debug("identity check failed, logging out", "error", err)
		m.Logout()
		return nil, err
	}

	m.setUser(user)
	return user, nil
}

// establish completes a login or registration: persist the token, attach it
// to subsequent requests, and resolve the identity. An identity failure at
// this point tears the half-built session back down.
func (m *Manager) establish(ctx context.Context, tok string) (*civictrack.User, error) {
	if tok == "" {
		return nil, civictrack.ErrInvalidToken
	}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	if err := m.creds.Save(tok); err != nil {
		m.Logout()
		return nil, err
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.Logout()
		return nil, err
	}

	m.setUser(user)
	m.logger.Debug("session established", "user", user.Username)
	return user, nil
}

// setUser marks the session authenticated and notifies observers.
func (m *Manager) setUser(user *civictrack.User) {
	m.mu.Lock()
	wasAnonymous := m.user == nil
	m.user = user
	fn := m.onChange
	m.mu.Unlock()

	if wasAnonymous && fn != nil {
		fn(Authenticated)
	}
}
