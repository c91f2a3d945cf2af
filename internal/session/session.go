// ABOUTME: Session state machine holding the authenticated user and token
// ABOUTME: Keeps memory and persistent storage in step and notifies observers

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/storage"
	"github.com/markalston/hrms-console/internal/token"
)

// State is the session state
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

const msgLoginFailed = "Login failed"

// AuthError is returned when the backend rejects a login attempt
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Authenticator calls the authentication endpoint
type Authenticator interface {
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error)
}

// Snapshot is a consistent view of the session
type Snapshot struct {
	State     State
	User      *client.User
	Token     string
	ExpiresAt time.Time
}

// Observer is called after every state transition
type Observer func(Snapshot)

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the session store. It is created once per process and
// injected into whatever needs it.
type Store struct {
	auth    Authenticator
	storage storage.Storage
	now     func() time.Time

	mu        sync.RWMutex
	state     State
	user      *client.User
	token     string
	expiresAt time.Time

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// New creates an anonymous session store
func New(auth Authenticator, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		auth:      auth,
		storage:   st,
		now:       time.Now,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates and, on success, persists the token and user
// before updating memory. On failure the state is unchanged.
func (s *Store) Login(ctx context.Context, creds client.Credentials) (Snapshot, error) {
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		msg := gateway.Message(err)
		if msg == "" {
			msg = msgLoginFailed
		}
		slog.Info("Login rejected", "username", creds.Username, "error", msg)
		return s.Current(), &AuthError{Message: msg, Err: err}
	}

	claims, err := token.Check(resp.Token, s.now())
	if err != nil {
		slog.Warn("Backend issued an unusable token", "username", creds.Username, "error", err)
		return s.Current(), &AuthError{Message: msgLoginFailed, Err: err}
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return s.Current(), fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.SetAll(map[string]string{
		storage.TokenKey: resp.Token,
		storage.UserKey:  string(userJSON),
	}); err != nil {
		return s.Current(), fmt.Errorf("failed to persist session: %w", err)
	}

	user := resp.User
	snap := s.set(Authenticated, &user, resp.Token, claims.Expiry())
	slog.Info("Logged in", "username", user.Username, "expires_at", snap.ExpiresAt)
	s.notify(snap)
	return snap, nil
}

// Hydrate restores the session from persistent storage without any
// network call. Invalid or expired tokens are cleared.
func (s *Store) Hydrate() State {
	raw, ok, err := s.storage.Get(storage.TokenKey)
	if err != nil {
		slog.Warn("Failed to read session storage", "error", err)
		s.toAnonymous()
		return Anonymous
	}
	if !ok || raw == "" {
		s.toAnonymous()
		return Anonymous
	}

	claims, err := token.Check(raw, s.now())
	if err != nil {
		slog.Info("Discarding stored session", "error", err)
		s.Logout()
		return Anonymous
	}

	userJSON, ok, err := s.storage.Get(storage.UserKey)
	if err != nil || !ok {
		slog.Info("Discarding stored session without user")
		s.Logout()
		return Anonymous
	}
	var user client.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		slog.Info("Discarding stored session with unreadable user", "error", err)
		s.Logout()
		return Anonymous
	}

	prev := s.Current()
	snap := s.set(Authenticated, &user, raw, claims.Expiry())
	if prev.State != Authenticated || prev.Token != raw {
		slog.Debug("Session restored", "username", user.Username)
		s.notify(snap)
	}
	return Authenticated
}

// Logout clears memory and persistent storage. Calling it while
// anonymous is harmless.
func (s *Store) Logout() error {
	err := s.storage.Remove(storage.TokenKey, storage.UserKey)
	if err != nil {
		err = fmt.Errorf("failed to clear session storage: %w", err)
	}
	s.toAnonymous()
	return err
}

// Validate re-checks the in-memory token and logs out if it has expired.
// It returns whether the session is still authenticated.
func (s *Store) Validate(now time.Time) bool {
	snap := s.Current()
	if snap.State != Authenticated {
		return false
	}
	if snap.ExpiresAt.UnixMilli() > now.UnixMilli() {
		return true
	}
	slog.Info("Session expired", "username", snap.User.Username)
	s.Logout()
	return false
}

// OnChange registers an observer and returns a function that removes it
func (s *Store) OnChange(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// Current returns a snapshot of the session
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{State: s.state, Token: s.token, ExpiresAt: s.expiresAt}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// State returns the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the current user or nil
func (s *Store) User() *client.User {
	return s.Current().User
}

// Token returns the in-memory token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) set(state State, user *client.User, tok string, exp time.Time) Snapshot {
	s.mu.Lock()
	s.state, s.user, s.token, s.expiresAt = state, user, tok, exp
	s.mu.Unlock()
	return s.Current()
}

func (s *Store) toAnonymous() {
	s.mu.Lock()
	was := s.state
	s.state, s.user, s.token, s.expiresAt = Anonymous, nil, "", time.Time{}
	s.mu.Unlock()

	if was == Authenticated {
		slog.Info("Logged out")
		s.notify(Snapshot{State: Anonymous})
	}
}

func (s *Store) notify(snap Snapshot) {
	s.obsMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// IsAuthError reports whether err is a rejected login
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
