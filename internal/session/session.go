// Package session owns the authentication lifecycle: the bearer token, the
// profile it resolves to, and the persisted copy of the token that survives
// restarts. Token and user always move together; there is no partial
// session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/storage"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const storageKey = "token"

var ErrValidation = errors.New("validation")

// Result is the outcome of a login or register attempt. Failures carry the
// backend's message when one was available.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// State is a point-in-time snapshot of the session.
type State struct {
	Token         string
	User          *models.User
	Authenticated bool
	Loading       bool
}

type Store struct {
	mu      sync.Mutex
	token   string
	user    *models.User
	loading bool

	// gen fences profile fetches: a response created under an older
	// generation is discarded, so a superseded token can never overwrite
	// state produced by a later transition.
	gen    uint64
	cancel context.CancelFunc

	client *api.Client
	local  *storage.Store

	subs []func()
}

// New reads the persisted token. The session stays in the loading state
// until Bootstrap resolves it against the backend.
func New(ctx context.Context, client *api.Client, local *storage.Store) *Store {
	s := &Store{
		client:  client,
		local:   local,
		loading: true,
	}

	l := logging.FromContext(ctx).With("svc", "session.new")
	token, ok, err := local.Get(ctx, storageKey)
	if err != nil {
		l.Warn("token_restore_failed", "error", err)
		s.loading = false
		return s
	}
	if !ok {
		s.loading = false
		return s
	}
	if tokens.Expired(token, time.Now()) {
		l.Info("persisted_token_expired")
		if err := local.Delete(ctx, storageKey); err != nil {
			l.Warn("token_discard_failed", "error", err)
		}
		s.loading = false
		return s
	}

	s.token = token
	client.SetToken(token)
	return s
}

// Bootstrap resolves the restored token into a user. An invalid or rejected
// token forces a full logout, leaving an unauthenticated session rather
// than a half-open one.
func (s *Store) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	if token == "" {
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return
	}
	s.loading = true
	gen := s.gen
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.resolveUser(fctx, gen)
}

// SetToken replaces the session token and re-resolves the user in the
// background. An empty token is a logout. Rapid successive calls are safe:
// only the fetch belonging to the newest token can land.
func (s *Store) SetToken(ctx context.Context, token string) {
	if token == "" {
		s.Logout(ctx)
		return
	}

	l := logging.FromContext(ctx).With("svc", "session.set_token")

	s.mu.Lock()
	s.supersedeLocked()
	s.token = token
	s.user = nil
	s.loading = true
	s.client.SetToken(token)
	if err := s.local.Set(ctx, storageKey, token); err != nil {
		l.Warn("token_persist_failed", "error", err)
	}
	gen := s.gen
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	s.notify()

	go s.resolveUser(fctx, gen)
}

// Login exchanges credentials for a session. Failures never disturb the
// existing state and are reported as a Result, not an error.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	l := logging.FromContext(ctx).With("svc", "session.login")

	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return Result{Success: false, Message: "email and password are required"}
	}

	token, user, err := s.client.Login(ctx, email, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return Result{Success: false, Message: failureMessage(err, "Login failed")}
	}

	s.applySession(ctx, token, user)
	l.Info("login_success", "user_id", user.ID)
	return Result{Success: true}
}

// Register creates an account and, like Login, leaves the caller logged in
// on success.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) Result {
	l := logging.FromContext(ctx).With("svc", "session.register")

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Password) == "" {
		return Result{Success: false, Message: "email and password are required"}
	}

	token, user, err := s.client.Register(ctx, req)
	if err != nil {
		l.Warn("register_failed", "error", err)
		return Result{Success: false, Message: failureMessage(err, "Registration failed")}
	}

	s.applySession(ctx, token, user)
	l.Info("register_success", "user_id", user.ID)
	return Result{Success: true}
}

// Logout clears the token, the user, and the persisted token. It cannot
// fail; a persistence hiccup is logged and the in-memory state is cleared
// regardless.
func (s *Store) Logout(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "session.logout")

	s.mu.Lock()
	s.logoutLocked(ctx, l)
	s.mu.Unlock()
	s.notify()
}

// State returns a snapshot. Authenticated requires both a token and a
// resolved user.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Token:         s.token,
		User:          s.user,
		Authenticated: s.token != "" && s.user != nil,
		Loading:       s.loading,
	}
}

// Subscribe registers fn to run after every state transition.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// resolveUser runs the profile fetch for one generation and applies the
// outcome only if no newer transition happened meanwhile.
func (s *Store) resolveUser(ctx context.Context, gen uint64) {
	l := logging.FromContext(ctx).With("svc", "session.resolve_user")

	user, err := s.client.Profile(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		l.Warn("profile_fetch_failed", "error", err)
		s.logoutLocked(ctx, l)
		s.mu.Unlock()
		s.notify()
		return
	}
	s.user = user
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// applySession installs a fresh token+user pair atomically and persists the
// token. Any in-flight profile fetch is superseded.
func (s *Store) applySession(ctx context.Context, token string, user *models.User) {
	l := logging.FromContext(ctx).With("svc", "session.apply")

	s.mu.Lock()
	s.supersedeLocked()
	s.token = token
	s.user = user
	s.loading = false
	s.client.SetToken(token)
	if err := s.local.Set(ctx, storageKey, token); err != nil {
		l.Warn("token_persist_failed", "error", err)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) logoutLocked(ctx context.Context, l *slog.Logger) {
	s.supersedeLocked()
	s.token = ""
	s.user = nil
	s.loading = false
	s.client.ClearToken()
	if err := s.local.Delete(ctx, storageKey); err != nil {
		l.Warn("token_discard_failed", "error", err)
	}
}

func (s *Store) supersedeLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
