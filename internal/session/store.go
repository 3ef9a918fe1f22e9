// Package session holds the dashboard's process-wide authentication state:
// the token, the signed-in user's profile and the in-flight profile fetch.
//
// Only the token is persisted. The profile is always fetched again after a
// restart.
package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shopdesk/shopdesk/internal/storage"
	"github.com/shopdesk/shopdesk/pkg/client"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

// UserFetcher loads the current user's profile from the API.
type UserFetcher interface {
	GetUser(ctx context.Context) (*client.ProfileResponse, error)
}

// State is the coarse authentication state the navigation guard acts on.
type State int

const (
	// StateUnauthenticated means no token is held.
	StateUnauthenticated State = iota
	// StateNoProfile means a token is held but the profile is not loaded.
	StateNoProfile
	// StateReady means a token is held and the profile is loaded.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateNoProfile:
		return "authenticated, no profile"
	case StateReady:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is a point-in-time copy of the store's fields.
type Snapshot struct {
	Token         string
	Authenticated bool
	User          *domain.User
	UserLoading   bool
	Permissions   []string
	Roles         []string
}

// Store is the session store. One Store exists per process; components that
// need auth state are handed it explicitly.
type Store struct {
	tokens storage.TokenStore
	api    UserFetcher
	logger *log.Logger
	fetch  singleflight.Group

	// persist is held across a token change and its storage write so the
	// stored token follows the order of in-memory changes.
	persist sync.Mutex

	mu            sync.RWMutex
	token         string
	authenticated bool
	user          *domain.User
	permissions   []string
	roles         []string
	loading       bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fetch failures. Defaults to discarding.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithToken starts the session with tok instead of the persisted token.
// The persisted copy is left untouched.
func WithToken(tok string) Option {
	return func(s *Store) {
		if tok != "" {
			s.token = tok
		}
	}
}

// Open creates the store, restoring the persisted token.
func Open(ctx context.Context, tokens storage.TokenStore, api UserFetcher, opts ...Option) (*Store, error) {
	s := &Store{
		tokens: tokens,
		api:    api,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.token == "" {
		tok, err := tokens.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("session.Open: %w", err)
		}
		s.token = tok
	}
	s.authenticated = s.token != ""
	return s, nil
}

// SetToken replaces the token and persists it, or removes the persisted copy
// when token is empty. The in-memory state changes even if persisting fails.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.persist.Lock()
	defer s.persist.Unlock()

	s.mu.Lock()
	s.token = token
	s.authenticated = token != ""
	s.mu.Unlock()

	if token != "" {
		if err := s.tokens.Save(ctx, token); err != nil {
			return fmt.Errorf("session.SetToken: %w", err)
		}
		return nil
	}
	if err := s.tokens.Remove(ctx); err != nil {
		return fmt.Errorf("session.SetToken: %w", err)
	}
	return nil
}

// SetUser replaces the profile and recomputes the permission and role
// projections. A nil user empties both.
func (s *Store) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.permissions = u.PermissionList()
	s.roles = u.RoleNames()
}

// ClearAuth resets the session to empty and removes the persisted token.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.persist.Lock()
	defer s.persist.Unlock()

	s.mu.Lock()
	s.token = ""
	s.authenticated = false
	s.user = nil
	s.permissions = nil
	s.roles = nil
	s.mu.Unlock()

	if err := s.tokens.Remove(ctx); err != nil {
		return fmt.Errorf("session.ClearAuth: %w", err)
	}
	return nil
}

// FetchUser loads the profile and stores it. Concurrent callers share a single
// request and all receive its outcome. On failure the session is cleared and
// the API error is returned wrapped.
//
// The request is not cancelled when ctx is; only the client timeout bounds it.
func (s *Store) FetchUser(ctx context.Context) (*domain.User, error) {
	ctx = context.WithoutCancel(ctx)
	v, err, _ := s.fetch.Do("profile", func() (any, error) {
		s.setLoading(true)
		defer s.setLoading(false)

		resp, err := s.api.GetUser(ctx)
		if err != nil {
			s.logger.Printf("session: failed to fetch user: %v", err)
			if clearErr := s.ClearAuth(ctx); clearErr != nil {
				s.logger.Printf("session: %v", clearErr)
			}
			return nil, err
		}
		var u *domain.User
		if resp != nil {
			u = resp.Data
		}
		s.SetUser(u)
		return u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session.FetchUser: %w", err)
	}
	u, _ := v.(*domain.User)
	return u, nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Token returns the current token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the loaded profile, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserLoading reports whether a profile fetch is in flight.
func (s *Store) UserLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Permissions returns a copy of the permission projection.
func (s *Store) Permissions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.permissions...)
}

// Roles returns a copy of the role-name projection.
func (s *Store) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.roles...)
}

// State classifies the session for the navigation guard.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case !s.authenticated:
		return StateUnauthenticated
	case s.user == nil:
		return StateNoProfile
	default:
		return StateReady
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Token:         s.token,
		Authenticated: s.authenticated,
		User:          s.user,
		UserLoading:   s.loading,
		Permissions:   append([]string(nil), s.permissions...),
		Roles:         append([]string(nil), s.roles...),
	}
}
