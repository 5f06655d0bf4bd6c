// Package session holds the authentication state of the CLI: the access token,
// persisted through an auth.TokenStore, and the profile it resolves to.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/models"
)

// AuthAPI is the part of the API client the session depends on
type AuthAPI interface {
	Login(ctx context.Context, login, password string) (*models.TokenResponse, error)
	Me(ctx context.Context) (*models.UserProfile, error)
}

// Session is the current user profile plus its bearer token.
// IsAuthenticated holds iff both are set.
type Session struct {
	api    AuthAPI
	store  auth.TokenStore
	key    string
	logger zerolog.Logger

	mu    sync.RWMutex
	user  *models.UserProfile
	token string
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session and seeds its token from the store under key.
// A missing or unreadable token leaves the session logged out.
func New(api AuthAPI, store auth.TokenStore, key string, opts ...Option) *Session {
	s := &Session{
		api:    api,
		store:  store,
		key:    key,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	token, err := store.LoadToken(key)
	if err != nil {
		if !errors.Is(err, auth.ErrNotAuthenticated) {
			s.logger.Warn().Err(err).Msg("failed to restore token")
		}
		return s
	}
	s.token = token

	return s
}

// Login exchanges credentials for a token, persists it and loads the profile.
// If the exchange fails nothing changes. If the profile fetch fails the session
// ends fully logged out, token included.
func (s *Session) Login(ctx context.Context, login, password string) error {
	resp, err := s.api.Login(ctx, login, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.mu.Unlock()

	if err := s.store.SaveToken(s.key, resp.AccessToken); err != nil {
		s.Logout()
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	return s.FetchUser(ctx)
}

// FetchUser loads the profile for the held token. It is a no-op without a token.
// Any failure logs the session out and is returned to the caller.
func (s *Session) FetchUser(ctx context.Context) error {
	if !s.HasToken() {
		return nil
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.Logout()
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.logger.Debug().Str("login", user.Login).Str("role", string(user.Role)).Msg("profile loaded")
	return nil
}

// Logout clears the in-memory state and the persisted token. Safe to call repeatedly.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.store.DeleteToken(s.key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to remove persisted token")
	}
}

// Init resolves a restored token into a profile. Failures leave the session
// logged out and are not returned.
func (s *Session) Init(ctx context.Context) {
	if !s.HasToken() {
		return
	}

	if err := s.FetchUser(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("restored token rejected, session cleared")
		s.Logout()
	}
}

// Token returns the bearer token, or "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether a token is held, resolved or not
func (s *Session) HasToken() bool {
	return s.Token() != ""
}

// User returns a copy of the loaded profile, or nil
func (s *Session) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// HasUser reports whether a profile is loaded
func (s *Session) HasUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) IsAdmin() bool {
	return s.hasRole(models.RoleAdmin)
}

func (s *Session) IsOperator() bool {
	return s.hasRole(models.RoleOperator)
}

func (s *Session) hasRole(role models.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == role
}

// TokenExpiry reads the exp claim of the token without verifying its signature.
// ok is false when there is no token, it is not a JWT or carries no exp.
func (s *Session) TokenExpiry() (expiresAt time.Time, ok bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
