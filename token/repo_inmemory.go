package token

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
)

type sessionTokens struct {
	refreshToken    string
	accessToken     string
	accessExpiresAt time.Time
}

// InMemoryRepo keeps token state in process memory. Nothing survives a restart.
type InMemoryRepo struct {
	mu       sync.Mutex
	sessions map[string]sessionTokens
	nowFunc  func() time.Time
}

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryOption func(*InMemoryRepo)

// WithClock replaces time.Now, mainly so tests can move time forward.
func WithClock(now func() time.Time) InMemoryOption {
	return func(r *InMemoryRepo) {
		r.nowFunc = now
	}
}

func NewInMemoryRepo(opts ...InMemoryOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]sessionTokens),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *InMemoryRepo) Upsert(_ context.Context, sessionID string, tokens Tokens, accessTTL time.Duration) error {
	if sessionID == "" {
		return apperrors.ErrMissingSessionID
	}

	st := sessionTokens{refreshToken: tokens.RefreshToken}
	if accessTTL > 0 {
		st.accessToken = tokens.AccessToken
		st.accessExpiresAt = r.nowFunc().Add(accessTTL)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = st
	return nil
}

func (r *InMemoryRepo) RefreshToken(_ context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[sessionID]
	if !ok || st.refreshToken == "" {
		return "", apperrors.ErrNotFound
	}
	return st.refreshToken, nil
}

// AccessToken evicts an expired access token on read.
func (r *InMemoryRepo) AccessToken(_ context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.sessions[sessionID]
	if !ok || st.accessToken == "" {
		return "", apperrors.ErrNotFound
	}
	if !r.nowFunc().Before(st.accessExpiresAt) {
		st.accessToken = ""
		st.accessExpiresAt = time.Time{}
		r.sessions[sessionID] = st
		return "", apperrors.ErrNotFound
	}
	return st.accessToken, nil
}
