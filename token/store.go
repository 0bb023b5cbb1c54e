package token

import (
	"context"
	"math"
	"time"

	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/rs/zerolog/log"
)

// AccessTokenLifetimeFactor shortens the provider's expires_in so the cached
// access token is refreshed before the provider invalidates it.
const AccessTokenLifetimeFactor = 0.75

// AccessTokenTTL is expiresIn scaled by AccessTokenLifetimeFactor, rounded to
// the nearest whole second.
func AccessTokenTTL(expiresIn time.Duration) time.Duration {
	seconds := math.Round(expiresIn.Seconds() * AccessTokenLifetimeFactor)
	return time.Duration(seconds) * time.Second
}

// Store maps session identifiers to a refresh token and a time limited access
// token cache entry.
type Store struct {
	repo Repo
}

func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

// StoreTokens overwrites the session's refresh token and caches the access
// token for AccessTokenTTL(expiresIn).
func (s *Store) StoreTokens(ctx context.Context, sessionID, refreshToken, accessToken string, expiresIn time.Duration) error {
	tokens := Tokens{RefreshToken: refreshToken, AccessToken: accessToken}
	if err := s.repo.Upsert(ctx, sessionID, tokens, AccessTokenTTL(expiresIn)); err != nil {
		return apperrors.Wrapf(err, "[token StoreTokens] session %s", sessionID)
	}
	return nil
}

// HasRefreshToken reports whether the session has completed the install flow.
func (s *Store) HasRefreshToken(ctx context.Context, sessionID string) bool {
	_, ok := s.RefreshToken(ctx, sessionID)
	return ok
}

func (s *Store) RefreshToken(ctx context.Context, sessionID string) (string, bool) {
	refreshToken, err := s.repo.RefreshToken(ctx, sessionID)
	if err != nil {
		logLookupError(err, sessionID, "refresh token")
		return "", false
	}
	return refreshToken, true
}

// GetCachedAccessToken returns the access token while it is unexpired.
func (s *Store) GetCachedAccessToken(ctx context.Context, sessionID string) (string, bool) {
	accessToken, err := s.repo.AccessToken(ctx, sessionID)
	if err != nil {
		logLookupError(err, sessionID, "access token")
		return "", false
	}
	return accessToken, true
}

// Storage failures read as absent tokens; only unexpected ones are worth a log line.
func logLookupError(err error, sessionID, what string) {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return
	}
	log.Warn().Err(err).Str("session_id", sessionID).Msgf("Unable to read %s", what)
}
