package token

import (
	"context"
	"time"
)

// Tokens is the pair returned by one successful exchange with the token endpoint.
type Tokens struct {
	RefreshToken string
	AccessToken  string
}

// Repo is the storage behind a Store. Implementations must apply Upsert as a
// single mutation per session so a reader never sees an access token next to
// a refresh token from a different exchange.
type Repo interface {
	// Upsert replaces the session's refresh token and access token. The access
	// token expires after accessTTL; a non-positive TTL stores no access token.
	Upsert(ctx context.Context, sessionID string, tokens Tokens, accessTTL time.Duration) error
	// RefreshToken returns errors.ErrNotFound when the session has none.
	RefreshToken(ctx context.Context, sessionID string) (string, error)
	// AccessToken returns errors.ErrNotFound when the session has no access
	// token or it has expired.
	AccessToken(ctx context.Context, sessionID string) (string, error)
}
