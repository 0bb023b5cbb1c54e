// Package redisrepo stores session tokens in Redis. The refresh token key has
// no expiry; the access token key carries the cache TTL so Redis evicts it.
package redisrepo

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "quickstart"

type Repo struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ token.Repo = (*Repo)(nil)

// New uses rdb for storage. An empty prefix selects "quickstart".
func New(rdb redis.UniversalClient, prefix string) *Repo {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Repo{rdb: rdb, prefix: prefix}
}

func (r *Repo) refreshKey(sessionID string) string {
	return r.prefix + ":refresh:" + sessionID
}

func (r *Repo) accessKey(sessionID string) string {
	return r.prefix + ":access:" + sessionID
}

// Upsert writes both keys in one MULTI/EXEC transaction.
func (r *Repo) Upsert(ctx context.Context, sessionID string, tokens token.Tokens, accessTTL time.Duration) error {
	if sessionID == "" {
		return apperrors.ErrMissingSessionID
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.refreshKey(sessionID), tokens.RefreshToken, 0)
		if accessTTL > 0 {
			pipe.Set(ctx, r.accessKey(sessionID), tokens.AccessToken, accessTTL)
		} else {
			pipe.Del(ctx, r.accessKey(sessionID))
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrapf(err, "[redisrepo Upsert] session %s", sessionID)
	}
	return nil
}

func (r *Repo) RefreshToken(ctx context.Context, sessionID string) (string, error) {
	return r.get(ctx, r.refreshKey(sessionID))
}

func (r *Repo) AccessToken(ctx context.Context, sessionID string) (string, error) {
	return r.get(ctx, r.accessKey(sessionID))
}

func (r *Repo) get(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "[redisrepo get] %s", key)
	}
	if value == "" {
		return "", apperrors.ErrNotFound
	}
	return value, nil
}
