// Package sqliterepo persists session tokens in a single SQLite table so an
// install survives a process restart.
package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_tokens (
	session_id        TEXT PRIMARY KEY,
	refresh_token     TEXT NOT NULL,
	access_token      TEXT NOT NULL DEFAULT '',
	access_expires_at INTEGER NOT NULL DEFAULT 0,
	updated_at        INTEGER NOT NULL
);
`

const upsertQuery = `
INSERT INTO session_tokens (session_id, refresh_token, access_token, access_expires_at, updated_at)
VALUES (?1, ?2, ?3, ?4, ?5)
ON CONFLICT(session_id) DO UPDATE SET
	refresh_token = excluded.refresh_token,
	access_token = excluded.access_token,
	access_expires_at = excluded.access_expires_at,
	updated_at = excluded.updated_at;
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

type Repo struct {
	db      *sql.DB
	nowFunc func() time.Time
}

var _ token.Repo = (*Repo)(nil)

type Option func(*Repo)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) {
		r.nowFunc = now
	}
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string, opts ...Option) (*Repo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	r := &Repo{db: db, nowFunc: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Repo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Upsert is a single INSERT .. ON CONFLICT statement, so both tokens change together.
func (r *Repo) Upsert(ctx context.Context, sessionID string, tokens token.Tokens, accessTTL time.Duration) error {
	if sessionID == "" {
		return apperrors.ErrMissingSessionID
	}

	now := r.nowFunc()
	accessToken, expiresAt := "", int64(0)
	if accessTTL > 0 {
		accessToken = tokens.AccessToken
		expiresAt = toMillis(now.Add(accessTTL))
	}

	if _, err := r.db.ExecContext(ctx, upsertQuery, sessionID, tokens.RefreshToken, accessToken, expiresAt, toMillis(now)); err != nil {
		return apperrors.Wrapf(err, "[sqliterepo Upsert] session %s", sessionID)
	}
	return nil
}

func (r *Repo) RefreshToken(ctx context.Context, sessionID string) (string, error) {
	var refreshToken string
	err := r.db.QueryRowContext(ctx,
		`SELECT refresh_token FROM session_tokens WHERE session_id = ?1`, sessionID,
	).Scan(&refreshToken)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && refreshToken == "") {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "[sqliterepo RefreshToken] session %s", sessionID)
	}
	return refreshToken, nil
}

// AccessToken clears an expired access token when it is read.
func (r *Repo) AccessToken(ctx context.Context, sessionID string) (string, error) {
	var accessToken string
	var expiresAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT access_token, access_expires_at FROM session_tokens WHERE session_id = ?1`, sessionID,
	).Scan(&accessToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "[sqliterepo AccessToken] session %s", sessionID)
	}
	if accessToken == "" {
		return "", apperrors.ErrNotFound
	}

	if toMillis(r.nowFunc()) >= expiresAt {
		// Guarded by expires_at so a concurrent Upsert is not wiped out.
		if _, err := r.db.ExecContext(ctx,
			`UPDATE session_tokens SET access_token = '', access_expires_at = 0 WHERE session_id = ?1 AND access_expires_at = ?2`,
			sessionID, expiresAt,
		); err != nil {
			return "", apperrors.Wrapf(err, "[sqliterepo AccessToken] evict session %s", sessionID)
		}
		return "", apperrors.ErrNotFound
	}
	return accessToken, nil
}
