package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	// sessionCookieName is the cookie carrying the signed session id
	sessionCookieName = "quickstart_session"
	sessionIssuer     = "hubspot-oauth-quickstart"
	sessionLifetime   = 30 * 24 * time.Hour
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySessionID stores the caller's session id
const ContextKeySessionID ContextKey = "session_id"

// SessionManager issues and verifies the HS256 session cookie.
type SessionManager struct {
	secret []byte
}

// NewSessionManager signs with secret, or with random bytes when secret is
// empty. A random secret means sessions do not survive a restart.
func NewSessionManager(secret string) (*SessionManager, error) {
	if secret != "" {
		return &SessionManager{secret: []byte(secret)}, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	log.Warn().Msg("SESSION_SECRET not set, using a random session secret")
	return &SessionManager{secret: b}, nil
}

// Issue returns a signed token whose subject is sessionID.
func (m *SessionManager) Issue(sessionID string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   sessionID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(sessionLifetime)),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Verify returns the session id carried by a signed token.
func (m *SessionManager) Verify(signed string) (string, error) {
	claims := &jwtlib.RegisteredClaims{}
	_, err := jwtlib.ParseWithClaims(signed, claims, func(t *jwtlib.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(sessionIssuer),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session: %w", err)
	}
	if claims.Subject == "" {
		return "", apperrors.ErrMissingSessionID
	}
	return claims.Subject, nil
}

// SessionMiddleware puts the caller's session id in the request context,
// minting a new session when the cookie is missing or fails verification.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if id, err := s.sessions.Verify(cookie.Value); err == nil {
				sessionID = id
			} else {
				log.Debug().Err(err).Msg("discarding session cookie")
			}
		}

		if sessionID == "" {
			sessionID = uuid.New().String()
			signed, err := s.sessions.Issue(sessionID)
			if err != nil {
				log.Error().Err(err).Msg("failed to issue session")
				http.Error(w, "failed to create session", http.StatusInternalServerError)
				return
			}
			s.setSessionCookie(w, r, signed)
		}

		ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
		next(w, r.WithContext(ctx))
	}
}

// SessionIDFromContext returns the id stored by SessionMiddleware.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeySessionID).(string)
	return id, ok && id != ""
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Only set Secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionLifetime.Seconds()),
	})
}
