package oauthclient

import (
	"context"

	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Resolver returns a currently valid access token for a session, refreshing
// it through the exchanger when the cached one has expired.
//
// Concurrent resolves for the same session are not coalesced: each one that
// misses the cache performs its own refresh and the last write wins.
type Resolver struct {
	store       TokenStore
	exchanger   TokenExchanger
	credentials oauthmodel.ClientCredentials
	options
}

func NewResolver(store TokenStore, exchanger TokenExchanger, credentials oauthmodel.ClientCredentials, opts ...Option) *Resolver {
	return &Resolver{
		store:       store,
		exchanger:   exchanger,
		credentials: credentials,
		options:     newOptions(opts),
	}
}

// Resolve serves the cached access token without any network call. On a
// miss it redeems the stored refresh token once. Callers are expected to have
// checked that the session has a refresh token; if it has none, the empty
// refresh token is sent anyway and the provider's rejection is returned.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (string, error) {
	if accessToken, ok := r.store.GetCachedAccessToken(ctx, sessionID); ok {
		r.metrics.ObserveCache(true)
		return accessToken, nil
	}
	r.metrics.ObserveCache(false)

	log.Info().Str("session_id", sessionID).Msg("Refreshing expired access token")
	refreshToken, _ := r.store.RefreshToken(ctx, sessionID)
	return r.exchanger.Exchange(ctx, sessionID, r.credentials.RefreshTokenProof(refreshToken))
}

// TokenSource adapts the resolver for golang.org/x/oauth2 clients. Every
// Token call resolves again, so an expired cache entry is refreshed.
func (r *Resolver) TokenSource(ctx context.Context, sessionID string) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, resolver: r, sessionID: sessionID}
}

type sessionTokenSource struct {
	ctx       context.Context
	resolver  *Resolver
	sessionID string
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.resolver.Resolve(s.ctx, s.sessionID)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}
