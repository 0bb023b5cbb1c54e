// Package oauthclient redeems authorization codes and refresh tokens at the
// provider's token endpoint and resolves a valid access token per session.
package oauthclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/rs/zerolog/log"
)

// TokenStore is the part of token.Store the exchanger and resolver need.
type TokenStore interface {
	StoreTokens(ctx context.Context, sessionID, refreshToken, accessToken string, expiresIn time.Duration) error
	GetCachedAccessToken(ctx context.Context, sessionID string) (string, bool)
	RefreshToken(ctx context.Context, sessionID string) (string, bool)
}

// TokenExchanger redeems a proof for tokens on behalf of a session.
type TokenExchanger interface {
	Exchange(ctx context.Context, sessionID string, proof oauthmodel.Proof) (string, error)
}

type Exchanger struct {
	tokenURL string
	store    TokenStore
	options
}

var _ TokenExchanger = (*Exchanger)(nil)

func NewExchanger(tokenURL string, store TokenStore, opts ...Option) *Exchanger {
	return &Exchanger{
		tokenURL: tokenURL,
		store:    store,
		options:  newOptions(opts),
	}
}

// Exchange posts proof to the token endpoint and, on success, stores the
// returned tokens for sessionID and returns the access token. A rejected or
// unreadable response is returned as *oauthmodel.ProviderError. Nothing is
// retried.
func (e *Exchanger) Exchange(ctx context.Context, sessionID string, proof oauthmodel.Proof) (string, error) {
	grantType := string(proof.GrantType)
	log.Info().Str("grant_type", grantType).Msgf("Exchanging %s for an access token", grantType)

	accessToken, err := e.exchange(ctx, sessionID, proof)
	if err != nil {
		log.Error().Err(err).Str("grant_type", grantType).Msgf("Error exchanging %s for access token", grantType)
		e.metrics.ObserveExchange(grantType, metrics.OutcomeFailure)
		return "", err
	}

	log.Info().Str("grant_type", grantType).Msg("Received an access token and refresh token")
	e.metrics.ObserveExchange(grantType, metrics.OutcomeSuccess)
	return accessToken, nil
}

func (e *Exchanger) exchange(ctx context.Context, sessionID string, proof oauthmodel.Proof) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(proof.Values().Encode()))
	if err != nil {
		return "", apperrors.Wrapf(err, "[oauthclient Exchange] build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrapf(err, "[oauthclient Exchange] POST %s", e.tokenURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrapf(err, "[oauthclient Exchange] read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", oauthmodel.ParseProviderError(resp.StatusCode, body)
	}

	var tokens oauthmodel.TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return "", malformedResponse(resp.StatusCode, body)
	}

	// A refresh response may omit the refresh token, in which case the one
	// just redeemed stays valid.
	refreshToken := tokens.RefreshToken
	if refreshToken == "" && proof.GrantType == oauthmodel.GrantTypeRefreshToken {
		refreshToken = proof.RefreshToken
	}
	if tokens.AccessToken == "" || refreshToken == "" {
		return "", malformedResponse(resp.StatusCode, body)
	}

	if err := e.store.StoreTokens(ctx, sessionID, refreshToken, tokens.AccessToken, tokens.Lifetime()); err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

func malformedResponse(statusCode int, body []byte) *oauthmodel.ProviderError {
	pe := oauthmodel.ParseProviderError(statusCode, body)
	if pe.Message == "" {
		pe.Message = oauthmodel.MessageUnexpectedResponse
	}
	return pe
}
