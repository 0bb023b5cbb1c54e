// Package quickstart drives the install flow: it builds the authorize URL,
// redeems the callback code and uses the resolved access token for the two
// demo API calls.
package quickstart

import (
	"context"

	"github.com/jrsteele09/hubspot-oauth-quickstart/hubspot"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/config"
	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthclient"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// API is the set of provider calls made once a session is authorized.
type API interface {
	GetContact(ctx context.Context, accessToken string) (*hubspot.Contact, error)
	CreatePage(ctx context.Context, accessToken string) (*hubspot.Page, error)
}

// Result holds both API outcomes. A failed call leaves its value nil and sets
// the matching error so the rest of the page can still render.
type Result struct {
	Contact    *hubspot.Contact
	ContactErr error
	Page       *hubspot.Page
	PageErr    error
}

type Service struct {
	oauthConfig *oauth2.Config
	credentials oauthmodel.ClientCredentials
	store       *token.Store
	exchanger   oauthclient.TokenExchanger
	resolver    *oauthclient.Resolver
	api         API
}

func New(cfg config.HubSpotConfig, store *token.Store, exchanger oauthclient.TokenExchanger, api API, m *metrics.Metrics) *Service {
	credentials := oauthmodel.ClientCredentials{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		RedirectURI:  cfg.GetRedirectURI(),
	}
	return &Service{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			RedirectURL:  cfg.GetRedirectURI(),
			Scopes:       cfg.GetScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.GetAuthorizeURL(),
				TokenURL:  cfg.GetTokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		credentials: credentials,
		store:       store,
		exchanger:   exchanger,
		resolver:    oauthclient.NewResolver(store, exchanger, credentials, oauthclient.WithMetrics(m)),
		api:         api,
	}
}

// BeginInstall returns the provider URL users visit to grant consent.
func (s *Service) BeginInstall() string {
	return s.oauthConfig.AuthCodeURL("")
}

// HandleCallback redeems the authorization code for the session's first
// token pair. A provider rejection is returned as *oauthmodel.ProviderError
// and leaves no tokens stored.
func (s *Service) HandleCallback(ctx context.Context, sessionID, code string) error {
	if code == "" {
		return apperrors.ErrMissingCode
	}
	log.Info().Msg("Exchanging authorization code for an access token and refresh token")
	if _, err := s.exchanger.Exchange(ctx, sessionID, s.credentials.AuthorizationCodeProof(code)); err != nil {
		return err
	}
	return nil
}

// IsAuthorized reports whether the session holds a refresh token.
func (s *Service) IsAuthorized(ctx context.Context, sessionID string) bool {
	return s.store.HasRefreshToken(ctx, sessionID)
}

// GetContactAndPage resolves one access token and uses it for both API calls.
// Only a failure to resolve the token is returned as an error; API failures
// are reported inside the Result.
func (s *Service) GetContactAndPage(ctx context.Context, sessionID string) (*Result, error) {
	accessToken, err := s.resolver.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	result.Contact, result.ContactErr = s.api.GetContact(ctx, accessToken)
	result.Page, result.PageErr = s.api.CreatePage(ctx, accessToken)
	return result, nil
}
