package quickstart

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/hubspot-oauth-quickstart/hubspot"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/config"
	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthclient"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token/redisrepo"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token/sqliterepo"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// OpenTokenRepo opens the backend named by TOKEN_STORE. The returned close
// function releases it and is never nil.
func OpenTokenRepo(ctx context.Context, cfg config.StoreConfig) (token.Repo, func() error, error) {
	noop := func() error { return nil }

	switch cfg.GetTokenStore() {
	case config.StoreMemory, "":
		return token.NewInMemoryRepo(), noop, nil
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, apperrors.Wrapf(err, "[quickstart OpenTokenRepo] redis %s", cfg.GetRedisAddr())
		}
		return redisrepo.New(rdb, ""), rdb.Close, nil
	case config.StoreSQLite:
		repo, err := sqliterepo.Open(cfg.GetSQLitePath())
		if err != nil {
			return nil, noop, apperrors.Wrapf(err, "[quickstart OpenTokenRepo] sqlite %s", cfg.GetSQLitePath())
		}
		return repo, repo.Close, nil
	default:
		return nil, noop, apperrors.Wrapf(apperrors.ErrUnknownTokenStore, "%q", cfg.GetTokenStore())
	}
}

// NewFromConfig wires the token store, exchanger and HubSpot client from cfg.
func NewFromConfig(ctx context.Context, cfg config.Config, repo token.Repo, m *metrics.Metrics) (*Service, error) {
	payload, err := hubspot.LoadPagePayload(ctx, cfg.GetPagePayloadURL())
	if err != nil {
		return nil, fmt.Errorf("[quickstart NewFromConfig] %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.GetHTTPTimeout()}
	store := token.NewStore(repo)
	exchanger := oauthclient.NewExchanger(cfg.GetTokenURL(), store,
		oauthclient.WithHTTPClient(httpClient),
		oauthclient.WithMetrics(m))
	api := hubspot.New(cfg.GetAPIBaseURL(), payload,
		hubspot.WithHTTPClient(httpClient),
		hubspot.WithMetrics(m))

	log.Info().
		Str("token_store", cfg.GetTokenStore()).
		Strs("scopes", cfg.GetScopes()).
		Str("redirect_uri", cfg.GetRedirectURI()).
		Msg("Quickstart configured")

	return New(cfg, store, exchanger, api, m), nil
}
