package quickstart_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/hubspot-oauth-quickstart/hubspot"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/config"
	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/jrsteele09/hubspot-oauth-quickstart/quickstart"
	"github.com/jrsteele09/hubspot-oauth-quickstart/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "session-1"

// fakeHubSpot serves the token endpoint and both API endpoints.
type fakeHubSpot struct {
	mu            sync.Mutex
	tokenRequests []url.Values
	tokenStatus   int
	tokenBody     string
	contactStatus int
	contactBody   string
}

func newFakeHubSpot() *fakeHubSpot {
	return &fakeHubSpot{
		tokenStatus:   http.StatusOK,
		tokenBody:     `{"access_token":"A1","refresh_token":"R1","expires_in":3600}`,
		contactStatus: http.StatusOK,
		contactBody:   `{"contacts":[{"vid":1,"properties":{"firstname":{"value":"Ada"},"lastname":{"value":"Lovelace"}}}]}`,
	}
}

func (f *fakeHubSpot) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.tokenRequests = append(f.tokenRequests, r.PostForm)
		status, body := f.tokenStatus, f.tokenBody
		f.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("GET "+hubspot.ContactsPath, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status, body := f.contactStatus, f.contactBody
		f.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("POST "+hubspot.SitePagesPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"9","url":"https://example.hs-sites.com/new-page"}`)
	})
	return mux
}

func (f *fakeHubSpot) replyToken(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus, f.tokenBody = status, body
}

func (f *fakeHubSpot) replyContact(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contactStatus, f.contactBody = status, body
}

func (f *fakeHubSpot) TokenRequests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.tokenRequests...)
}

func testConfig(serverURL string) *config.Values {
	return &config.Values{
		Port:         "3000",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Scope:        "content oauth",
		AuthorizeURL: "https://app.hubspot.com/oauth/authorize",
		TokenURL:     serverURL + "/oauth/v1/token",
		APIBaseURL:   serverURL,
		TokenStore:   config.StoreMemory,
	}
}

func newTestService(t *testing.T) (*quickstart.Service, *fakeHubSpot) {
	t.Helper()

	provider := newFakeHubSpot()
	server := httptest.NewServer(provider.handler(t))
	t.Cleanup(server.Close)

	svc, err := quickstart.NewFromConfig(context.Background(), testConfig(server.URL), token.NewInMemoryRepo(), metrics.New())
	require.NoError(t, err)
	return svc, provider
}

func TestBeginInstall(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := url.Parse(svc.BeginInstall())
	require.NoError(t, err)
	assert.Equal(t, "app.hubspot.com", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "content oauth", q.Get("scope"))
	assert.Equal(t, "http://localhost:3000/oauth-callback", q.Get("redirect_uri"))
	assert.False(t, q.Has("state"))
	assert.False(t, q.Has("client_secret"))
}

func TestHandleCallback_Success(t *testing.T) {
	svc, provider := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.IsAuthorized(ctx, testSessionID))
	require.NoError(t, svc.HandleCallback(ctx, testSessionID, "code-1"))
	assert.True(t, svc.IsAuthorized(ctx, testSessionID))

	requests := provider.TokenRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, "authorization_code", requests[0].Get("grant_type"))
	assert.Equal(t, "code-1", requests[0].Get("code"))
}

func TestHandleCallback_BadCode(t *testing.T) {
	svc, provider := newTestService(t)
	provider.replyToken(http.StatusBadRequest, `{"message":"bad code"}`)
	ctx := context.Background()

	err := svc.HandleCallback(ctx, testSessionID, "stale")
	require.Error(t, err)
	assert.Equal(t, "bad code", err.Error())

	var pe *oauthmodel.ProviderError
	assert.ErrorAs(t, err, &pe)
	assert.False(t, svc.IsAuthorized(ctx, testSessionID))
}

func TestHandleCallback_MissingCode(t *testing.T) {
	svc, provider := newTestService(t)

	err := svc.HandleCallback(context.Background(), testSessionID, "")
	assert.ErrorIs(t, err, apperrors.ErrMissingCode)
	assert.Empty(t, provider.TokenRequests())
}

func TestGetContactAndPage(t *testing.T) {
	svc, provider := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.HandleCallback(ctx, testSessionID, "code-1"))

	result, err := svc.GetContactAndPage(ctx, testSessionID)
	require.NoError(t, err)
	require.NoError(t, result.ContactErr)
	require.NoError(t, result.PageErr)
	assert.Equal(t, "Ada", result.Contact.FirstName())
	assert.Equal(t, "https://example.hs-sites.com/new-page", result.Page.URL)

	// The cached token was used, no refresh.
	assert.Len(t, provider.TokenRequests(), 1)
}

func TestGetContactAndPage_APIErrorIsInline(t *testing.T) {
	svc, provider := newTestService(t)
	provider.replyContact(http.StatusForbidden, `{"status":"error","message":"This app hasn't been granted all required scopes"}`)
	ctx := context.Background()
	require.NoError(t, svc.HandleCallback(ctx, testSessionID, "code-1"))

	result, err := svc.GetContactAndPage(ctx, testSessionID)
	require.NoError(t, err)
	assert.Nil(t, result.Contact)
	assert.EqualError(t, result.ContactErr, "This app hasn't been granted all required scopes")
	require.NoError(t, result.PageErr)
	assert.NotEmpty(t, result.Page.URL)
}

func TestGetContactAndPage_ResolveFailure(t *testing.T) {
	svc, provider := newTestService(t)
	provider.replyToken(http.StatusBadRequest, `{"message":"missing or unknown refresh token"}`)

	_, err := svc.GetContactAndPage(context.Background(), "never-installed")
	assert.EqualError(t, err, "missing or unknown refresh token")
}

func TestNewFromConfig_BadPayloadLocation(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.PagePayloadURL = filepath.Join(t.TempDir(), "missing.json")

	_, err := quickstart.NewFromConfig(context.Background(), cfg, token.NewInMemoryRepo(), nil)
	assert.Error(t, err)
}

func TestOpenTokenRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, closeFn, err := quickstart.OpenTokenRepo(ctx, &config.Values{TokenStore: config.StoreMemory})
		require.NoError(t, err)
		assert.IsType(t, &token.InMemoryRepo{}, repo)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite", func(t *testing.T) {
		repo, closeFn, err := quickstart.OpenTokenRepo(ctx, &config.Values{
			TokenStore: config.StoreSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "tokens.db"),
		})
		require.NoError(t, err)
		defer closeFn()
		assert.NoError(t, token.NewStore(repo).StoreTokens(ctx, testSessionID, "R1", "A1", time.Hour))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		repo, closeFn, err := quickstart.OpenTokenRepo(ctx, &config.Values{
			TokenStore: config.StoreRedis,
			RedisAddr:  mr.Addr(),
		})
		require.NoError(t, err)
		defer closeFn()
		assert.NoError(t, token.NewStore(repo).StoreTokens(ctx, testSessionID, "R1", "A1", time.Hour))
		assert.True(t, mr.Exists("quickstart:refresh:"+testSessionID))
	})

	t.Run("unknown", func(t *testing.T) {
		_, closeFn, err := quickstart.OpenTokenRepo(ctx, &config.Values{TokenStore: "etcd"})
		assert.ErrorIs(t, err, apperrors.ErrUnknownTokenStore)
		assert.NotNil(t, closeFn)
	})
}
