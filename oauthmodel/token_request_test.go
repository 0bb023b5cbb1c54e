package oauthmodel_test

import (
	"testing"

	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/stretchr/testify/assert"
)

var testCredentials = oauthmodel.ClientCredentials{
	ClientID:     "client-1",
	ClientSecret: "secret-1",
	RedirectURI:  "http://localhost:3000/oauth-callback",
}

func TestAuthorizationCodeProof_Values(t *testing.T) {
	v := testCredentials.AuthorizationCodeProof("code-1").Values()

	assert.Equal(t, "authorization_code", v.Get("grant_type"))
	assert.Equal(t, "client-1", v.Get("client_id"))
	assert.Equal(t, "secret-1", v.Get("client_secret"))
	assert.Equal(t, "http://localhost:3000/oauth-callback", v.Get("redirect_uri"))
	assert.Equal(t, "code-1", v.Get("code"))
	assert.False(t, v.Has("refresh_token"))
}

func TestRefreshTokenProof_Values(t *testing.T) {
	v := testCredentials.RefreshTokenProof("R1").Values()

	assert.Equal(t, "refresh_token", v.Get("grant_type"))
	assert.Equal(t, "R1", v.Get("refresh_token"))
	assert.Equal(t, "http://localhost:3000/oauth-callback", v.Get("redirect_uri"))
	assert.False(t, v.Has("code"))
}

func TestRefreshTokenProof_EmptyTokenIsStillSent(t *testing.T) {
	v := testCredentials.RefreshTokenProof("").Values()
	assert.True(t, v.Has("refresh_token"))
	assert.Equal(t, "", v.Get("refresh_token"))
}

func TestParseProviderError(t *testing.T) {
	pe := oauthmodel.ParseProviderError(400, []byte(`{"status":"BAD_AUTH_CODE","message":"bad code","correlationId":"abc"}`))
	assert.Equal(t, "bad code", pe.Error())
	assert.Equal(t, 400, pe.StatusCode)
	assert.Equal(t, "BAD_AUTH_CODE", pe.Status)
	assert.Equal(t, "abc", pe.CorrelationID)

	pe = oauthmodel.ParseProviderError(502, []byte("<html>bad gateway</html>"))
	assert.Equal(t, oauthmodel.MessageUnexpectedResponse, pe.Error())
	assert.Equal(t, "error", pe.Status)
	assert.Equal(t, []byte("<html>bad gateway</html>"), pe.Body)

	pe = oauthmodel.ParseProviderError(500, []byte(`{}`))
	assert.Equal(t, "provider returned 500 Internal Server Error", pe.Error())
}

func TestProviderError_FirstContext(t *testing.T) {
	pe := oauthmodel.ParseProviderError(400, []byte(`{"message":"invalid","errors":[{"message":"bad template","context":{"templatePath":["x"]}}]}`))
	assert.Equal(t, map[string]any{"templatePath": []any{"x"}}, pe.FirstContext())

	assert.Nil(t, (&oauthmodel.ProviderError{}).FirstContext())
}
