package oauthmodel

import "net/url"

// GrantType names the credential being redeemed at the token endpoint.
type GrantType string

const (
	GrantTypeAuthorizationCode GrantType = "authorization_code"
	GrantTypeRefreshToken      GrantType = "refresh_token"
)

// ClientCredentials identify this app to the provider. They are sent with
// every exchange.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Proof is the form body sent to the token endpoint. It is built fresh for
// each exchange and never stored.
type Proof struct {
	// GrantType selects which of Code or RefreshToken is redeemed.
	// Required: Yes
	GrantType GrantType

	// ClientID identifies the app registered with the provider.
	// Required: Yes
	ClientID string

	// ClientSecret is the app secret.
	// Security: Never log or expose this value
	ClientSecret string

	// RedirectURI must match the redirect URI configured for the app.
	// Required: Yes (HubSpot also expects it on refresh)
	RedirectURI string

	// Code is the authorization code passed to the OAuth callback.
	// Required: Yes (only for authorization_code grant)
	Code string

	// RefreshToken is the session's stored refresh token.
	// Required: Yes (only for refresh_token grant)
	// Behavior: An empty value is still sent and left for the provider to reject
	RefreshToken string
}

// AuthorizationCodeProof redeems the code received on the OAuth callback.
func (c ClientCredentials) AuthorizationCodeProof(code string) Proof {
	return Proof{
		GrantType:    GrantTypeAuthorizationCode,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
		Code:         code,
	}
}

// RefreshTokenProof redeems a stored refresh token for a new access token.
func (c ClientCredentials) RefreshTokenProof(refreshToken string) Proof {
	return Proof{
		GrantType:    GrantTypeRefreshToken,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
		RefreshToken: refreshToken,
	}
}

// Values encodes the proof as a form body.
func (p Proof) Values() url.Values {
	v := url.Values{
		"grant_type":    {string(p.GrantType)},
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"redirect_uri":  {p.RedirectURI},
	}
	switch p.GrantType {
	case GrantTypeAuthorizationCode:
		v.Set("code", p.Code)
	case GrantTypeRefreshToken:
		v.Set("refresh_token", p.RefreshToken)
	}
	return v
}
