package oauthmodel

import "time"

// TokenResponse is the token endpoint's success body.
type TokenResponse struct {
	// AccessToken authorizes API calls.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is long lived and used to obtain new access tokens.
	RefreshToken string `json:"refresh_token"`

	// ExpiresIn is the access token lifetime in seconds. HubSpot sends a JSON
	// number, so fractional values are tolerated.
	ExpiresIn float64 `json:"expires_in"`

	// TokenType is "bearer".
	TokenType string `json:"token_type,omitempty"`
}

// Lifetime is ExpiresIn as a duration.
func (r TokenResponse) Lifetime() time.Duration {
	return time.Duration(r.ExpiresIn * float64(time.Second))
}
