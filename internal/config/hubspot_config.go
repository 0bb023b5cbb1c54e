package config

import (
	"regexp"
	"strings"
)

type HubSpotConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetScopes() []string
	GetRedirectURI() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetAPIBaseURL() string
	GetPagePayloadURL() string
}

// RouteOAuthCallback is where HubSpot sends users after the consent page.
const RouteOAuthCallback = "/oauth-callback"

var defaultScopes = []string{
	"tickets",
	"e-commerce",
	"content",
	"oauth",
	"crm.objects.companies.read",
	"conversations.read",
	"crm.objects.deals.read",
	"crm.objects.contacts.read",
}

// scopeSeparator accepts "a b", "a,b", "a, b" and "a%20b".
var scopeSeparator = regexp.MustCompile(` |, ?|%20`)

func (v *Values) GetClientID() string {
	return v.ClientID
}

func (v *Values) GetClientSecret() string {
	return v.ClientSecret
}

func (v *Values) GetScopes() []string {
	if strings.TrimSpace(v.Scope) == "" {
		return append([]string(nil), defaultScopes...)
	}
	return SplitScopes(v.Scope)
}

// SplitScopes splits a SCOPE value into individual scopes, dropping empty entries.
func SplitScopes(scope string) []string {
	parts := scopeSeparator.Split(scope, -1)
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			scopes = append(scopes, p)
		}
	}
	return scopes
}

func (v *Values) GetRedirectURI() string {
	if v.RedirectURI != "" {
		return v.RedirectURI
	}
	return v.GetBaseURL() + RouteOAuthCallback
}

func (v *Values) GetAuthorizeURL() string {
	return v.AuthorizeURL
}

func (v *Values) GetTokenURL() string {
	return v.TokenURL
}

func (v *Values) GetAPIBaseURL() string {
	return strings.TrimRight(v.APIBaseURL, "/")
}

// GetPagePayloadURL is an optional location of the site page document. Empty
// means the embedded default.
func (v *Values) GetPagePayloadURL() string {
	return v.PagePayloadURL
}
