package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/jrsteele09/hubspot-oauth-quickstart/hubspot"
	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/rs/zerolog/log"
)

// IndexPageData is the template model for the home page
type IndexPageData struct {
	AppName      string
	Authorized   bool
	InstallURL   string
	Contact      *hubspot.Contact
	ContactError string
	PageURL      string
	PageError    string
	ResolveError string
}

// ErrorPageData is the template model for the error page
type ErrorPageData struct {
	AppName string
	Message string
}

// IndexHandler renders the home page. Authorized sessions see the result of
// the two API calls, others get the install link.
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, _ := SessionIDFromContext(r.Context())
		data := IndexPageData{
			AppName:    s.config.GetAppName(),
			InstallURL: RouteInstall,
		}

		if s.flow.IsAuthorized(r.Context(), sessionID) {
			data.Authorized = true
			result, err := s.flow.GetContactAndPage(r.Context(), sessionID)
			if err != nil {
				log.Error().Err(err).Msg("failed to resolve access token")
				data.ResolveError = err.Error()
			} else {
				data.Contact = result.Contact
				if result.ContactErr != nil {
					data.ContactError = result.ContactErr.Error()
				}
				if result.Page != nil {
					data.PageURL = result.Page.URL
				}
				if result.PageErr != nil {
					data.PageError = result.PageErr.Error()
				}
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("failed to render index page")
		}
	}
}

// InstallHandler sends the browser to the provider's consent screen.
func (s *Server) InstallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL := s.flow.BeginInstall()
		log.Info().Msg("=== Initiating OAuth 2.0 flow with HubSpot ===")
		log.Info().Msg("===> Step 1: Redirecting user to your app's OAuth URL")
		log.Debug().Str("url", authURL).Msg("authorize URL")
		http.Redirect(w, r, authURL, http.StatusFound)
		log.Info().Msg("===> Step 2: User is being prompted for consent by HubSpot")
	}
}

// OAuthCallbackHandler redeems the authorization code the provider sent back.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("===> Step 3: Handling the request sent by the server")
		code := r.URL.Query().Get("code")
		if code == "" {
			redirectToError(w, r, apperrors.ErrMissingCode.Error())
			return
		}
		log.Info().Msg("       > Received an authorization token")

		sessionID, ok := SessionIDFromContext(r.Context())
		if !ok {
			redirectToError(w, r, apperrors.ErrMissingSessionID.Error())
			return
		}

		log.Info().Msg("===> Step 4: Exchanging authorization code for an access token and refresh token")
		if err := s.flow.HandleCallback(r.Context(), sessionID, code); err != nil {
			redirectToError(w, r, errorMessage(err))
			return
		}
		http.Redirect(w, r, RouteIndex, http.StatusFound)
	}
}

// ErrorPageHandler renders the msg query parameter.
func (s *Server) ErrorPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("error.html")
	if err != nil {
		panic("Failed to parse error template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := ErrorPageData{
			AppName: s.config.GetAppName(),
			Message: r.URL.Query().Get("msg"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("failed to render error page")
		}
	}
}

func redirectToError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, RouteError+"?msg="+url.QueryEscape(msg), http.StatusFound)
}

// errorMessage prefers the provider's own message over any wrapping context.
func errorMessage(err error) string {
	var providerErr *oauthmodel.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Error()
	}
	return err.Error()
}
