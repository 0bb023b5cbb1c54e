// Package hubspot calls the HubSpot APIs the quickstart demonstrates: reading
// one contact and creating a CMS site page, both with a bearer access token.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
	"github.com/jrsteele09/hubspot-oauth-quickstart/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	ContactsPath  = "/contacts/v1/lists/all/contacts/all"
	SitePagesPath = "/cms/v3/pages/site-pages"

	operationGetContact = "get_contact"
	operationCreatePage = "create_page"
)

type Property struct {
	Value string `json:"value"`
}

type Contact struct {
	VID        int64               `json:"vid"`
	Properties map[string]Property `json:"properties"`
}

func (c Contact) FirstName() string {
	return c.Properties["firstname"].Value
}

func (c Contact) LastName() string {
	return c.Properties["lastname"].Value
}

type contactList struct {
	Contacts  []Contact `json:"contacts"`
	HasMore   bool      `json:"has-more"`
	VIDOffset int64     `json:"vid-offset"`
}

// Page is the part of the created site page the quickstart displays.
type Page struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
	URL   string `json:"url"`
}

type Client struct {
	baseURL    string
	payload    []byte
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type Option func(*Client)

// WithHTTPClient sets the base client; the bearer transport wraps its transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// New creates a client for the API at baseURL. payload is the site page
// document CreatePage sends; nil selects the embedded default.
func New(baseURL string, payload []byte, opts ...Option) *Client {
	if payload == nil {
		payload = DefaultPagePayload()
	}
	c := &Client{baseURL: baseURL, payload: payload}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetContact reads the first contact of the "all contacts" listing. A
// rejected call returns *oauthmodel.ProviderError.
func (c *Client) GetContact(ctx context.Context, accessToken string) (*Contact, error) {
	log.Info().Msg("Retrieving a contact from HubSpot using the access token")

	var list contactList
	if err := c.do(ctx, accessToken, operationGetContact, http.MethodGet, ContactsPath+"?count=1", nil, &list); err != nil {
		log.Error().Err(err).Msg("Unable to retrieve contact")
		return nil, err
	}
	if len(list.Contacts) == 0 {
		return nil, apperrors.ErrNoContacts
	}
	return &list.Contacts[0], nil
}

// CreatePage publishes the site page document. A rejected call returns
// *oauthmodel.ProviderError.
func (c *Client) CreatePage(ctx context.Context, accessToken string) (*Page, error) {
	var page Page
	err := c.do(ctx, accessToken, operationCreatePage, http.MethodPost, SitePagesPath, c.payload, &page)
	if err != nil {
		event := log.Error().Err(err)
		var pe *oauthmodel.ProviderError
		if apperrors.As(err, &pe) && pe.FirstContext() != nil {
			event = event.Interface("error_context", pe.FirstContext())
		}
		event.Msg("Unable to create page")
		return nil, err
	}
	return &page, nil
}

func (c *Client) authorizedClient(ctx context.Context, accessToken string) *http.Client {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

func (c *Client) do(ctx context.Context, accessToken, operation, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("[hubspot %s] build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.authorizedClient(ctx, accessToken).Do(req)
	if err != nil {
		c.metrics.ObserveAPICall(operation, 0)
		return fmt.Errorf("[hubspot %s] %s %s: %w", operation, method, path, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveAPICall(operation, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[hubspot %s] read response: %w", operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return oauthmodel.ParseProviderError(resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		pe := oauthmodel.ParseProviderError(resp.StatusCode, respBody)
		pe.Message = oauthmodel.MessageUnexpectedResponse
		return pe
	}
	return nil
}
