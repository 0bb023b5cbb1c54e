package oauthmodel

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MessageUnexpectedResponse is used when the provider's error body is not JSON.
const MessageUnexpectedResponse = "unexpected response from provider"

// ErrorDetail is one entry of a HubSpot validation error list.
type ErrorDetail struct {
	Message string         `json:"message"`
	In      string         `json:"in,omitempty"`
	Code    string         `json:"code,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ProviderError is a rejected token exchange or API call, carrying the
// provider's error payload. Its text is the provider's message.
type ProviderError struct {
	StatusCode    int           `json:"-"`
	Status        string        `json:"status"`
	Message       string        `json:"message"`
	CorrelationID string        `json:"correlationId,omitempty"`
	Category      string        `json:"category,omitempty"`
	Errors        []ErrorDetail `json:"errors,omitempty"`

	// Body is the raw response body.
	Body []byte `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FirstContext is the context of the first validation error, if any.
func (e *ProviderError) FirstContext() map[string]any {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Context
}

// ParseProviderError decodes an error body. A body that is not a JSON object
// yields MessageUnexpectedResponse.
func ParseProviderError(statusCode int, body []byte) *ProviderError {
	pe := &ProviderError{}
	if err := json.Unmarshal(body, pe); err != nil {
		pe = &ProviderError{Message: MessageUnexpectedResponse}
	}
	if pe.Status == "" {
		pe.Status = "error"
	}
	pe.StatusCode = statusCode
	pe.Body = body
	return pe
}
