package domain

import (
	"errors"
	"fmt"
)

// APIError is an error reported by the platform API. The fields mirror the
// "error" object of the response body; which ones are set depends on Code.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int `json:"-"`

	Code    string `json:"code"`
	Message string `json:"message"`

	// Value carries the subject of the error for some codes, usually a
	// domain or the deployment URL.
	Value string `json:"value,omitempty"`

	Domain    string `json:"domain,omitempty"`
	Subdomain string `json:"subdomain,omitempty"`
	External  bool   `json:"external,omitempty"`
	Project   string `json:"project,omitempty"`

	// Schema validation details (code "bad_request").
	Keyword  string         `json:"keyword,omitempty"`
	DataPath string         `json:"dataPath,omitempty"`
	Params   map[string]any `json:"params,omitempty"`

	// RetryAfter is the number of seconds until the limit resets.
	RetryAfter int `json:"retryAfter,omitempty"`

	// ChallengeType is the ACME challenge that could not be solved.
	ChallengeType string `json:"type,omitempty"`

	// Missing lists file digests the platform has not seen yet
	// (code "missing_files").
	Missing []string `json:"missing,omitempty"`
}

// Error returns the server message, falling back to the code.
func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
}

// AsAPIError reports whether err wraps an *APIError and returns it.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err wraps an *APIError with the given code.
func HasCode(err error, code string) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Code == code
}

// StatusCode returns the HTTP status of the response that carried the error.
func (e *APIError) StatusCode() int { return e.Status }
