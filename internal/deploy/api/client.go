// Package api is a small HTTP client for the deployment platform API.
//
// It talks JSON over plain net/http, the same way the DNS providers do,
// and turns every non-2xx response into a *domain.APIError so callers can
// map server error codes without parsing bodies themselves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/logging"
	"nathanbeddoewebdev/deployctl/internal/retry"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is used when no api-url is configured.
	DefaultBaseURL = "https://api.deployctl.dev"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "deployctl"
)

// Compile-time checks that Client satisfies the domain interfaces.
var (
	_ domain.Client       = (*Client)(nil)
	_ domain.DomainClient = (*Client)(nil)
	_ domain.CertClient   = (*Client)(nil)
)

// Client is an authenticated platform API client.
type Client struct {
	token     string
	baseURL   string
	teamID    string
	userAgent string
	client    *http.Client
	retry     retry.Config
	logger    logrus.FieldLogger
}

// Options configure a Client. Zero values select the defaults.
type Options struct {
	BaseURL   string
	TeamID    string
	UserAgent string
	Timeout   time.Duration
	Logger    logrus.FieldLogger
}

// NewClient creates a Client authenticating with the given token.
func NewClient(token string, opts Options) *Client {
	c := &Client{
		token:     token,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		teamID:    opts.TeamID,
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
		retry:     retry.DefaultConfig(),
		logger:    opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		c.client.Timeout = defaultTimeout
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	c.retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Debug("Retrying API request")
	}
	return c
}

// errorEnvelope is the body of every failed API response.
type errorEnvelope struct {
	Error *domain.APIError `json:"error"`
}

// request describes a single API call.
type request struct {
	method string
	path   string
	query  url.Values
	header http.Header

	// body is sent as-is; it is kept as bytes so retries can resend it.
	body []byte

	// retryIf overrides retry.IsRetryable for this request.
	retryIf retry.Predicate
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(method, path string, body any) (request, error) {
	req := request{method: method, path: path}
	if body == nil {
		return req, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return req, fmt.Errorf("api: failed to encode request: %w", err)
	}
	req.body = data
	req.header = http.Header{"Content-Type": []string{"application/json"}}
	return req, nil
}

// do sends the request, retrying transient failures, and decodes a
// successful JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	query := url.Values{}
	for k, v := range r.query {
		query[k] = v
	}
	if c.teamID != "" {
		query.Set("teamId", c.teamID)
	}
	target := c.baseURL + r.path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	requestID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"request_id": requestID,
	})

	retryIf := r.retryIf
	if retryIf == nil {
		retryIf = retry.IsRetryable
	}

	return retry.Do(ctx, c.retry, retryIf, func() error {
		var bodyReader io.Reader
		if r.body != nil {
			bodyReader = bytes.NewReader(r.body)
		}

		req, err := http.NewRequestWithContext(ctx, r.method, target, bodyReader)
		if err != nil {
			return fmt.Errorf("api: failed to build request: %w", err)
		}
		for k, v := range r.header {
			req.Header[k] = v
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-Id", requestID)

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("api: request failed: %w", err)
		}
		defer resp.Body.Close()

		log.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"duration": time.Since(start),
		}).Debug("API response")

		if resp.StatusCode >= 400 {
			return decodeError(resp)
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: failed to decode response: %w", err)
		}
		return nil
	})
}

// decodeError turns a failed response into an error. Responses without a
// usable error object still produce an *APIError carrying the status.
// Authentication failures additionally match domain.ErrUnauthorized.
func decodeError(resp *http.Response) error {
	apiErr := &domain.APIError{}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != nil {
		apiErr = env.Error
	}
	apiErr.Status = resp.StatusCode
	if apiErr.Code == "" {
		apiErr.Code = fmt.Sprintf("http_%d", resp.StatusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, apiErr)
	}
	return apiErr
}
