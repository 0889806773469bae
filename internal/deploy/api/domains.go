package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
)

type domainEnvelope struct {
	Domain domain.Domain `json:"domain"`
}

type addDomainBody struct {
	Name string `json:"name"`
}

type createCertBody struct {
	Domains []string `json:"domains"`
}

// apiCert is the wire form of a certificate. Timestamps are epoch
// milliseconds.
type apiCert struct {
	UID       string   `json:"uid"`
	CNs       []string `json:"cns"`
	CreatedAt int64    `json:"createdAt"`
	ExpiresAt int64    `json:"expiresAt"`
}

func (c apiCert) toDomain() *domain.Cert {
	cert := &domain.Cert{UID: c.UID, CNs: c.CNs}
	if c.CreatedAt > 0 {
		cert.CreatedAt = time.UnixMilli(c.CreatedAt).UTC()
	}
	if c.ExpiresAt > 0 {
		cert.ExpiresAt = time.UnixMilli(c.ExpiresAt).UTC()
	}
	return cert
}

// GetDomain returns a domain registered under the current scope.
func (c *Client) GetDomain(ctx context.Context, name string) (*domain.Domain, error) {
	var out domainEnvelope
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v4/domains/" + url.PathEscape(name)}, &out); err != nil {
		return nil, err
	}
	return &out.Domain, nil
}

// AddDomain registers a domain under the current scope.
func (c *Client) AddDomain(ctx context.Context, name string) (*domain.Domain, error) {
	req, err := jsonRequest(http.MethodPost, "/v4/domains", addDomainBody{Name: name})
	if err != nil {
		return nil, err
	}
	var out domainEnvelope
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.Domain, nil
}

// VerifyDomain asks the platform to re-run ownership verification.
func (c *Client) VerifyDomain(ctx context.Context, name string) (*domain.Domain, error) {
	var out domainEnvelope
	req := request{method: http.MethodPost, path: "/v4/domains/" + url.PathEscape(name) + "/verify"}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.Domain, nil
}

// CreateCert issues a certificate covering the given common names.
func (c *Client) CreateCert(ctx context.Context, domains []string) (*domain.Cert, error) {
	req, err := jsonRequest(http.MethodPost, "/v3/certs", createCertBody{Domains: domains})
	if err != nil {
		return nil, err
	}
	var out apiCert
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}
