// Package certs provisions TLS certificates for deployments and translates
// certificate API failures into typed errors.
package certs

import (
	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
)

// MapError translates a certificate API failure into a typed error. It
// returns nil when err is not a recognised certificate error, leaving the
// caller to decide what to do with it.
func MapError(err error) error {
	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		return nil
	}

	switch apiErr.Code {
	case "too_many_requests":
		return &domain.TooManyRequestsError{API: "certificates", RetryAfter: apiErr.RetryAfter}
	case "configuration_error":
		return &domain.DomainConfigurationError{
			Domain:    apiErr.Domain,
			Subdomain: apiErr.Subdomain,
			External:  apiErr.External,
		}
	case "wildcard_not_allowed":
		return &domain.WildcardNotAllowedError{Domain: apiErr.Domain}
	case "validation_running":
		return &domain.DomainValidationRunningError{Domain: apiErr.Domain}
	case "should_share_root_domain":
		return &domain.DomainsShouldShareRootError{Domain: apiErr.Domain}
	case "cant_solve_challenge":
		return &domain.CantSolveChallengeError{Domain: apiErr.Domain, Type: apiErr.ChallengeType}
	case "invalid_wildcard_domain":
		return &domain.InvalidWildcardDomainError{Domain: apiErr.Domain}
	case "invalid_domain":
		return &domain.InvalidDomainError{Domain: apiErr.Domain}
	}

	return nil
}
