package domain

import "errors"

// Sentinel errors for cross-package error classification.
// Typed API errors match these through Is so the CLI can handle error
// categories uniformly without knowing every server error code.
//
//	if errors.Is(err, domain.ErrRateLimited) { ... }
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the credentials are valid but lack
	// permission over the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates the platform throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as
	// a domain already configured for another project.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the request was rejected as malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnverified indicates a domain has not passed ownership verification.
	ErrUnverified = errors.New("domain not verified")
)
