package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	shared "nathanbeddoewebdev/deployctl/internal/domain"
)

// Re-export shared sentinel errors so deploy callers do not need to import
// the cross-domain package directly.
var (
	ErrNotFound     = shared.ErrNotFound
	ErrUnauthorized = shared.ErrUnauthorized
	ErrForbidden    = shared.ErrForbidden
	ErrRateLimited  = shared.ErrRateLimited
	ErrConflict     = shared.ErrConflict
	ErrInvalidInput = shared.ErrInvalidInput
	ErrUnverified   = shared.ErrUnverified
)

// DeployError is implemented by every error the CLI knows how to explain.
// Code is a stable identifier suitable for logs and the audit trail.
type DeployError interface {
	error
	Code() string
}

// IsKnown reports whether err wraps a DeployError.
func IsKnown(err error) bool {
	var de DeployError
	return errors.As(err, &de)
}

// CodeOf returns the local code of a DeployError, the server code of an
// APIError, or an empty string.
func CodeOf(err error) string {
	var de DeployError
	if errors.As(err, &de) {
		return de.Code()
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Code
	}
	return ""
}

// DeploymentsRateLimitedError is returned when too many deployments were
// created in the current window.
type DeploymentsRateLimitedError struct {
	Message string
}

func (e *DeploymentsRateLimitedError) Error() string { return orDefault(e.Message, "too many deployments") }
func (e *DeploymentsRateLimitedError) Code() string { return "DEPLOYMENTS_RATE_LIMITED" }
func (e *DeploymentsRateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// BuildsRateLimitedError is returned when too many builds were started in
// the current window.
type BuildsRateLimitedError struct {
	Message string
}

func (e *BuildsRateLimitedError) Error() string { return orDefault(e.Message, "too many builds") }
func (e *BuildsRateLimitedError) Code() string { return "BUILDS_RATE_LIMITED" }
func (e *BuildsRateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// DomainNotFoundError is returned when a domain used for the deployment
// does not exist, either as an alias or as the custom URL suffix.
type DomainNotFoundError struct {
	Domain string
}

func (e *DomainNotFoundError) Error() string {
	return fmt.Sprintf("the domain %s can't be found", e.Domain)
}
func (e *DomainNotFoundError) Code() string { return "DOMAIN_NOT_FOUND" }
func (e *DomainNotFoundError) Is(target error) bool { return target == ErrNotFound }

// DomainNotVerifiedError is returned when a domain used in the alias list
// is not verified yet.
type DomainNotVerifiedError struct {
	Domain string
}

func (e *DomainNotVerifiedError) Error() string {
	return fmt.Sprintf("the domain %s is not verified", e.Domain)
}
func (e *DomainNotVerifiedError) Code() string { return "DOMAIN_NOT_VERIFIED" }
func (e *DomainNotVerifiedError) Is(target error) bool { return target == ErrUnverified }

// DomainVerificationFailedError is returned when the domain used as the
// custom URL suffix is not verified.
type DomainVerificationFailedError struct {
	Domain string
}

func (e *DomainVerificationFailedError) Error() string {
	return fmt.Sprintf("the suffix domain %s is not verified and can't be used", e.Domain)
}
func (e *DomainVerificationFailedError) Code() string { return "DOMAIN_VERIFICATION_FAILED" }
func (e *DomainVerificationFailedError) Is(target error) bool { return target == ErrUnverified }

// DomainPermissionDeniedError is returned when the current scope has no
// access to a domain.
type DomainPermissionDeniedError struct {
	Domain  string
	Context string
}

func (e *DomainPermissionDeniedError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("you don't have access to the requested domain under %s", e.Context)
	}
	return fmt.Sprintf("you don't have access to the domain %s under %s", e.Domain, e.Context)
}
func (e *DomainPermissionDeniedError) Code() string { return "DOMAIN_PERMISSION_DENIED" }
func (e *DomainPermissionDeniedError) Is(target error) bool { return target == ErrForbidden }

// SchemaValidationFailedError is returned when the deployment request did
// not pass the server-side schema.
type SchemaValidationFailedError struct {
	Message  string
	Keyword  string
	DataPath string
	Params   map[string]any
}

func (e *SchemaValidationFailedError) Error() string {
	var b strings.Builder
	b.WriteString(orDefault(e.Message, "schema validation failed"))
	if e.DataPath != "" {
		fmt.Fprintf(&b, " at %s", e.DataPath)
	}
	if e.Keyword != "" {
		fmt.Fprintf(&b, " [%s", e.Keyword)
		if len(e.Params) > 0 {
			b.WriteString(": ")
			b.WriteString(formatParams(e.Params))
		}
		b.WriteString("]")
	}
	return b.String()
}
func (e *SchemaValidationFailedError) Code() string { return "SCHEMA_VALIDATION_FAILED" }
func (e *SchemaValidationFailedError) Is(target error) bool { return target == ErrInvalidInput }

// AliasDomainConfiguredError is returned when a requested alias is already
// configured for a different project.
type AliasDomainConfiguredError struct {
	Domain  string
	Project string
	Message string
}

func (e *AliasDomainConfiguredError) Error() string {
	if e.Domain != "" && e.Project != "" {
		return fmt.Sprintf("the alias %q is already configured for project %q", e.Domain, e.Project)
	}
	return orDefault(e.Message, "the chosen alias is already configured for another project")
}
func (e *AliasDomainConfiguredError) Code() string { return "ALIAS_DOMAIN_CONFIGURED" }
func (e *AliasDomainConfiguredError) Is(target error) bool { return target == ErrConflict }

// MissingBuildScriptError is returned when the project declares no build
// script the platform can run.
type MissingBuildScriptError struct {
	Message string
}

func (e *MissingBuildScriptError) Error() string {
	return orDefault(e.Message, "the project has no build script")
}
func (e *MissingBuildScriptError) Code() string { return "MISSING_BUILD_SCRIPT" }
func (e *MissingBuildScriptError) Is(target error) bool { return target == ErrInvalidInput }

// ConflictingFilePathError is returned when two files map to the same
// output path.
type ConflictingFilePathError struct {
	Message string
}

func (e *ConflictingFilePathError) Error() string {
	return orDefault(e.Message, "two files resolve to the same path")
}
func (e *ConflictingFilePathError) Code() string { return "CONFLICTING_FILE_PATH" }
func (e *ConflictingFilePathError) Is(target error) bool { return target == ErrConflict }

// ConflictingPathSegmentError is returned when a path is both a file and a
// directory in the build output.
type ConflictingPathSegmentError struct {
	Message string
}

func (e *ConflictingPathSegmentError) Error() string {
	return orDefault(e.Message, "a path segment is used as both a file and a directory")
}
func (e *ConflictingPathSegmentError) Code() string { return "CONFLICTING_PATH_SEGMENT" }
func (e *ConflictingPathSegmentError) Is(target error) bool { return target == ErrConflict }

// DeploymentNotFoundError is returned when the platform cannot find the
// deployment (or its project) under the current scope.
type DeploymentNotFoundError struct {
	Context string
}

func (e *DeploymentNotFoundError) Error() string {
	return fmt.Sprintf("can't find the deployment under the context %s", e.Context)
}
func (e *DeploymentNotFoundError) Code() string { return "DEPLOYMENT_NOT_FOUND" }
func (e *DeploymentNotFoundError) Is(target error) bool { return target == ErrNotFound }

// CertMissingError is returned when the platform still reports a missing
// certificate after one was provisioned.
type CertMissingError struct {
	Domain string
}

func (e *CertMissingError) Error() string {
	return fmt.Sprintf("a certificate for %s is still missing after provisioning", e.Domain)
}
func (e *CertMissingError) Code() string { return "CERT_MISSING" }
func (e *CertMissingError) Is(target error) bool { return target == ErrNotFound }

// --- Certificate errors ---

// TooManyRequestsError is returned when an API rate limit was hit.
type TooManyRequestsError struct {
	API        string
	RetryAfter int
}

func (e *TooManyRequestsError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("too many requests to the %s API, try again in %ds", e.API, e.RetryAfter)
	}
	return fmt.Sprintf("too many requests to the %s API", e.API)
}
func (e *TooManyRequestsError) Code() string { return "TOO_MANY_REQUESTS" }
func (e *TooManyRequestsError) Is(target error) bool { return target == ErrRateLimited }

// DomainConfigurationError is returned when the DNS configuration of a
// domain does not allow issuing a certificate.
type DomainConfigurationError struct {
	Domain    string
	Subdomain string
	External  bool
}

func (e *DomainConfigurationError) Error() string {
	name := e.Domain
	if e.Subdomain != "" {
		name = e.Subdomain + "." + e.Domain
	}
	if e.External {
		return fmt.Sprintf("the domain %s is managed by an external DNS provider and is not configured correctly", name)
	}
	return fmt.Sprintf("the domain %s is not configured correctly", name)
}
func (e *DomainConfigurationError) Code() string { return "DOMAIN_CONFIGURATION_ERROR" }
func (e *DomainConfigurationError) Is(target error) bool { return target == ErrUnverified }

// WildcardNotAllowedError is returned when a wildcard certificate was
// requested for a domain that does not support it.
type WildcardNotAllowedError struct {
	Domain string
}

func (e *WildcardNotAllowedError) Error() string {
	return fmt.Sprintf("wildcard certificates are not allowed for %s", e.Domain)
}
func (e *WildcardNotAllowedError) Code() string { return "WILDCARD_NOT_ALLOWED" }
func (e *WildcardNotAllowedError) Is(target error) bool { return target == ErrInvalidInput }

// DomainValidationRunningError is returned while a previous validation for
// the domain is still in progress.
type DomainValidationRunningError struct {
	Domain string
}

func (e *DomainValidationRunningError) Error() string {
	return fmt.Sprintf("a validation for %s is already running, wait until it finishes", e.Domain)
}
func (e *DomainValidationRunningError) Code() string { return "DOMAIN_VALIDATION_RUNNING" }
func (e *DomainValidationRunningError) Is(target error) bool { return target == ErrConflict }

// DomainsShouldShareRootError is returned when the common names of a
// certificate span more than one root domain.
type DomainsShouldShareRootError struct {
	Domain string
}

func (e *DomainsShouldShareRootError) Error() string {
	return fmt.Sprintf("all common names should share the root domain %s", e.Domain)
}
func (e *DomainsShouldShareRootError) Code() string { return "DOMAINS_SHOULD_SHARE_ROOT" }
func (e *DomainsShouldShareRootError) Is(target error) bool { return target == ErrInvalidInput }

// CantSolveChallengeError is returned when the ACME challenge for a domain
// could not be completed.
type CantSolveChallengeError struct {
	Domain string
	Type   string
}

func (e *CantSolveChallengeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("can't solve the challenge for %s", e.Domain)
	}
	return fmt.Sprintf("can't solve the %s challenge for %s", e.Type, e.Domain)
}
func (e *CantSolveChallengeError) Code() string { return "CANT_SOLVE_CHALLENGE" }
func (e *CantSolveChallengeError) Is(target error) bool { return target == ErrUnverified }

// InvalidWildcardDomainError is returned for malformed wildcard names.
type InvalidWildcardDomainError struct {
	Domain string
}

func (e *InvalidWildcardDomainError) Error() string {
	return fmt.Sprintf("invalid wildcard domain %s", e.Domain)
}
func (e *InvalidWildcardDomainError) Code() string { return "INVALID_WILDCARD_DOMAIN" }
func (e *InvalidWildcardDomainError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidDomainError is returned for names that are not valid domains.
type InvalidDomainError struct {
	Domain string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("the domain %q is not valid", e.Domain)
}
func (e *InvalidDomainError) Code() string { return "INVALID_DOMAIN" }
func (e *InvalidDomainError) Is(target error) bool { return target == ErrInvalidInput }

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatParams renders schema params in a stable order.
func formatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, ", ")
}
