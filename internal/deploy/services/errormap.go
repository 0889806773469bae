package services

import "nathanbeddoewebdev/deployctl/internal/deploy/domain"

const codeCertMissing = "cert_missing"

// errorRule maps one server error code to a typed error. when, if set,
// must hold for the rule to apply; otherwise later rules are tried.
type errorRule struct {
	code  string
	when  func(e *domain.APIError) bool
	build func(e *domain.APIError, contextName string) error
}

// deployErrorRules is evaluated in order; the first matching rule wins.
var deployErrorRules = []errorRule{
	{
		code: "rate_limited",
		build: func(e *domain.APIError, _ string) error {
			return &domain.DeploymentsRateLimitedError{Message: e.Message}
		},
	},
	// The domain used as the URL suffix no longer exists.
	{
		code: "domain_missing",
		build: func(e *domain.APIError, _ string) error {
			return &domain.DomainNotFoundError{Domain: e.Value}
		},
	},
	{
		code: "domain_not_found",
		when: func(e *domain.APIError) bool { return e.Domain != "" },
		build: func(e *domain.APIError, _ string) error {
			return &domain.DomainNotFoundError{Domain: e.Domain}
		},
	},
	// A domain used in the alias list is not verified yet.
	{
		code: "domain_not_verified",
		when: func(e *domain.APIError) bool { return e.Domain != "" },
		build: func(e *domain.APIError, _ string) error {
			return &domain.DomainNotVerifiedError{Domain: e.Domain}
		},
	},
	// The suffix domain is not verified.
	{
		code: "domain_not_verified",
		when: func(e *domain.APIError) bool { return e.Value != "" },
		build: func(e *domain.APIError, _ string) error {
			return &domain.DomainVerificationFailedError{Domain: e.Value}
		},
	},
	{
		code: "builds_rate_limited",
		build: func(e *domain.APIError, _ string) error {
			return &domain.BuildsRateLimitedError{Message: e.Message}
		},
	},
	// No permission over the suffix domain.
	{
		code: "forbidden",
		build: func(e *domain.APIError, contextName string) error {
			return &domain.DomainPermissionDeniedError{Domain: e.Value, Context: contextName}
		},
	},
	{
		code: "bad_request",
		when: func(e *domain.APIError) bool { return e.Keyword != "" },
		build: func(e *domain.APIError, _ string) error {
			return &domain.SchemaValidationFailedError{
				Message:  e.Message,
				Keyword:  e.Keyword,
				DataPath: e.DataPath,
				Params:   e.Params,
			}
		},
	},
	{
		code: "domain_configured",
		build: func(e *domain.APIError, _ string) error {
			return &domain.AliasDomainConfiguredError{
				Domain:  orValue(e.Domain, e.Value),
				Project: e.Project,
				Message: e.Message,
			}
		},
	},
	{
		code: "missing_build_script",
		build: func(e *domain.APIError, _ string) error {
			return &domain.MissingBuildScriptError{Message: e.Message}
		},
	},
	{
		code: "conflicting_file_path",
		build: func(e *domain.APIError, _ string) error {
			return &domain.ConflictingFilePathError{Message: e.Message}
		},
	},
	{
		code: "conflicting_path_segment",
		build: func(e *domain.APIError, _ string) error {
			return &domain.ConflictingPathSegmentError{Message: e.Message}
		},
	},
	{
		code: "not_found",
		build: func(_ *domain.APIError, contextName string) error {
			return &domain.DeploymentNotFoundError{Context: contextName}
		},
	},
}

// mapDeployError returns the typed error for e, or nil if no rule applies.
func mapDeployError(e *domain.APIError, contextName string) error {
	for _, rule := range deployErrorRules {
		if rule.code != e.Code {
			continue
		}
		if rule.when != nil && !rule.when(e) {
			continue
		}
		return rule.build(e, contextName)
	}
	return nil
}
