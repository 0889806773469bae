package output

import (
	"errors"
	"fmt"
	"io"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
)

// Error writes err to w, followed by a hint when one is known.
func Error(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", ErrorText.Render("Error:"), err)
	if h := Hint(err); h != "" {
		fmt.Fprintf(w, "%s\n", MutedText.Render(h))
	}
}

// Hint returns a suggestion for resolving err, or "".
func Hint(err error) string {
	var (
		notVerified   *domain.DomainNotVerifiedError
		verifyFailed  *domain.DomainVerificationFailedError
		denied        *domain.DomainPermissionDeniedError
		notFound      *domain.DomainNotFoundError
		configured    *domain.AliasDomainConfiguredError
		config        *domain.DomainConfigurationError
		certMissing   *domain.CertMissingError
		tooMany       *domain.TooManyRequestsError
		deployLimited *domain.DeploymentsRateLimitedError
		buildsLimited *domain.BuildsRateLimitedError
		deployMissing *domain.DeploymentNotFoundError
		buildScript   *domain.MissingBuildScriptError
		challenge     *domain.CantSolveChallengeError
	)

	switch {
	case errors.As(err, &notVerified):
		return fmt.Sprintf("Add the TXT record shown in the dashboard for %s and try again.", notVerified.Domain)
	case errors.As(err, &verifyFailed):
		return fmt.Sprintf("Point the nameservers of %s to the platform or add the verification TXT record.", verifyFailed.Domain)
	case errors.As(err, &denied):
		return fmt.Sprintf("Switch to the team that owns %s with --scope, or ask an owner to add you.", denied.Domain)
	case errors.As(err, &notFound):
		return fmt.Sprintf("Add %s to your account before deploying to it.", notFound.Domain)
	case errors.As(err, &configured):
		if configured.Project != "" {
			return fmt.Sprintf("Remove %s from project %s first.", configured.Domain, configured.Project)
		}
		return fmt.Sprintf("Remove %s from the project it is assigned to first.", configured.Domain)
	case errors.As(err, &config):
		if config.External {
			return fmt.Sprintf("Create a CNAME for %s pointing to the platform at your DNS provider.", config.Domain)
		}
		return fmt.Sprintf("Check the DNS records of %s.", config.Domain)
	case errors.As(err, &certMissing):
		return fmt.Sprintf("Issue one manually with: deployctl certs issue %s *.%s", certMissing.Domain, certMissing.Domain)
	case errors.As(err, &tooMany):
		if tooMany.RetryAfter > 0 {
			return fmt.Sprintf("Try again in %d seconds.", tooMany.RetryAfter)
		}
		return "Try again later."
	case errors.As(err, &deployLimited), errors.As(err, &buildsLimited):
		return "Wait for the limit to reset or upgrade the plan."
	case errors.As(err, &deployMissing):
		return "Check that --scope points at the team that owns the deployment."
	case errors.As(err, &buildScript):
		return `Add a "build" script to package.json or deploy the output directory instead.`
	case errors.As(err, &challenge):
		return "Make sure the domain resolves to the platform before requesting a certificate."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Run: deployctl auth login"
	}
	return ""
}
