package certs

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/logging"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Progress reports a long-running step to the user. Step runs fn while
// showing title and returns fn's error.
type Progress interface {
	Step(title string, fn func() error) error
}

// noProgress runs steps without any output.
type noProgress struct{}

func (noProgress) Step(_ string, fn func() error) error { return fn() }

// API is the subset of the platform client the provisioner needs.
type API interface {
	domain.DomainClient
	domain.CertClient
}

// Provisioner sets up suffix domains and issues certificates for them.
type Provisioner struct {
	api      API
	progress Progress
	logger   logrus.FieldLogger
}

// NewProvisioner creates a Provisioner. progress and logger may be nil.
func NewProvisioner(api API, progress Progress, logger logrus.FieldLogger) *Provisioner {
	if progress == nil {
		progress = noProgress{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Provisioner{api: api, progress: progress, logger: logger}
}

// ForDeploy makes sure the root domain of deployURL is registered and
// verified under contextName, then issues a wildcard certificate for it.
func (p *Provisioner) ForDeploy(ctx context.Context, contextName, deployURL string) error {
	root, err := RootDomain(deployURL)
	if err != nil {
		return err
	}

	err = p.progress.Step(fmt.Sprintf("Setting custom suffix domain %s", root), func() error {
		return p.setupDomain(ctx, contextName, root)
	})
	if err != nil {
		return err
	}

	return p.progress.Step(fmt.Sprintf("Generating a wildcard certificate for %s", root), func() error {
		_, err := p.issue(ctx, contextName, []string{root, "*." + root})
		return err
	})
}

// Issue creates a certificate for the given common names.
func (p *Provisioner) Issue(ctx context.Context, contextName string, domains ...string) (*domain.Cert, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("at least one domain is required")
	}

	var cert *domain.Cert
	err := p.progress.Step(fmt.Sprintf("Issuing certificate for %s", strings.Join(domains, ", ")), func() error {
		var err error
		cert, err = p.issue(ctx, contextName, domains)
		return err
	})
	return cert, err
}

func (p *Provisioner) issue(ctx context.Context, contextName string, domains []string) (*domain.Cert, error) {
	cert, err := p.api.CreateCert(ctx, domains)
	if err == nil {
		p.logger.WithFields(logrus.Fields{"uid": cert.UID, "cns": domains}).Debug("Certificate issued")
		return cert, nil
	}

	if mapped := MapError(err); mapped != nil {
		return nil, mapped
	}
	if domain.HasCode(err, "forbidden") {
		return nil, &domain.DomainPermissionDeniedError{Domain: domains[0], Context: contextName}
	}
	return nil, fmt.Errorf("failed to create certificate for %s: %w", strings.Join(domains, ", "), err)
}

// setupDomain ensures name exists under the current scope and is verified.
func (p *Provisioner) setupDomain(ctx context.Context, contextName, name string) error {
	d, err := p.api.GetDomain(ctx, name)
	switch {
	case err == nil:
	case domain.HasCode(err, "not_found"):
		p.logger.WithField("domain", name).Debug("Domain not found, adding it")
		d, err = p.api.AddDomain(ctx, name)
		if err != nil {
			return p.domainError(err, contextName, name, "add")
		}
	default:
		return p.domainError(err, contextName, name, "look up")
	}

	if d.Verified {
		return nil
	}

	p.logger.WithField("domain", name).Debug("Domain not verified, requesting verification")
	d, err = p.api.VerifyDomain(ctx, name)
	if err != nil {
		if domain.HasCode(err, "verification_failed") {
			return &domain.DomainNotVerifiedError{Domain: name}
		}
		return p.domainError(err, contextName, name, "verify")
	}
	if !d.Verified {
		return &domain.DomainNotVerifiedError{Domain: name}
	}
	return nil
}

func (p *Provisioner) domainError(err error, contextName, name, action string) error {
	if domain.HasCode(err, "forbidden") {
		return &domain.DomainPermissionDeniedError{Domain: name, Context: contextName}
	}
	if domain.HasCode(err, "invalid_domain") {
		return &domain.InvalidDomainError{Domain: name}
	}
	return fmt.Errorf("failed to %s domain %s: %w", action, name, err)
}

// RootDomain returns the registrable domain (eTLD+1) of a host or URL.
// "my-app-abc.example.com" and "https://www.example.co.uk/x" yield
// "example.com" and "example.co.uk".
func RootDomain(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil {
			return "", &domain.InvalidDomainError{Domain: raw}
		}
		host = u.Hostname()
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return "", &domain.InvalidDomainError{Domain: raw}
	}

	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", &domain.InvalidDomainError{Domain: raw}
	}
	return root, nil
}
