// Package services contains the deployment workflow used by the CLI.
package services

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/deployctl/internal/deploy/certs"
	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/logging"

	"github.com/sirupsen/logrus"
)

// CertProvisioner provisions the certificate of a deployment's suffix domain.
type CertProvisioner interface {
	ForDeploy(ctx context.Context, contextName, deployURL string) error
}

// Deployer creates deployments and translates known API failures into
// typed errors from the domain package.
type Deployer struct {
	client domain.Client
	certs  CertProvisioner
	logger logrus.FieldLogger
}

// NewDeployer creates a Deployer. logger may be nil.
func NewDeployer(client domain.Client, certs CertProvisioner, logger logrus.FieldLogger) *Deployer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Deployer{client: client, certs: certs, logger: logger}
}

// Create creates a deployment under contextName.
//
// Known API errors are returned as typed errors implementing
// domain.DeployError. When the platform reports a missing certificate, one
// is provisioned and the create call is repeated once; anything else is
// returned unchanged.
func (d *Deployer) Create(ctx context.Context, contextName string, manifest *domain.Manifest, opts domain.CreateOpts) (*domain.Deployment, error) {
	dep, err := d.client.CreateDeployment(ctx, manifest, opts)
	if err == nil {
		return d.checkDeployment(dep)
	}

	apiErr, ok := domain.AsAPIError(err)
	if !ok || apiErr.Code != codeCertMissing {
		return nil, d.translate(err, contextName)
	}

	d.logger.WithField("value", apiErr.Value).Debug("Certificate missing, provisioning")
	if d.certs == nil {
		return nil, &domain.CertMissingError{Domain: apiErr.Value}
	}
	if err := d.certs.ForDeploy(ctx, contextName, apiErr.Value); err != nil {
		return nil, err
	}

	dep, err = d.client.CreateDeployment(ctx, manifest, opts)
	if err == nil {
		return d.checkDeployment(dep)
	}
	if retryErr, ok := domain.AsAPIError(err); ok && retryErr.Code == codeCertMissing {
		return nil, &domain.CertMissingError{Domain: orValue(retryErr.Value, apiErr.Value)}
	}
	return nil, d.translate(err, contextName)
}

func (d *Deployer) checkDeployment(dep *domain.Deployment) (*domain.Deployment, error) {
	if dep == nil {
		return nil, fmt.Errorf("platform returned no deployment")
	}
	return dep, nil
}

// translate maps err to a typed error, or returns it unchanged.
func (d *Deployer) translate(err error, contextName string) error {
	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		return err
	}

	mapped := mapDeployError(apiErr, contextName)
	if mapped == nil {
		mapped = certs.MapError(apiErr)
	}
	if mapped == nil {
		d.logger.WithField("code", apiErr.Code).Debug("Unrecognised API error")
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"code":   apiErr.Code,
		"mapped": domain.CodeOf(mapped),
	}).Debug("Translated API error")
	return mapped
}

func orValue(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
