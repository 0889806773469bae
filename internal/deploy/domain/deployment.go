package domain

import (
	"context"
	"time"
)

// Deployment targets.
const (
	TargetPreview    = "preview"
	TargetProduction = "production"
)

// Ready states reported by the platform.
const (
	ReadyStateQueued       = "QUEUED"
	ReadyStateBuilding     = "BUILDING"
	ReadyStateInitializing = "INITIALIZING"
	ReadyStateReady        = "READY"
	ReadyStateError        = "ERROR"
	ReadyStateCanceled     = "CANCELED"
)

// Deployment is a deployment as returned by the platform.
type Deployment struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	ReadyState string    `json:"readyState"`
	Target     string    `json:"target,omitempty"`
	Alias      []string  `json:"alias,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateOpts holds the parameters for creating a deployment.
type CreateOpts struct {
	// Name is the project name the deployment belongs to.
	Name string

	// Target is TargetPreview or TargetProduction.
	Target string

	// Alias lists additional hostnames requested for the deployment.
	Alias []string

	// Env is passed to the running deployment.
	Env map[string]string

	// BuildEnv is only available while building.
	BuildEnv map[string]string

	// Regions restricts where the deployment runs.
	Regions []string

	// Public exposes the source and logs of the deployment.
	Public bool

	// Force creates a new deployment even if nothing changed.
	Force bool
}

// File is a single entry of a deployment manifest.
type File struct {
	// Path is relative to the manifest root and uses forward slashes.
	Path string `json:"file"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
	Mode uint32 `json:"mode"`
}

// Manifest is the set of files that make up a deployment.
type Manifest struct {
	// Root is the absolute directory the file paths are relative to.
	Root  string
	Files []File
}

// BySHA returns the manifest entry with the given digest.
func (m *Manifest) BySHA(sha string) (File, bool) {
	for _, f := range m.Files {
		if f.SHA == sha {
			return f, true
		}
	}
	return File{}, false
}

// TotalSize returns the sum of all file sizes in bytes.
func (m *Manifest) TotalSize() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Size
	}
	return total
}

// Client is the subset of the platform API needed to create a deployment.
type Client interface {
	CreateDeployment(ctx context.Context, manifest *Manifest, opts CreateOpts) (*Deployment, error)
}

// Domain is a custom domain registered with the platform.
type Domain struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Cert is an issued TLS certificate.
type Cert struct {
	UID       string    `json:"uid"`
	CNs       []string  `json:"cns"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DomainClient manages domains on the platform.
type DomainClient interface {
	GetDomain(ctx context.Context, name string) (*Domain, error)
	AddDomain(ctx context.Context, name string) (*Domain, error)
	VerifyDomain(ctx context.Context, name string) (*Domain, error)
}

// CertClient issues certificates.
type CertClient interface {
	CreateCert(ctx context.Context, domains []string) (*Cert, error)
}
