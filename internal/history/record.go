package history

import (
	"time"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
)

const (
	StatusPending = "pending"
	StatusReady   = "ready"
	StatusError   = "error"
)

// Record is one deployment attempt made from this machine.
type Record struct {
	// ID is the local primary key (assigned on insert).
	ID int64 `json:"id"`

	// DeploymentID is assigned by the platform once creation succeeds.
	DeploymentID string `json:"deployment_id,omitempty"`

	// Name is the project name the deployment was created under.
	Name string `json:"name"`

	URL    string `json:"url,omitempty"`
	Scope  string `json:"scope,omitempty"`
	Target string `json:"target,omitempty"`

	// Status is StatusPending until the create call returns.
	Status string `json:"status"`

	// ErrorCode is the typed error code when Status is StatusError.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete records the result of the create call on r.
func (r *Record) Complete(dep *domain.Deployment, err error) {
	if err != nil {
		r.Status = StatusError
		r.ErrorCode = domain.CodeOf(err)
		r.ErrorMessage = err.Error()
		return
	}
	r.Status = StatusReady
	r.DeploymentID = dep.ID
	r.URL = dep.URL
	if dep.Target != "" {
		r.Target = dep.Target
	}
}
