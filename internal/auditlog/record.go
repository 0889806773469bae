package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry is one recorded command invocation.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Args         string    `json:"args,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`
	Outcome      string    `json:"outcome"`
	ErrorCode    string    `json:"error_code,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// Apply copies metadata fields onto the entry.
func (e *AuditEntry) Apply(meta Metadata) {
	e.Scope = meta.Scope
	e.ResourceType = meta.ResourceType
	e.ResourceID = meta.ResourceID
	e.ResourceName = meta.ResourceName
}
