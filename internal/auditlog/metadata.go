package auditlog

import "context"

// Metadata describes what a command acted on. Commands attach it to their
// context and the root command reads it back when recording the entry.
type Metadata struct {
	Scope        string
	ResourceType string
	ResourceID   string
	ResourceName string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to ctx. Non-empty fields of meta
// replace those already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Scope:        pick(meta.Scope, existing.Scope),
		ResourceType: pick(meta.ResourceType, existing.ResourceType),
		ResourceID:   pick(meta.ResourceID, existing.ResourceID),
		ResourceName: pick(meta.ResourceName, existing.ResourceName),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in ctx.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
