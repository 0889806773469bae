package auditlog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "separate value",
			in:   []string{"auth", "login", "--token", "secret"},
			want: []string{"auth", "login", "--token", "<redacted>"},
		},
		{
			name: "inline value",
			in:   []string{"deploy", "--env=API_KEY=secret", "--prod"},
			want: []string{"deploy", "--env=<redacted>", "--prod"},
		},
		{
			name: "short flags",
			in:   []string{"deploy", "-e", "A=1", "-b", "B=2"},
			want: []string{"deploy", "-e", "<redacted>", "-b", "<redacted>"},
		},
		{
			name: "nothing sensitive",
			in:   []string{"deploy", "./site", "--name", "docs"},
			want: []string{"deploy", "./site", "--name", "docs"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SanitizeArgs(tt.in)); diff != "" {
				t.Errorf("SanitizeArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithMetadata_Merges(t *testing.T) {
	ctx := WithMetadata(context.Background(), Metadata{Scope: "acme", ResourceType: "deployment"})
	ctx = WithMetadata(ctx, Metadata{ResourceName: "docs"})

	want := Metadata{Scope: "acme", ResourceType: "deployment", ResourceName: "docs"}
	if diff := cmp.Diff(want, MetadataFromContext(ctx)); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}
