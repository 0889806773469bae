package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validNameChars matches lowercase alphanumerics, hyphens, dots and underscores.
var validNameChars = regexp.MustCompile(`^[a-z0-9._\-]+$`)

const maxProjectNameLen = 100

// ValidateProjectName checks that a deployment name is accepted by the platform:
//   - 1 to 100 characters
//   - Only lowercase alphanumerics, hyphens (-), periods (.) and underscores (_)
//   - Must not contain the sequence "---"
func ValidateProjectName(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("project name must not be empty")
	}
	if len(name) > maxProjectNameLen {
		return fmt.Errorf("project name must be at most %d characters, got %d", maxProjectNameLen, len(name))
	}

	if !validNameChars.MatchString(name) {
		return fmt.Errorf("project name %q contains invalid characters (only a-z, 0-9, hyphens, periods and underscores are allowed)", name)
	}

	if strings.Contains(name, "---") {
		return fmt.Errorf("project name %q must not contain \"---\"", name)
	}

	return nil
}

// SlugifyName turns an arbitrary directory name into a valid project name.
// It returns an empty string when nothing usable remains.
func SlugifyName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > maxProjectNameLen {
		out = strings.TrimRight(out[:maxProjectNameLen], "-")
	}
	return out
}
