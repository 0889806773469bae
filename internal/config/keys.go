package config

import (
	"fmt"
	"net/url"
	"strings"

	"nathanbeddoewebdev/deployctl/internal/deploy/api"
	"nathanbeddoewebdev/deployctl/internal/logging"

	"github.com/sirupsen/logrus"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-scope").
	Name string

	// Description is shown in help text.
	Description string

	Get func(cfg *Config) string
	Set func(cfg *Config, value string)

	// Validate, if set, rejects values before Set is called. An empty
	// value always clears the key and is not validated.
	Validate func(value string) error
}

// Keys is the list of supported configuration keys.
var Keys = []KeySpec{
	{
		Name:        "default-scope",
		Description: "Team slug or ID used when --scope is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultScope },
		Set:         func(cfg *Config, v string) { cfg.DefaultScope = v },
	},
	{
		Name:        "api-url",
		Description: "Base URL of the deployment API (default " + api.DefaultBaseURL + ")",
		Get:         func(cfg *Config) string { return cfg.APIURL },
		Set:         func(cfg *Config, v string) { cfg.APIURL = strings.TrimRight(v, "/") },
		Validate:    validateURL,
	},
	{
		Name:        "log-level",
		Description: "Log level used when --log-level is not specified (default " + logging.DefaultLevel + ")",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         func(cfg *Config, v string) { cfg.LogLevel = strings.ToLower(v) },
		Validate: func(v string) error {
			if _, err := logrus.ParseLevel(v); err != nil {
				return fmt.Errorf("invalid log level %q", v)
			}
			return nil
		},
	},
}

func validateURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("invalid URL %q: expected http(s)://host", v)
	}
	return nil
}

// Lookup returns the KeySpec for name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds the "Available keys" block for command help text.
func KeysHelp() string {
	maxLen := 0
	for _, k := range Keys {
		maxLen = max(maxLen, len(k.Name))
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
