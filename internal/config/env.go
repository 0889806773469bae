package config

import (
	"fmt"

	"nathanbeddoewebdev/deployctl/internal/deploy/api"
	"nathanbeddoewebdev/deployctl/internal/logging"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable read by FromEnv.
const EnvPrefix = "DEPLOYCTL"

// Env holds overrides read from DEPLOYCTL_* environment variables.
type Env struct {
	Token    string `envconfig:"TOKEN"`
	APIURL   string `envconfig:"API_URL"`
	Scope    string `envconfig:"SCOPE"`
	LogLevel string `envconfig:"LOG_LEVEL"`
}

// FromEnv reads the DEPLOYCTL_* environment variables.
func FromEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return nil, fmt.Errorf("config: failed to read environment: %w", err)
	}
	return &e, nil
}

// Settings are the effective values for one invocation.
type Settings struct {
	Token    string
	APIURL   string
	Scope    string
	LogLevel string
}

// Resolve merges the layers in precedence order: flags, environment,
// config file, built-in defaults. env and cfg may be nil.
func Resolve(flags Settings, env *Env, cfg *Config) Settings {
	if env == nil {
		env = &Env{}
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return Settings{
		Token:    first(flags.Token, env.Token),
		APIURL:   first(flags.APIURL, env.APIURL, cfg.APIURL, api.DefaultBaseURL),
		Scope:    first(flags.Scope, env.Scope, cfg.DefaultScope),
		LogLevel: first(flags.LogLevel, env.LogLevel, cfg.LogLevel, logging.DefaultLevel),
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
