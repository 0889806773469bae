// Package cmdutil resolves the per-invocation settings shared by all
// commands: persistent flags, DEPLOYCTL_* environment and the config file.
package cmdutil

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/deployctl/internal/config"
	"nathanbeddoewebdev/deployctl/internal/deploy/api"
	"nathanbeddoewebdev/deployctl/internal/domain"
	"nathanbeddoewebdev/deployctl/internal/logging"
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Persistent flag names registered on the root command.
const (
	FlagToken    = "token"
	FlagScope    = "scope"
	FlagAPIURL   = "api-url"
	FlagLogLevel = "log-level"
)

// AddPersistentFlags registers the global flags on root.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringP(FlagToken, "t", "", "API token (overrides the stored token)")
	root.PersistentFlags().StringP(FlagScope, "S", "", "Team slug or ID to act as")
	root.PersistentFlags().String(FlagAPIURL, "", "Base URL of the deployment API")
	root.PersistentFlags().String(FlagLogLevel, "", "Log level: trace, debug, info, warn, error (default "+logging.DefaultLevel+")")
}

// flag returns the value of a flag if the command knows it.
func flag(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f.Value.String())
}

// Settings resolves the effective settings for cmd.
func Settings(cmd *cobra.Command) (config.Settings, error) {
	env, err := config.FromEnv()
	if err != nil {
		return config.Settings{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}
	return config.Resolve(config.Settings{
		Token:    flag(cmd, FlagToken),
		APIURL:   flag(cmd, FlagAPIURL),
		Scope:    flag(cmd, FlagScope),
		LogLevel: flag(cmd, FlagLogLevel),
	}, env, cfg), nil
}

// Logger returns a diagnostic logger writing to the command's stderr.
func Logger(cmd *cobra.Command, s config.Settings) *logrus.Logger {
	return logging.New(cmd.ErrOrStderr(), s.LogLevel)
}

// ErrNotLoggedIn is returned when no token is available.
var ErrNotLoggedIn = fmt.Errorf("%w: not logged in", domain.ErrUnauthorized)

// Token returns the token from the settings, falling back to the token
// stored for the API host.
func Token(s config.Settings, store auth.Store) (string, error) {
	if s.Token != "" {
		return s.Token, nil
	}
	token, err := store.GetToken(auth.AccountFor(s.APIURL))
	if errors.Is(err, auth.ErrTokenNotFound) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("failed to read stored token: %w", err)
	}
	return token, nil
}

// Client returns an authenticated API client for the settings.
func Client(s config.Settings, store auth.Store, logger logrus.FieldLogger) (*api.Client, error) {
	token, err := Token(s, store)
	if err != nil {
		return nil, err
	}
	return api.NewClient(token, api.Options{
		BaseURL: s.APIURL,
		TeamID:  s.Scope,
		Logger:  logger,
	}), nil
}

// ContextName describes the scope in user-facing messages.
func ContextName(s config.Settings) string {
	if s.Scope != "" {
		return s.Scope
	}
	return "your personal account"
}
