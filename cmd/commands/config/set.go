package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/deployctl/internal/config"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value clears the key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  deployctl config set default-scope acme\n" +
			"  deployctl config set api-url https://api.example.com",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := strings.TrimSpace(args[1])
	if value != "" && spec.Validate != nil {
		if err := spec.Validate(value); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return err
	}

	if value == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", spec.Name)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, spec.Get(cfg))
	return nil
}
