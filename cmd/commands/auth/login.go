package auth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/output"
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token",
		Long: `Store an API token in the local keychain.

The token is read from --token, DEPLOYCTL_TOKEN, an interactive prompt,
or a single line on stdin when not running in a terminal.

Examples:
  deployctl auth login
  deployctl auth login --token $TOKEN
  echo $TOKEN | deployctl auth login`,
		Args:         cobra.NoArgs,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	settings, err := cmdutil.Settings(cmd)
	if err != nil {
		return err
	}

	token := settings.Token
	if token == "" {
		token, err = readToken(cmd)
		if err != nil {
			return err
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}

	account := auth.AccountFor(settings.APIURL)
	if err := newStore().SetToken(account, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for %s\n", account)
	return nil
}

func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && output.IsTerminal(f) {
		var token string
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("token cannot be empty")
					}
					return nil
				}),
		)).WithAccessible(os.Getenv("ACCESSIBLE") != "").Run()
		if err != nil {
			return "", err
		}
		return token, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	return line, nil
}
