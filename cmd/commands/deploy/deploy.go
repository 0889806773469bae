package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/deployctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/deployctl/internal/auditlog"
	"nathanbeddoewebdev/deployctl/internal/deploy/certs"
	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/deploy/manifest"
	"nathanbeddoewebdev/deployctl/internal/deploy/services"
	"nathanbeddoewebdev/deployctl/internal/history"
	"nathanbeddoewebdev/deployctl/internal/output"
	"nathanbeddoewebdev/deployctl/internal/project"
	"nathanbeddoewebdev/deployctl/internal/services/auth"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newStore is replaced in tests.
var newStore = auth.DefaultStore

// NewCommand returns the "deploy" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [path]",
		Short: "Deploy a directory or file",
		Long: `Upload the files under path (default ".") and create a deployment.

Settings are read from deploy.yaml in the project directory and can be
overridden with flags. When the platform reports that the certificate for
a custom suffix domain is missing, one is issued and the deployment is
retried once.

Examples:
  deployctl deploy
  deployctl deploy ./public --prod
  deployctl deploy --name docs --alias docs.example.com -e API_KEY=secret
  deployctl deploy -o json`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runDeploy,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("prod", false, "Create a production deployment")
	cmd.Flags().BoolP("force", "f", false, "Create a new deployment even if nothing changed")
	cmd.Flags().StringP("name", "n", "", "Project name (overrides deploy.yaml)")
	cmd.Flags().StringSliceP("alias", "a", nil, "Hostname to assign (repeatable, replaces deploy.yaml aliases)")
	cmd.Flags().StringArrayP("env", "e", nil, "Runtime environment variable KEY=VALUE (repeatable)")
	cmd.Flags().StringArrayP("build-env", "b", nil, "Build environment variable KEY=VALUE (repeatable)")
	cmd.Flags().StringP("local-config", "A", "", "Path to the project settings file (default deploy.yaml)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	cmd.AddCommand(ListCommand())

	return cmd
}

func runDeploy(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	settings, err := cmdutil.Settings(cmd)
	if err != nil {
		return err
	}
	logger := cmdutil.Logger(cmd, settings)

	opts, err := createOpts(cmd, path)
	if err != nil {
		return err
	}

	ctx := auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Scope:        settings.Scope,
		ResourceType: "deployment",
		ResourceName: opts.Name,
	})
	cmd.SetContext(ctx)

	client, err := cmdutil.Client(settings, newStore(), logger)
	if err != nil {
		return err
	}

	m, err := manifest.Build(ctx, path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"files": len(m.Files),
		"bytes": m.TotalSize(),
	}).Debug("Built manifest")

	errOut := cmd.ErrOrStderr()
	progress := output.NewProgress(errOut, output.IsTerminalWriter(errOut))
	deployer := services.NewDeployer(client, certs.NewProvisioner(client, progress, logger), logger)

	record := &history.Record{Name: opts.Name, Scope: settings.Scope, Target: opts.Target}
	hist := openHistory(logger)
	if hist != nil {
		defer hist.Close()
		saveRecord(hist, record, logger)
	}

	fmt.Fprintf(errOut, "Deploying %s to %s (%s, %d files)...\n",
		output.Title.Render(opts.Name), cmdutil.ContextName(settings), opts.Target, len(m.Files))

	dep, err := deployer.Create(ctx, cmdutil.ContextName(settings), m, opts)
	record.Complete(dep, err)
	if hist != nil {
		saveRecord(hist, record, logger)
	}
	if err != nil {
		return err
	}

	cmd.SetContext(auditlog.WithMetadata(ctx, auditlog.Metadata{ResourceID: dep.ID}))

	if format == "json" {
		return output.JSON(cmd.OutOrStdout(), dep)
	}
	printDeployment(cmd.OutOrStdout(), dep)
	return nil
}

// createOpts merges deploy.yaml with the command-line flags.
func createOpts(cmd *cobra.Command, path string) (domain.CreateOpts, error) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}

	localConfig, _ := cmd.Flags().GetString("local-config")
	cfg, err := project.Load(dir, localConfig)
	if err != nil {
		return domain.CreateOpts{}, err
	}

	var o project.Overrides
	o.Name, _ = cmd.Flags().GetString("name")
	o.Production, _ = cmd.Flags().GetBool("prod")
	o.Force, _ = cmd.Flags().GetBool("force")
	o.Alias, _ = cmd.Flags().GetStringSlice("alias")

	env, _ := cmd.Flags().GetStringArray("env")
	if o.Env, err = parseKeyValues("--env", env); err != nil {
		return domain.CreateOpts{}, err
	}
	buildEnv, _ := cmd.Flags().GetStringArray("build-env")
	if o.BuildEnv, err = parseKeyValues("--build-env", buildEnv); err != nil {
		return domain.CreateOpts{}, err
	}

	opts := cfg.CreateOpts(o)
	if o.Name != "" {
		if err := (&project.Config{Name: opts.Name, Target: opts.Target}).Validate(); err != nil {
			return domain.CreateOpts{}, err
		}
	}
	return opts, nil
}

// parseKeyValues parses KEY=VALUE pairs. Values may contain "=".
func parseKeyValues(flagName string, pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%s: expected KEY=VALUE, got %q", flagName, pair)
		}
		out[key] = value
	}
	return out, nil
}

func openHistory(logger logrus.FieldLogger) *history.SQLiteRepository {
	repo, err := history.Open()
	if err != nil {
		logger.WithError(err).Warn("Deployment history unavailable")
		return nil
	}
	return repo
}

func saveRecord(repo history.Repository, record *history.Record, logger logrus.FieldLogger) {
	if err := repo.Save(record); err != nil {
		logger.WithError(err).Warn("Failed to save deployment history")
	}
}
