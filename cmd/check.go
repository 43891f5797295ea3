package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
)

// CheckCmd reports whether the given MCP servers are installed.
type CheckCmd struct {
	*cmd.BaseCmd
	Format  cmd.OutputFormat
	Offline bool
	opts    cmdopts.CmdOptions
}

func NewCheckCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &CheckCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "check <server>...",
		Short: "Checks whether MCP servers are installed in VS Code",
		Long:  c.longDescription(),
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}

	cobraCmd.Flags().BoolVar(
		&c.Offline,
		"offline",
		false,
		"Compare identifiers with the installed servers directly, without resolving them through the registry",
	)

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *CheckCmd) longDescription() string {
	return `Checks whether the given MCP servers are installed in VS Code.

Identifiers may be registry ids, registry names, docker images or npm packages.
They are resolved through the registry and matched against settings.json unless --offline is set.
Exits with status 1 when any server is missing.`
}

func (c *CheckCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler[reconcile.Report](c.Format, cobraCmd.OutOrStdout(), &printer.ReportPrinter{})
	if err != nil {
		return err
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	report, err := progress.Track(
		c.opts.ProgressFor(cobraCmd.ErrOrStderr()),
		"Checking MCP servers...",
		func() (reconcile.Report, error) {
			return session.Service.Check(cobraCmd.Context(), args, !c.Offline)
		},
	)
	if err != nil {
		return handler.HandleError(err)
	}

	if err := handler.HandleResult(report); err != nil {
		return err
	}

	if !report.AllInstalled() {
		return errors.ErrMissingServers
	}

	return nil
}
