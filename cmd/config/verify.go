package config

import (
	"fmt"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
)

type VerifyCmd struct {
	*internalcmd.BaseCmd
	Format internalcmd.OutputFormat
	File   string
	opts   cmdopts.CmdOptions
}

func NewVerifyCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &VerifyCmd{
		BaseCmd: baseCmd,
		Format:  internalcmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:     "verify",
		Aliases: []string{"check"},
		Short:   "Checks that every server declared in mcp.yml is installed",
		Long: "Resolves every server declared in mcp.yml through the registry and checks it is installed in VS Code. " +
			"Exits with status 1 when any server is missing.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.File,
		flagNameFile,
		"",
		"Path to the declaration file (default: nearest mcp.yml)",
	)

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *VerifyCmd) run(cmd *cobra.Command, _ []string) error {
	handler, err := internalcmd.NewHandler[reconcile.Report](c.Format, cmd.OutOrStdout(), &printer.ReportPrinter{})
	if err != nil {
		return err
	}

	path, decl, err := loadDeclaration(c.File)
	if err != nil {
		return handler.HandleError(err)
	}
	c.Logger().Debug("Loaded declaration", "path", path, "servers", len(decl.Servers))

	if len(decl.Servers) == 0 {
		return handler.HandleResult(reconcile.Report{Present: []reconcile.Result{}, Missing: []reconcile.Result{}})
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	report, err := progress.Track(
		c.opts.ProgressFor(cmd.ErrOrStderr()),
		"Verifying MCP servers...",
		func() (reconcile.Report, error) {
			return session.Service.Check(cmd.Context(), decl.Servers, true)
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
