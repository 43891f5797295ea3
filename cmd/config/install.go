package config

import (
	"fmt"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/install"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

type InstallCmd struct {
	*internalcmd.BaseCmd
	Format        internalcmd.OutputFormat
	File          string
	NoInteractive bool
	opts          cmdopts.CmdOptions
}

func NewInstallCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InstallCmd{
		BaseCmd: baseCmd,
		Format:  internalcmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "install",
		Short: "Installs every server declared in mcp.yml that is missing",
		Long: "Resolves the servers declared in mcp.yml, installs those that are not yet in VS Code, " +
			"and reports each result. Every declared server must exist in the registry.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.File,
		flagNameFile,
		"",
		"Path to the declaration file (default: nearest mcp.yml)",
	)

	cobraCmd.Flags().BoolVar(
		&c.NoInteractive,
		"no-interactive",
		false,
		"Never prompt; environment variables take their values from the current environment or stay empty",
	)

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *InstallCmd) run(cmd *cobra.Command, _ []string) error {
	p := printer.NewOutcomePrinter()

	handler, err := internalcmd.NewHandler[install.Outcome](c.Format, cmd.OutOrStdout(), p)
	if err != nil {
		return err
	}

	_, decl, err := loadDeclaration(c.File)
	if err != nil {
		return handler.HandleError(err)
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	var toInstall []registry.Server
	if len(decl.Servers) > 0 {
		toInstall, err = progress.Track(
			c.opts.ProgressFor(cmd.ErrOrStderr()),
			"Resolving MCP servers...",
			func() ([]registry.Server, error) {
				servers, _, err := session.Service.Plan(cmd.Context(), decl.Servers)
				return servers, err
			},
		)
		if err != nil {
			return handler.HandleError(err)
		}
	}

	if len(toInstall) == 0 {
		if c.Format == internalcmd.FormatText || c.Format == "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✅ All required MCP servers are already installed.")
			return nil
		}
		return handler.HandleResults()
	}

	ed, err := c.opts.EditorBuilder.BuildEditor(c.Logger(), session.Config, session.SettingsPath)
	if err != nil {
		return handler.HandleError(err)
	}

	inst, err := install.New(
		c.Logger(),
		ed,
		install.WithPrompter(c.opts.PrompterFor(!c.NoInteractive)),
		install.WithLookup(prompt.LookupFunc(c.opts.LookupEnv)),
	)
	if err != nil {
		return handler.HandleError(err)
	}

	tally := inst.Install(cmd.Context(), toInstall)

	p.SetFooter(printer.TallyFooter(tally))

	if err := handler.HandleResults(append(tally.Installed, tally.Failed...)...); err != nil {
		return err
	}

	if !tally.OK() {
		return fmt.Errorf("failed to install %d of %d servers", len(tally.Failed), len(toInstall))
	}

	return nil
}
