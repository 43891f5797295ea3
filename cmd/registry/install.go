package registry

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/install"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
	mcpreg "github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

type InstallCmd struct {
	*internalcmd.BaseCmd
	Format        internalcmd.OutputFormat
	ByID          bool
	Yes           bool
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
		Use:   "install <identifier>",
		Short: "Installs a server from the MCP registry into VS Code",
		Long:  c.longDescription(),
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	cobraCmd.Flags().BoolVar(
		&c.ByID,
		"by-id",
		false,
		"Treat the identifier as a registry id instead of searching for it",
	)

	cobraCmd.Flags().BoolVarP(
		&c.Yes,
		"yes",
		"y",
		false,
		"Install without asking for confirmation",
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

func (c *InstallCmd) longDescription() string {
	return `Installs a server from the MCP registry into VS Code.

The identifier is searched for by name and description unless --by-id is set.
When several servers match, the candidates are listed and the command fails; rerun with --by-id.
Values for the server's environment variables are asked for, defaulting to the current environment.`
}

func (c *InstallCmd) run(cmd *cobra.Command, args []string) error {
	handler, err := internalcmd.NewHandler[install.Outcome](c.Format, cmd.OutOrStdout(), printer.NewOutcomePrinter())
	if err != nil {
		return err
	}

	identifier := strings.TrimSpace(args[0])
	if identifier == "" {
		return handler.HandleError(fmt.Errorf("identifier is required and cannot be empty"))
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	srv, err := progress.Track(
		c.opts.ProgressFor(cmd.ErrOrStderr()),
		fmt.Sprintf("Looking up '%s'...", identifier),
		func() (mcpreg.Server, error) {
			return session.Registry.Lookup(cmd.Context(), identifier, c.ByID)
		},
	)
	if err != nil {
		var ambiguous *errors.AmbiguousIdentifierError
		if stdErrors.As(err, &ambiguous) {
			w := cmd.ErrOrStderr()
			_, _ = fmt.Fprintf(w, "Multiple servers found matching '%s':\n", identifier)
			for i, cand := range ambiguous.Candidates {
				_, _ = fmt.Fprintf(w, "  %d. %s (ID: %s)\n", i+1, cand.Name, cand.ID)
			}
			_, _ = fmt.Fprintln(w, "\nPlease use --by-id with the specific server ID")
		}
		return handler.HandleError(err)
	}

	ed, err := c.opts.EditorBuilder.BuildEditor(c.Logger(), session.Config, session.SettingsPath)
	if err != nil {
		return handler.HandleError(err)
	}

	interactive := !c.NoInteractive
	prompter := c.opts.PrompterFor(interactive)

	inst, err := install.New(
		c.Logger(),
		ed,
		install.WithPrompter(prompter),
		install.WithLookup(prompt.LookupFunc(c.opts.LookupEnv)),
	)
	if err != nil {
		return handler.HandleError(err)
	}

	cfg, err := inst.Prepare(srv)
	if err != nil {
		return handler.HandleError(err)
	}

	if interactive && !c.Yes {
		preview, err := install.Succeeded(srv.Name, cfg).Config.JSON()
		if err != nil {
			return handler.HandleError(err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\nVS Code configuration:\n%s\n\n", preview)

		ok, err := prompter.Confirm(fmt.Sprintf("Install '%s' into VS Code?", cfg.Name))
		if err != nil {
			return handler.HandleError(err)
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Installation cancelled")
			return nil
		}
	}

	if err := inst.InstallConfig(cmd.Context(), cfg); err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(install.Succeeded(srv.Name, cfg))
}
