package registry

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	mcpreg "github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

type ShowCmd struct {
	*internalcmd.BaseCmd
	Format internalcmd.OutputFormat
	opts   cmdopts.CmdOptions
}

func NewShowCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ShowCmd{
		BaseCmd: baseCmd,
		Format:  internalcmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "show <server-id>",
		Short: "Shows the full registry entry of a server",
		Long:  "Shows the repository, version, packages, arguments and environment variables of a registry entry",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ShowCmd) run(cmd *cobra.Command, args []string) error {
	handler, err := internalcmd.NewHandler[mcpreg.Server](c.Format, cmd.OutOrStdout(), &printer.ServerDetailPrinter{})
	if err != nil {
		return err
	}

	id := strings.TrimSpace(args[0])
	if id == "" {
		return handler.HandleError(fmt.Errorf("server-id is required and cannot be empty"))
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	srv, err := progress.Track(
		c.opts.ProgressFor(cmd.ErrOrStderr()),
		"Fetching server details...",
		func() (mcpreg.Server, error) {
			return session.Registry.GetServer(cmd.Context(), id)
		},
	)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(srv)
}
