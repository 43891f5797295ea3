package registry

import (
	"fmt"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	mcpreg "github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

type ListCmd struct {
	*internalcmd.BaseCmd
	Format internalcmd.OutputFormat
	Limit  int
	Cursor string
	opts   cmdopts.CmdOptions
}

func NewListCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd: baseCmd,
		Format:  internalcmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists servers published in the MCP registry",
		Long:  "Lists one page of servers published in the MCP registry; use --cursor to fetch the next page",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().IntVar(
		&c.Limit,
		"limit",
		mcpreg.DefaultListLimit,
		fmt.Sprintf("Number of servers to fetch (1-%d)", mcpreg.MaxListLimit),
	)

	cobraCmd.Flags().StringVar(
		&c.Cursor,
		"cursor",
		"",
		"Pagination cursor returned by a previous call",
	)

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ListCmd) run(cmd *cobra.Command, _ []string) error {
	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return err
	}

	resp, err := progress.Track(
		c.opts.ProgressFor(cmd.ErrOrStderr()),
		"Fetching registry servers...",
		func() (mcpreg.ListResponse, error) {
			return session.Registry.ListServers(cmd.Context(), c.Limit, c.Cursor)
		},
	)

	// Structured output keeps the pagination metadata next to the servers.
	if c.Format == internalcmd.FormatJSON || c.Format == internalcmd.FormatYAML {
		handler, hErr := internalcmd.NewHandler[mcpreg.ListResponse](c.Format, cmd.OutOrStdout(), nil)
		if hErr != nil {
			return hErr
		}
		if err != nil {
			return handler.HandleError(err)
		}
		return handler.HandleResult(resp)
	}

	p := printer.NewRegistryServerPrinter()
	p.SetFooter(printer.NextCursorFooter(resp.Metadata.NextCursor))

	handler, hErr := internalcmd.NewHandler[mcpreg.Server](c.Format, cmd.OutOrStdout(), p)
	if hErr != nil {
		return hErr
	}
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResults(resp.Servers...)
}
