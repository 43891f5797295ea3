package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/printer"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

// ListCmd lists the MCP servers installed in VS Code.
type ListCmd struct {
	*cmd.BaseCmd
	Format  cmd.OutputFormat
	Details bool
	opts    cmdopts.CmdOptions
}

func NewListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the MCP servers installed in VS Code",
		Long:  "Lists the MCP servers registered in VS Code's settings.json, identified the way check compares them",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().BoolVar(
		&c.Details,
		"details",
		false,
		"Show the command, arguments and environment variable names of each server",
	)

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	p := printer.NewInstalledServerPrinter(c.Details)

	handler, err := cmd.NewHandler[service.InstalledServer](c.Format, cobraCmd.OutOrStdout(), p)
	if err != nil {
		return err
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return handler.HandleError(err)
	}

	installed, err := session.Service.Installed()
	if err != nil {
		return handler.HandleError(err)
	}

	base := printer.DefaultInstalledHeader(c.Details)
	p.SetHeader(func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "📄 Settings file: %s\n\n", installed.SettingsPath)
		base(w, count)
	})

	return handler.HandleResults(installed.Servers...)
}
