package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	internalcmd "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/declaration"
)

type InitCmd struct {
	*internalcmd.BaseCmd
	Output string
	Empty  bool
	opts   cmdopts.CmdOptions
}

func NewInitCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd: baseCmd,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "init",
		Short: "Creates an mcp.yml listing the servers installed in VS Code",
		Long: "Creates a declaration file listing the identifiers of the MCP servers currently installed in VS Code, " +
			"so the same set can be verified and installed elsewhere. An existing file is never overwritten.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCmd.Flags().StringVarP(
		&c.Output,
		"output",
		"o",
		declaration.DefaultFileName,
		"Path of the declaration file to create",
	)

	cobraCmd.Flags().BoolVar(
		&c.Empty,
		"empty",
		false,
		"Create the file without listing the installed servers",
	)

	return cobraCmd, nil
}

func (c *InitCmd) run(cmd *cobra.Command, _ []string) error {
	servers := []string{}

	if !c.Empty {
		session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
		if err != nil {
			return err
		}

		installed, err := session.Service.Installed()
		if err != nil {
			return err
		}
		servers = installed.Identifiers().Sorted()
	}

	path, err := filepath.Abs(c.Output)
	if err != nil {
		return err
	}

	if err := declaration.Init(path, servers); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s with %d server%s\n", path, len(servers), plural(len(servers)))

	return nil
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
