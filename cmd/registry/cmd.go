package registry

import (
	"github.com/spf13/cobra"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
)

// NewCmd creates the parent registry command.
func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "registry",
		Short: "Browse the MCP registry and install servers from it",
		Long:  "Browse, search and inspect MCP registry entries, and install them into VS Code",
	}

	// Sub-commands for: mcp-installer registry.
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewInstallCmd, // install
		NewListCmd,    // list
		NewSearchCmd,  // search
		NewShowCmd,    // show
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
