package config

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/declaration"
)

const flagNameFile = "file"

// NewCmd creates the parent config command, which works with the project's mcp.yml.
func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Verify and install the MCP servers declared in mcp.yml",
		Long: "Work with the project's declaration file (mcp.yml), which lists the MCP servers the project requires. " +
			"Without --file, mcp.yml is searched for in the current directory and its parents.",
	}

	// Sub-commands for: mcp-installer config.
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewInitCmd,    // init
		NewInstallCmd, // install
		NewVerifyCmd,  // verify
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

// loadDeclaration reads the declaration at file, or the nearest mcp.yml above the working directory.
func loadDeclaration(file string) (string, declaration.Declaration, error) {
	path := strings.TrimSpace(file)
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", declaration.Declaration{}, err
		}
		if path, err = declaration.Find(wd, declaration.DefaultFileName); err != nil {
			return "", declaration.Declaration{}, err
		}
	}

	d, err := declaration.Load(path)
	if err != nil {
		return "", declaration.Declaration{}, err
	}

	return path, d, nil
}
