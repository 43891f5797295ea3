package cmd

import (
	stdErrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/danielmeppiel/vscode-mcp-installer/cmd/config"
	"github.com/danielmeppiel/vscode-mcp-installer/cmd/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/flags"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/perms"
)

var version = "dev" // Set at build time using -ldflags

// Process exit codes.
const (
	ExitOK             = 0
	ExitMissingServers = 1
	ExitError          = 2
)

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd, err := NewRootCmd(&cmd.BaseCmd{})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	err = rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	return ExitCode(err)
}

// ExitCode maps the error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stdErrors.Is(err, errors.ErrMissingServers):
		return ExitMissingServers
	default:
		return ExitError
	}
}

func NewRootCmd(c *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rc := &RootCmd{BaseCmd: c}

	rootCmd := &cobra.Command{
		Use:           "mcp-installer <command> [args]",
		Short:         "Checks and installs the MCP servers a project needs in VS Code.",
		Long:          rc.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := configureLogger()
			if err != nil {
				return err
			}
			rc.SetLogger(logger)
			return nil
		},
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewCheckCmd,     // check
		NewListCmd,      // list
		NewServeCmd,     // serve
		registry.NewCmd, // registry
		config.NewCmd,   // config
	}

	for _, fn := range fns {
		tempCmd, err := fn(c, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'mcp-installer' CLI compares the MCP servers a project requires with the servers
registered in VS Code's settings.json, using an MCP registry to resolve server identities,
and installs whatever is missing.`
}

func configureLogger() (hclog.Logger, error) {
	// If no log path is set, don't log anywhere.
	var logOutput io.Writer = io.Discard

	if logPath := strings.TrimSpace(flags.LogPath); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcp-installer",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(strings.TrimSpace(flags.LogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return flags.DefaultLogLevel
	}
}
