package cmd

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/daemon"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/flags"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/mcpserver"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DefaultServeAddr = "localhost:8090"
)

// ServeCmd exposes the installer as MCP tools, and optionally as an HTTP API.
type ServeCmd struct {
	*cmd.BaseCmd
	Transport   string
	Addr        string
	CORSOrigins []string
	opts        cmdopts.CmdOptions
}

func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd: baseCmd,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "serve [--transport stdio|http] [--addr]",
		Short: "Serves the installer as an MCP server",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.Transport,
		"transport",
		TransportStdio,
		fmt.Sprintf("Transport to serve on (one of: %s, %s)", TransportStdio, TransportHTTP),
	)

	cobraCmd.Flags().StringVar(
		&c.Addr,
		"addr",
		DefaultServeAddr,
		"Address to bind when using the http transport",
	)

	cobraCmd.Flags().StringSliceVar(
		&c.CORSOrigins,
		"cors-origin",
		nil,
		"Origin allowed to call the HTTP API (can be repeated, '*' allows any)",
	)

	return cobraCmd, nil
}

func (c *ServeCmd) longDescription() string {
	return `Serves the list_servers, check_servers and resolve_servers tools over MCP.

With --transport stdio (the default) the tools are served on standard input and output.
With --transport http the MCP streamable HTTP endpoint is served at /mcp, next to a
REST API under /api/v1 and its OpenAPI documentation at /docs.`
}

func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	transport := strings.ToLower(strings.TrimSpace(c.Transport))
	if transport != TransportStdio && transport != TransportHTTP {
		return fmt.Errorf("unsupported transport '%s' (allowed: %s, %s)", c.Transport, TransportStdio, TransportHTTP)
	}

	session, err := c.Session(c.opts.ConfigLoader, c.opts.LookupEnv, c.opts.RegistryBuilder)
	if err != nil {
		return err
	}

	logger := c.Logger()

	mcpSrv, err := mcpserver.New(logger, session.Service, version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Create the signal handling context for the application.
	ctx, cancel := signal.NotifyContext(
		cobraCmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if transport == TransportStdio {
		err := mcpSrv.ServeStdio(ctx, cobraCmd.InOrStdin(), cobraCmd.OutOrStdout())
		if err != nil && !stdErrors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	addr := strings.TrimSpace(c.Addr)
	deps, err := daemon.NewAPIDependencies(logger, session.Service, session.Registry, mcpSrv.StreamableHandler(), addr)
	if err != nil {
		return err
	}

	apiSrv, err := daemon.NewAPIServer(
		deps,
		daemon.WithCORSAllowOrigins(c.CORSOrigins),
		daemon.WithVersion(version),
	)
	if err != nil {
		return err
	}

	banner := fmt.Sprintf("mcp-installer serving over HTTP.\n\n"+
		"  MCP endpoint:\thttp://%s%s\n"+
		"  Local API:\thttp://%s/api/v1\n"+
		"  OpenAPI UI:\thttp://%s/docs\n"+
		"  Settings file:\t%s\n",
		addr, mcpserver.EndpointPath, addr, addr, session.SettingsPath)

	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}

	banner += "\nPress Ctrl+C to stop.\n\n"
	_, _ = fmt.Fprint(cobraCmd.ErrOrStderr(), banner)

	if err := apiSrv.Start(ctx); err != nil && !stdErrors.Is(err, context.Canceled) {
		logger.Error("HTTP server exited with error", "error", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}
