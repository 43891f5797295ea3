// Package mcpserver exposes installed-server inspection and reconciliation as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

const (
	ToolListServers    = "list_servers"
	ToolCheckServers   = "check_servers"
	ToolResolveServers = "resolve_servers"

	// EndpointPath is where the streamable HTTP transport is served.
	EndpointPath = "/mcp"
)

// Service is the subset of service.Service used by the tools.
type Service interface {
	Installed() (service.Installed, error)
	Check(ctx context.Context, tokens []string, resolve bool) (reconcile.Report, error)
	Resolve(ctx context.Context, tokens []string) ([]service.Resolution, error)
}

// ListServersResult is returned by the list_servers tool.
type ListServersResult struct {
	SettingsPath string                    `json:"settings_path"`
	Count        int                       `json:"count"`
	Servers      []service.InstalledServer `json:"servers"`
}

// CheckServersResult is returned by the check_servers tool.
type CheckServersResult struct {
	AllInstalled     bool     `json:"all_installed"`
	InstalledServers []string `json:"installed_servers"`
	MissingServers   []string `json:"missing_servers"`
}

// ResolveServersResult is returned by the resolve_servers tool.
type ResolveServersResult struct {
	Resolutions []service.Resolution `json:"resolutions"`
}

// Server wraps an MCP server with the installer tools registered.
type Server struct {
	logger hclog.Logger
	svc    Service
	mcp    *server.MCPServer
}

// New creates the MCP server and registers its tools.
func New(logger hclog.Logger, svc Service, version string) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	s := &Server{
		logger: logger.Named("mcp"),
		svc:    svc,
		mcp: server.NewMCPServer(
			"mcp-installer",
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}

	s.mcp.AddTool(
		mcp.NewTool(ToolListServers,
			mcp.WithDescription("List the MCP servers installed in the VS Code settings file"),
		),
		s.listServers,
	)

	s.mcp.AddTool(
		mcp.NewTool(ToolCheckServers,
			mcp.WithDescription("Check whether the given MCP servers are installed in VS Code"),
			mcp.WithArray("servers",
				mcp.Required(),
				mcp.Description("Server identifiers: registry ids, registry names, docker images or npm packages"),
				mcp.WithStringItems(),
			),
			mcp.WithBoolean("resolve",
				mcp.Description("Resolve identifiers through the registry before comparing (default: false)"),
			),
		),
		s.checkServers,
	)

	s.mcp.AddTool(
		mcp.NewTool(ToolResolveServers,
			mcp.WithDescription("Resolve server identifiers to their registry entries"),
			mcp.WithArray("identifiers",
				mcp.Required(),
				mcp.Description("Registry ids or names to resolve"),
				mcp.WithStringItems(),
			),
		),
		s.resolveServers,
	)

	return s, nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the tools over in and out until ctx is cancelled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("Serving MCP over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// StreamableHandler returns an http.Handler serving the streamable HTTP transport at EndpointPath.
func (s *Server) StreamableHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(EndpointPath))
}

func (s *Server) listServers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	installed, err := s.svc.Installed()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read settings: %v", err)), nil
	}

	return jsonResult(ListServersResult{
		SettingsPath: installed.SettingsPath,
		Count:        len(installed.Servers),
		Servers:      installed.Servers,
	})
}

func (s *Server) checkServers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	servers, err := request.RequireStringSlice("servers")
	if err != nil {
		return mcp.NewToolResultError("servers argument is required and must be a list of strings"), nil
	}
	resolve := request.GetBool("resolve", false)

	report, err := s.svc.Check(ctx, servers, resolve)
	if err != nil {
		s.logger.Warn("check_servers failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Check failed: %v", err)), nil
	}

	present := make([]string, 0, len(report.Present))
	for _, p := range report.Present {
		present = append(present, p.Identifier)
	}

	return jsonResult(CheckServersResult{
		AllInstalled:     report.AllInstalled(),
		InstalledServers: present,
		MissingServers:   report.MissingIdentifiers(),
	})
}

func (s *Server) resolveServers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifiers, err := request.RequireStringSlice("identifiers")
	if err != nil {
		return mcp.NewToolResultError("identifiers argument is required and must be a list of strings"), nil
	}

	res, err := s.svc.Resolve(ctx, identifiers)
	if err != nil {
		s.logger.Warn("resolve_servers failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Resolve failed: %v", err)), nil
	}

	return jsonResult(ResolveServersResult{Resolutions: res})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
