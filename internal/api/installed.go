package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

// InstalledResponse is the response for GET /installed.
type InstalledResponse struct {
	Body service.Installed
}

// CheckRequest is the request for POST /check.
type CheckRequest struct {
	Body struct {
		Servers []string `doc:"Server identifiers to look for" json:"servers" minItems:"1"`
		Resolve bool     `doc:"Resolve identifiers through the registry first" json:"resolve,omitempty"`
	}
}

// CheckResult is the outcome of a check.
type CheckResult struct {
	AllInstalled bool             `doc:"True when nothing is missing or unresolved" json:"all_installed"`
	Report       reconcile.Report `doc:"Per-identifier outcome"                     json:"report"`
}

// CheckResponse is the response for POST /check.
type CheckResponse struct {
	Body CheckResult
}

// RegisterInstalledRoutes sets up the routes that read the editor settings file.
func RegisterInstalledRoutes(routerAPI huma.API, svc Service, apiPathPrefix string) {
	group := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Installed"}

	huma.Register(
		group,
		huma.Operation{
			OperationID: "listInstalled",
			Method:      http.MethodGet,
			Path:        "/installed",
			Summary:     "List the MCP servers installed in the editor settings",
			Tags:        tags,
		},
		func(_ context.Context, _ *struct{}) (*InstalledResponse, error) {
			return handleInstalled(svc)
		},
	)

	huma.Register(
		group,
		huma.Operation{
			OperationID: "checkInstalled",
			Method:      http.MethodPost,
			Path:        "/check",
			Summary:     "Check whether servers are installed",
			Tags:        tags,
		},
		func(ctx context.Context, input *CheckRequest) (*CheckResponse, error) {
			return handleCheck(ctx, svc, input.Body.Servers, input.Body.Resolve)
		},
	)
}

func handleInstalled(svc Service) (*InstalledResponse, error) {
	installed, err := svc.Installed()
	if err != nil {
		return nil, err
	}

	return &InstalledResponse{Body: installed}, nil
}

func handleCheck(ctx context.Context, svc Service, servers []string, resolve bool) (*CheckResponse, error) {
	report, err := svc.Check(ctx, servers, resolve)
	if err != nil {
		return nil, err
	}

	return &CheckResponse{Body: CheckResult{AllInstalled: report.AllInstalled(), Report: report}}, nil
}
