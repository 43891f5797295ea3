package api

import (
	"context"
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// Service is the installed-server and reconciliation surface the routes depend on.
type Service interface {
	Installed() (service.Installed, error)
	Check(ctx context.Context, tokens []string, resolve bool) (reconcile.Report, error)
	Resolve(ctx context.Context, tokens []string) ([]service.Resolution, error)
}

// Registry is the registry browsing surface the routes depend on.
type Registry interface {
	ListServers(ctx context.Context, limit int, cursor string) (registry.ListResponse, error)
	GetServer(ctx context.Context, id string) (registry.Server, error)
}

// RegisterRoutes registers all API routes on the provided Huma router.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(router huma.API, svc Service, reg Registry) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if svc == nil || reflect.ValueOf(svc).IsNil() {
		return "", fmt.Errorf("service cannot be nil")
	}
	if reg == nil || reflect.ValueOf(reg).IsNil() {
		return "", fmt.Errorf("registry cannot be nil")
	}

	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	v1 := huma.NewGroup(router, apiPathPrefix)
	RegisterHealthRoutes(v1, "/health")
	RegisterInstalledRoutes(v1, svc, "")
	RegisterRegistryRoutes(v1, svc, reg, "/registry")

	return apiPathPrefix, nil
}
