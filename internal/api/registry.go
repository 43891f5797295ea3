package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
)

// RegistryListRequest is the request for GET /registry/servers.
type RegistryListRequest struct {
	Limit  int    `default:"30" doc:"Page size" maximum:"100" minimum:"1" query:"limit"`
	Cursor string `doc:"Cursor returned by a previous page" query:"cursor"`
}

// RegistryListResponse is the response for GET /registry/servers.
type RegistryListResponse struct {
	Body registry.ListResponse
}

// RegistryServerRequest is the request for GET /registry/servers/{id}.
type RegistryServerRequest struct {
	ID string `doc:"Registry id of the server" path:"id"`
}

// RegistryServerResponse is the response for GET /registry/servers/{id}.
type RegistryServerResponse struct {
	Body registry.Server
}

// ResolveRequest is the request for POST /registry/resolve.
type ResolveRequest struct {
	Body struct {
		Identifiers []string `doc:"Registry ids or names" json:"identifiers" minItems:"1"`
	}
}

// ResolveResponse is the response for POST /registry/resolve.
type ResolveResponse struct {
	Body struct {
		Resolutions []service.Resolution `doc:"One entry per distinct identifier, in request order" json:"resolutions"`
	}
}

// RegisterRegistryRoutes sets up the registry browsing and resolution routes.
func RegisterRegistryRoutes(routerAPI huma.API, svc Service, reg Registry, apiPathPrefix string) {
	group := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Registry"}

	huma.Register(
		group,
		huma.Operation{
			OperationID: "listRegistryServers",
			Method:      http.MethodGet,
			Path:        "/servers",
			Summary:     "List one page of registry servers",
			Tags:        tags,
		},
		func(ctx context.Context, input *RegistryListRequest) (*RegistryListResponse, error) {
			return handleRegistryList(ctx, reg, input.Limit, input.Cursor)
		},
	)

	huma.Register(
		group,
		huma.Operation{
			OperationID: "getRegistryServer",
			Method:      http.MethodGet,
			Path:        "/servers/{id}",
			Summary:     "Get the full registry entry of a server",
			Tags:        tags,
		},
		func(ctx context.Context, input *RegistryServerRequest) (*RegistryServerResponse, error) {
			return handleRegistryServer(ctx, reg, input.ID)
		},
	)

	huma.Register(
		group,
		huma.Operation{
			OperationID: "resolveRegistryServers",
			Method:      http.MethodPost,
			Path:        "/resolve",
			Summary:     "Resolve identifiers to registry entries",
			Tags:        tags,
		},
		func(ctx context.Context, input *ResolveRequest) (*ResolveResponse, error) {
			return handleResolve(ctx, svc, input.Body.Identifiers)
		},
	)
}

func handleRegistryList(ctx context.Context, reg Registry, limit int, cursor string) (*RegistryListResponse, error) {
	page, err := reg.ListServers(ctx, limit, cursor)
	if err != nil {
		return nil, err
	}

	return &RegistryListResponse{Body: page}, nil
}

func handleRegistryServer(ctx context.Context, reg Registry, id string) (*RegistryServerResponse, error) {
	srv, err := reg.GetServer(ctx, id)
	if err != nil {
		return nil, err
	}

	return &RegistryServerResponse{Body: srv}, nil
}

func handleResolve(ctx context.Context, svc Service, identifiers []string) (*ResolveResponse, error) {
	res, err := svc.Resolve(ctx, identifiers)
	if err != nil {
		return nil, err
	}

	resp := &ResolveResponse{}
	resp.Body.Resolutions = res
	return resp, nil
}
