package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Body struct {
		Status string `doc:"Always 'ok' while the server is accepting requests" example:"ok" json:"status"`
	}
}

// RegisterHealthRoutes sets up the liveness endpoint.
func RegisterHealthRoutes(routerAPI huma.API, path string) {
	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getHealth",
			Method:      http.MethodGet,
			Path:        path,
			Summary:     "Report that the server is up",
			Tags:        []string{"Health"},
		},
		func(context.Context, *struct{}) (*HealthResponse, error) {
			resp := &HealthResponse{}
			resp.Body.Status = "ok"
			return resp, nil
		},
	)
}
