package daemon

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/api"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "127.0.0.1:8090").
	Addr string

	Logger   hclog.Logger
	Service  api.Service
	Registry api.Registry

	// MCP serves the streamable HTTP MCP transport.
	MCP http.Handler
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	svc api.Service,
	reg api.Registry,
	mcp http.Handler,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:     addr,
		Logger:   logger,
		Service:  svc,
		Registry: reg,
		MCP:      mcp,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if isNil(d.Logger) {
		return fmt.Errorf("logger cannot be nil")
	}
	if isNil(d.Service) {
		return fmt.Errorf("service cannot be nil")
	}
	if isNil(d.Registry) {
		return fmt.Errorf("registry cannot be nil")
	}
	if isNil(d.MCP) {
		return fmt.Errorf("MCP handler cannot be nil")
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
