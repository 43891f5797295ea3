// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to HTTP status codes at the API boundary,
// and to process exit codes by the CLI.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBadRequest indicates that the caller provided invalid input.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrRegistryUnavailable indicates the registry could not be reached or answered with a non-success status.
	// It is fatal to any resolution that depends on the failed call.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrServerNotFound indicates that a single identifier did not match any registry entry.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrUnresolvedIdentifiers indicates that one or more required identifiers have no matching registry entry.
	// The concrete error is UnresolvedIdentifiersError which carries the list of identifiers.
	// Recommended to map to HTTP 422 Unprocessable Entity.
	ErrUnresolvedIdentifiers = errors.New("unresolved identifiers")

	// ErrNoUsablePackage indicates that a registry entry declares no packages, so no runtime configuration
	// can be synthesized for it.
	// Recommended to map to HTTP 422 Unprocessable Entity.
	ErrNoUsablePackage = errors.New("no usable package")

	// ErrSettingsParse indicates that the editor settings document is malformed.
	// Recommended to map to HTTP 500 Internal Server Error.
	ErrSettingsParse = errors.New("settings parse error")

	// ErrDeclarationInvalid indicates the declaration file (mcp.yml) could not be read or failed its field checks.
	// Recommended to map to HTTP 400 Bad Request.
	ErrDeclarationInvalid = errors.New("declaration file invalid")

	// ErrMissingServers indicates reconciliation found required servers that are not installed.
	// The CLI maps this to exit code 1.
	ErrMissingServers = errors.New("required servers are missing")
)

// UnresolvedIdentifiersError reports every identifier that could not be resolved in a batch.
type UnresolvedIdentifiersError struct {
	Missing []string
}

func (e *UnresolvedIdentifiersError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("server not found in registry: %s", e.Missing[0])
	}

	return fmt.Sprintf("multiple servers not found in registry: %s", strings.Join(e.Missing, ", "))
}

// Is allows errors.Is(err, ErrUnresolvedIdentifiers) to match.
func (e *UnresolvedIdentifiersError) Is(target error) bool {
	return target == ErrUnresolvedIdentifiers
}

// AmbiguousIdentifierError is returned when a single identifier matches more than one registry entry.
type AmbiguousIdentifierError struct {
	Identifier string
	Candidates []Candidate
}

// Candidate is one of the entries an ambiguous identifier matched.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (e *AmbiguousIdentifierError) Error() string {
	return fmt.Sprintf("multiple servers found matching '%s' (%d candidates)", e.Identifier, len(e.Candidates))
}

// Is allows errors.Is(err, ErrBadRequest) to match, since the caller must be more specific.
func (e *AmbiguousIdentifierError) Is(target error) bool {
	return target == ErrBadRequest
}
