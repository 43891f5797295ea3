package registry

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/filter"
)

// Lister lists one page of registry entries.
type Lister interface {
	ListServers(ctx context.Context, limit int, cursor string) (ListResponse, error)
}

// Getter fetches the full record of a single registry entry.
type Getter interface {
	GetServer(ctx context.Context, id string) (Server, error)
}

// Source is the registry surface needed for identifier resolution.
type Source interface {
	Lister
	Getter
}

var _ Source = (*Client)(nil)

// Client talks to the registry HTTP API.
type Client struct {
	logger     hclog.Logger
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a registry client configured with the supplied options.
func NewClient(logger hclog.Logger, opt ...Option) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Client{
		logger:     logger.Named("registry"),
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
	}, nil
}

// BaseURL returns the registry base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListServers returns one page of registry entries.
// The limit is clamped to the range the registry accepts; an empty cursor requests the first page.
func (c *Client) ListServers(ctx context.Context, limit int, cursor string) (ListResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(limit)))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var resp ListResponse
	if err := c.get(ctx, "/v0/servers?"+q.Encode(), &resp); err != nil {
		return ListResponse{}, err
	}

	if resp.Servers == nil {
		resp.Servers = []Server{}
	}
	for i := range resp.Servers {
		resp.Servers[i].normalize()
	}

	c.logger.Debug("Listed servers", "count", len(resp.Servers), "next_cursor", resp.Metadata.NextCursor)

	return resp, nil
}

// GetServer fetches the full record of the entry with the given id.
// A 404 from the registry is reported as errors.ErrServerNotFound.
func (c *Client) GetServer(ctx context.Context, id string) (Server, error) {
	if id == "" {
		return Server{}, fmt.Errorf("%w: server id is required", errors.ErrBadRequest)
	}

	var s Server
	if err := c.get(ctx, "/v0/servers/"+url.PathEscape(id), &s); err != nil {
		return Server{}, err
	}
	s.normalize()

	return s, nil
}

// Search returns entries from the first page of the registry whose name equals the query,
// or whose description contains it, ignoring case.
func (c *Client) Search(ctx context.Context, query string) ([]Server, error) {
	if filter.NormalizeString(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", errors.ErrBadRequest)
	}

	resp, err := c.ListServers(ctx, MaxListLimit, "")
	if err != nil {
		return nil, err
	}

	return SearchServers(resp.Servers, query), nil
}

// Lookup finds the single entry the user means by identifier.
// When byID is set the identifier is treated as a registry id, otherwise it is searched for.
// Zero matches yield errors.ErrServerNotFound, several yield an *errors.AmbiguousIdentifierError.
func (c *Client) Lookup(ctx context.Context, identifier string, byID bool) (Server, error) {
	if byID {
		return c.GetServer(ctx, identifier)
	}

	matches, err := c.Search(ctx, identifier)
	if err != nil {
		return Server{}, err
	}

	switch len(matches) {
	case 0:
		return Server{}, fmt.Errorf("%w: no server matching '%s'", errors.ErrServerNotFound, identifier)
	case 1:
		return c.GetServer(ctx, matches[0].ID)
	}

	// A unique case-insensitive match on the full or friendly name is preferred over description hits.
	exact := filter.Filter(matches, identifier, filter.EqualsAny(func(s Server) []string {
		return []string{s.Name, s.FriendlyName()}
	}))
	if len(exact) == 1 {
		return c.GetServer(ctx, exact[0].ID)
	}

	candidates := make([]errors.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, errors.Candidate{ID: m.ID, Name: m.Name})
	}

	return Server{}, &errors.AmbiguousIdentifierError{Identifier: identifier, Candidates: candidates}
}

// SearchServers filters servers by exact name or description substring, ignoring case.
func SearchServers(servers []Server, query string) []Server {
	predicate := filter.Or(
		filter.Equals(func(s Server) string { return s.Name }),
		filter.Partial(func(s Server) string { return s.Description }),
	)

	return filter.Filter(servers, query, predicate)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request for '%s': %w", errors.ErrRegistryUnavailable, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Trace("Calling registry", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request to '%s' failed: %w", errors.ErrRegistryUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w: '%s'", errors.ErrRegistryUnavailable, errors.ErrServerNotFound, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf(
			"%w: received non-OK HTTP status from '%s': %d %s",
			errors.ErrRegistryUnavailable,
			endpoint,
			resp.StatusCode,
			string(body),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !stdErrors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to decode response from '%s': %w", errors.ErrRegistryUnavailable, endpoint, err)
	}

	return nil
}
