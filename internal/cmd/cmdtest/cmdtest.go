// Package cmdtest provides in-memory collaborators for exercising commands without a registry or an editor.
package cmdtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	cmdopts "github.com/danielmeppiel/vscode-mcp-installer/internal/cmd/options"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/config"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/editor"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

var _ config.Loader = Loader{}

// Loader returns Config for every path.
type Loader struct {
	Config config.Config
}

func (l Loader) Load(string) (config.Config, error) {
	return l.Config, nil
}

var (
	_ cmd.RegistryClient  = (*Registry)(nil)
	_ cmd.RegistryBuilder = (*Registry)(nil)
)

// Registry serves Servers from memory. When Err is set every call fails with it.
type Registry struct {
	Servers []registry.Server
	Err     error
}

func (r *Registry) BuildRegistry(hclog.Logger, config.Config) (cmd.RegistryClient, error) {
	return r, nil
}

// ListServers pages through Servers; the cursor is the offset of the next page.
func (r *Registry) ListServers(_ context.Context, limit int, cursor string) (registry.ListResponse, error) {
	if r.Err != nil {
		return registry.ListResponse{}, r.Err
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return registry.ListResponse{}, fmt.Errorf("%w: bad cursor '%s'", errors.ErrBadRequest, cursor)
		}
		start = n
	}
	start = min(start, len(r.Servers))
	end := min(start+limit, len(r.Servers))

	resp := registry.ListResponse{
		Servers:  r.Servers[start:end],
		Metadata: registry.ListMetadata{Count: end - start},
	}
	if end < len(r.Servers) {
		resp.Metadata.NextCursor = strconv.Itoa(end)
	}

	return resp, nil
}

func (r *Registry) GetServer(_ context.Context, id string) (registry.Server, error) {
	if r.Err != nil {
		return registry.Server{}, r.Err
	}

	for _, s := range r.Servers {
		if s.ID == id {
			return s, nil
		}
	}

	return registry.Server{}, fmt.Errorf("%w: %w: %s", errors.ErrRegistryUnavailable, errors.ErrServerNotFound, id)
}

func (r *Registry) Search(_ context.Context, query string) ([]registry.Server, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return registry.SearchServers(r.Servers, query), nil
}

func (r *Registry) Lookup(ctx context.Context, identifier string, byID bool) (registry.Server, error) {
	if byID {
		return r.GetServer(ctx, identifier)
	}

	matches, err := r.Search(ctx, identifier)
	if err != nil {
		return registry.Server{}, err
	}

	switch len(matches) {
	case 0:
		return registry.Server{}, fmt.Errorf("%w: no server matching '%s'", errors.ErrServerNotFound, identifier)
	case 1:
		return matches[0], nil
	}

	candidates := make([]errors.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, errors.Candidate{ID: m.ID, Name: m.Name})
	}
	return registry.Server{}, &errors.AmbiguousIdentifierError{Identifier: identifier, Candidates: candidates}
}

var (
	_ editor.Installer  = (*Editor)(nil)
	_ cmd.EditorBuilder = (*Editor)(nil)
)

// Editor records installed configurations. Configurations named in FailFor are rejected.
type Editor struct {
	mu        sync.Mutex
	Installed []runtime.Config
	FailFor   map[string]bool
}

func (e *Editor) BuildEditor(hclog.Logger, config.Config, string) (editor.Installer, error) {
	return e, nil
}

func (e *Editor) Install(_ context.Context, cfg runtime.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.FailFor[cfg.Name] {
		return fmt.Errorf("editor rejected '%s'", cfg.Name)
	}
	e.Installed = append(e.Installed, cfg)
	return nil
}

// WriteSettings writes content to a settings.json in a temporary directory and returns its path.
func WriteSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	return path
}

// Options returns command options wired to reg and ed, reading settingsPath, never prompting.
func Options(settingsPath string, reg *Registry, ed *Editor) []cmdopts.CmdOption {
	cfg := config.Default()
	cfg.SettingsPath = settingsPath

	opts := []cmdopts.CmdOption{
		cmdopts.WithConfigLoader(Loader{Config: cfg}),
		cmdopts.WithLookupEnv(func(string) (string, bool) { return "", false }),
		cmdopts.WithRegistryBuilder(reg),
		cmdopts.WithPrompter(prompt.Defaults{Answer: true}),
		cmdopts.WithProgress(progress.Nop{}),
	}
	if ed != nil {
		opts = append(opts, cmdopts.WithEditorBuilder(ed))
	}

	return opts
}

// Servers returns a small registry: a docker based GitHub server and an npm based Redis server.
func Servers() []registry.Server {
	return []registry.Server{
		{
			ID:          "gh-1",
			Name:        "io.github.github/github-mcp-server",
			Description: "GitHub's official MCP server",
			Packages: []registry.Package{{
				RegistryName: registry.EcosystemDocker,
				Name:         "ghcr.io/github/github-mcp-server",
				EnvironmentVariables: []registry.EnvironmentVariable{
					{Name: "GITHUB_PERSONAL_ACCESS_TOKEN", Description: "GitHub token"},
				},
			}},
		},
		{
			ID:          "redis-1",
			Name:        "io.github.redis/mcp-redis",
			Description: "Natural language interface for Redis",
			Packages: []registry.Package{{
				RegistryName: registry.EcosystemNPM,
				Name:         "@redis/mcp-redis",
			}},
		},
	}
}

// GitHubSettings is a settings document with the GitHub server installed through docker.
const GitHubSettings = `{
	// editor settings
	"editor.fontSize": 14,
	"mcp": {
		"servers": {
			"github": {
				"command": "docker",
				"args": ["run", "-i", "--rm", "-e", "GITHUB_PERSONAL_ACCESS_TOKEN", "ghcr.io/github/github-mcp-server"],
				"env": {"GITHUB_PERSONAL_ACCESS_TOKEN": "secret"},
			},
		},
	},
}`
