// Package settings reads the MCP server entries registered in a VS Code settings document.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
)

const (
	// SectionKey is the top level settings key holding MCP configuration.
	SectionKey = "mcp"

	// ServersKey is the key under SectionKey that maps server keys to launch configurations.
	ServersKey = "servers"

	// FlatServersKey is the dotted form VS Code also accepts at the top level.
	FlatServersKey = SectionKey + "." + ServersKey
)

// Server is one installed MCP server entry, recomputed on every read.
type Server struct {
	Key     string            `json:"key" yaml:"key"`
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args" yaml:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

type serverEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// Document is a parsed settings file.
type Document struct {
	servers map[string]Server
}

// Locate returns the default VS Code user settings path for an operating system and home directory.
func Locate(goos string, home string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Code", "User", "settings.json")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Code", "User", "settings.json")
	default:
		return filepath.Join(home, ".config", "Code", "User", "settings.json")
	}
}

// Load reads and parses the settings file at path.
// A missing or empty file yields an empty document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{servers: map[string]Server{}}, nil
		}
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Parse reads a settings document, tolerating comments and trailing commas.
// Servers may be nested under "mcp": {"servers": ...} or stored under the flat "mcp.servers" key;
// when both are present the flat key wins for duplicate server keys.
func Parse(data []byte) (*Document, error) {
	doc := &Document{servers: map[string]Server{}}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}

	std, err := hujson.Standardize(append([]byte(nil), data...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSettingsParse, err)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(std, &root); err != nil {
		return nil, fmt.Errorf("%w: settings must be a JSON object: %w", errors.ErrSettingsParse, err)
	}

	if raw, ok := root[SectionKey]; ok {
		var section map[string]json.RawMessage
		if err := json.Unmarshal(raw, &section); err != nil {
			return nil, fmt.Errorf("%w: '%s' must be an object: %w", errors.ErrSettingsParse, SectionKey, err)
		}
		if err := doc.addServers(section[ServersKey]); err != nil {
			return nil, err
		}
	}

	if err := doc.addServers(root[FlatServersKey]); err != nil {
		return nil, err
	}

	return doc, nil
}

func (d *Document) addServers(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var entries map[string]serverEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("%w: invalid MCP server entries: %w", errors.ErrSettingsParse, err)
	}

	for key, e := range entries {
		args := e.Args
		if args == nil {
			args = []string{}
		}
		d.servers[key] = Server{Key: key, Command: e.Command, Args: args, Env: e.Env}
	}

	return nil
}

// Servers returns the installed server entries sorted by key.
func (d *Document) Servers() []Server {
	out := make([]Server, 0, len(d.servers))
	for _, s := range d.servers {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Server) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// Server returns the entry registered under key.
func (d *Document) Server(key string) (Server, bool) {
	s, ok := d.servers[key]
	return s, ok
}

// Len returns the number of installed servers.
func (d *Document) Len() int {
	return len(d.servers)
}
