// Package declaration reads and writes the mcp.yml file listing the MCP servers a project requires.
package declaration

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/files"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/perms"
)

const (
	// DefaultFileName is the declaration file searched for when no path is given.
	DefaultFileName = "mcp.yml"

	// CurrentVersion is written to newly created declaration files.
	CurrentVersion = "1.0"
)

// schema only checks that the fields the installer reads are present and well typed.
const schema = `{
	"type": "object",
	"required": ["servers"],
	"properties": {
		"version": {"type": ["string", "number"]},
		"servers": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		}
	}
}`

// Declaration is the content of a declaration file.
type Declaration struct {
	Version string   `yaml:"version,omitempty"`
	Servers []string `yaml:"servers"`
}

// Find looks for a file called name in startDir and its parents.
func Find(startDir string, name string) (string, error) {
	if name == "" {
		name = DefaultFileName
	}

	path, ok := files.FindUp(startDir, name)
	if !ok {
		return "", fmt.Errorf("%w: no %s found in '%s' or any parent directory", errors.ErrDeclarationInvalid, name, startDir)
	}

	return path, nil
}

// Load reads and checks the declaration file at path.
func Load(path string) (Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Declaration{}, fmt.Errorf("%w: failed to read '%s': %w", errors.ErrDeclarationInvalid, path, err)
	}

	d, err := Parse(data)
	if err != nil {
		return Declaration{}, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// Parse decodes a declaration document and checks its fields.
func Parse(data []byte) (Declaration, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Declaration{}, fmt.Errorf("%w: failed to parse YAML: %w", errors.ErrDeclarationInvalid, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := validate(doc); err != nil {
		return Declaration{}, err
	}

	var d Declaration
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Declaration{}, fmt.Errorf("%w: %w", errors.ErrDeclarationInvalid, err)
	}

	servers := make([]string, 0, len(d.Servers))
	for _, s := range d.Servers {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	d.Servers = servers

	return d, nil
}

func validate(doc any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrDeclarationInvalid, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}

	return fmt.Errorf("%w: %s", errors.ErrDeclarationInvalid, strings.Join(problems, "; "))
}

// Init writes a new declaration file listing servers. An existing file is never overwritten.
func Init(path string, servers []string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("declaration file already exists: %s", path)
	}

	if err := files.EnsureAtLeastRegularDir(filepath.Dir(path)); err != nil {
		return err
	}

	d := Declaration{Version: CurrentVersion, Servers: servers}
	if d.Servers == nil {
		d.Servers = []string{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode declaration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode declaration: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perms.RegularFile)
	if err != nil {
		return fmt.Errorf("failed to create declaration file '%s': %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write declaration file '%s': %w", path, err)
	}

	return nil
}
