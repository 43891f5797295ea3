package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-hclog"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/files"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/perms"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/settings"
)

// lockTimeout is the maximum time to wait for the settings file lock.
const lockTimeout = 2 * time.Second

var _ Installer = (*SettingsInstaller)(nil)

// SettingsInstaller writes server entries straight into settings.json.
// Comments and formatting of the rest of the document are kept.
type SettingsInstaller struct {
	logger hclog.Logger
	path   string
}

// NewSettingsInstaller returns an installer that edits the settings file at path.
func NewSettingsInstaller(logger hclog.Logger, path string) (*SettingsInstaller, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("settings path cannot be empty")
	}

	return &SettingsInstaller{logger: logger.Named("editor"), path: path}, nil
}

// Install implements Installer. An entry with the same name is replaced.
func (s *SettingsInstaller) Install(ctx context.Context, cfg runtime.Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("server name cannot be empty")
	}

	return withFileLock(ctx, s.path, func() error {
		content, err := os.ReadFile(s.path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			content = []byte("{}")
		}

		// Standardized JSON is only used for lookups; edits are made to the original document.
		std, err := hujson.Standardize(append([]byte(nil), content...))
		if err != nil {
			return fmt.Errorf("failed to parse settings file: %w", err)
		}

		prefix := serversPointer(std)
		content, err = ensurePathExists(content, std, prefix)
		if err != nil {
			return err
		}

		v, err := hujson.Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse settings file: %w", err)
		}

		patch, err := addPatch(prefix+"/"+escapePointer(cfg.Name), cfg.Entry())
		if err != nil {
			return fmt.Errorf("failed to marshal server entry: %w", err)
		}

		if err := v.Patch(patch); err != nil {
			return fmt.Errorf("failed to patch settings file: %w", err)
		}

		formatted, err := hujson.Format(v.Pack())
		if err != nil {
			return fmt.Errorf("failed to format settings file: %w", err)
		}

		if err := files.EnsureAtLeastRegularDir(filepath.Dir(s.path)); err != nil {
			return err
		}

		if err := os.WriteFile(s.path, formatted, perms.SecureFile); err != nil {
			s.logger.Warn("Failed to write settings file", "path", s.path, "error", err)
			return fmt.Errorf("failed to write settings file: %w", err)
		}

		s.logger.Debug("Updated settings file", "path", s.path, "server", cfg.Name)
		return nil
	})
}

// serversPointer returns the JSON pointer of the servers object, honouring an existing flat "mcp.servers" key.
func serversPointer(std []byte) string {
	flat := strings.ReplaceAll(settings.FlatServersKey, ".", `\.`)
	if gjson.GetBytes(std, flat).IsObject() {
		return "/" + settings.FlatServersKey
	}
	return "/" + settings.SectionKey + "/" + settings.ServersKey
}

// ensurePathExists adds an empty object for every missing segment of pointer.
// gjson needs '.' in keys escaped; JSON pointers used by hujson do not.
func ensurePathExists(content []byte, std []byte, pointer string) ([]byte, error) {
	var patchPath, lookupPath string
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		patchPath += "/" + segment
		escaped := strings.ReplaceAll(segment, ".", `\.`)
		if lookupPath == "" {
			lookupPath = escaped
		} else {
			lookupPath += "." + escaped
		}

		if gjson.GetBytes(std, lookupPath).Exists() {
			continue
		}

		v, err := hujson.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
		patch, err := addPatch(patchPath, map[string]any{})
		if err != nil {
			return nil, fmt.Errorf("failed to create '%s' in settings file: %w", patchPath, err)
		}
		if err := v.Patch(patch); err != nil {
			return nil, fmt.Errorf("failed to create '%s' in settings file: %w", patchPath, err)
		}
		content = v.Pack()

		std, err = hujson.Standardize(append([]byte(nil), content...))
		if err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	return content, nil
}

// patchOp is a single RFC 6902 operation.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// addPatch encodes a JSON patch that adds value at pointer.
func addPatch(pointer string, value any) ([]byte, error) {
	return json.Marshal([]patchOp{{Op: "add", Path: pointer, Value: value}})
}

// escapePointer escapes a key for use as a JSON pointer segment.
func escapePointer(key string) string {
	return strings.ReplaceAll(strings.ReplaceAll(key, "~", "~0"), "/", "~1")
}

// withFileLock runs fn while holding a lock file next to path.
func withFileLock(ctx context.Context, path string, fn func() error) error {
	if err := files.EnsureAtLeastRegularDir(filepath.Dir(path)); err != nil {
		return err
	}

	fileLock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer func() { _ = fileLock.Unlock() }()

	return fn()
}
