package editor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

// DefaultVSCodePath is the editor executable looked up on PATH when none is configured.
const DefaultVSCodePath = "code"

var _ Installer = (*CLIInstaller)(nil)

// CLIInstaller runs '<code> --add-mcp <json>'.
type CLIInstaller struct {
	logger hclog.Logger
	path   string
}

// NewCLIInstaller returns an installer invoking the editor at path.
func NewCLIInstaller(logger hclog.Logger, path string) (*CLIInstaller, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultVSCodePath
	}

	return &CLIInstaller{logger: logger.Named("editor"), path: path}, nil
}

// Install implements Installer.
func (c *CLIInstaller) Install(ctx context.Context, cfg runtime.Config) error {
	payload, err := cfg.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode configuration for '%s': %w", cfg.Name, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, "--add-mcp", payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("Running editor", "path", c.path, "server", cfg.Name)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("'%s --add-mcp' failed for '%s': %w", c.path, cfg.Name, err)
		}
		return fmt.Errorf("'%s --add-mcp' failed for '%s': %w: %s", c.path, cfg.Name, err, msg)
	}

	if out := strings.TrimSpace(stdout.String()); out != "" {
		c.logger.Debug("Editor output", "server", cfg.Name, "output", out)
	}

	return nil
}
