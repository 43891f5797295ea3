// Package editor registers MCP servers with VS Code.
//
// Two installers are provided: CLIInstaller hands the configuration to the editor's command line,
// SettingsInstaller edits settings.json directly. Both take a synthesized runtime.Config whose
// environment values have already been filled in.
package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

// Method selects how servers are installed.
type Method string

const (
	// MethodCLI installs by running the editor executable with --add-mcp.
	MethodCLI Method = "cli"

	// MethodSettings installs by editing the settings file in place.
	MethodSettings Method = "settings"
)

// Installer registers one server configuration with the editor.
type Installer interface {
	Install(ctx context.Context, cfg runtime.Config) error
}

// ParseMethod converts a configuration value into a Method. An empty value selects MethodCLI.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodCLI:
		return MethodCLI, nil
	case MethodSettings:
		return MethodSettings, nil
	default:
		return "", fmt.Errorf("unknown install method '%s' (allowed: %s, %s)", s, MethodCLI, MethodSettings)
	}
}

// New returns the installer for method.
func New(logger hclog.Logger, method Method, vscodePath string, settingsPath string) (Installer, error) {
	switch method {
	case MethodCLI, "":
		return NewCLIInstaller(logger, vscodePath)
	case MethodSettings:
		return NewSettingsInstaller(logger, settingsPath)
	default:
		return nil, fmt.Errorf("unknown install method '%s'", method)
	}
}
