// Package config holds the tool configuration: where the registry lives, how to reach the editor,
// and how servers get installed.
//
// Values are layered once at the command boundary, lowest precedence first:
// built-in defaults, the TOML config file, environment variables, then command line flags.
// The resulting Config is passed into constructors; nothing below the command layer reads the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/editor"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

const (
	EnvVarRegistryURL  = "MCP_REGISTRY_URL"
	EnvVarVSCodePath   = "MCP_VSCODE_PATH"
	EnvVarSettingsPath = "MCP_SETTINGS_PATH"
)

// Config is the resolved tool configuration.
type Config struct {
	RegistryURL string `toml:"registry_url"`
	VSCodePath  string `toml:"vscode_path"`

	// SettingsPath is the editor settings file. Empty means the per-OS default location.
	SettingsPath string `toml:"settings_path"`

	// PageSize is the number of registry entries fetched for batch resolution.
	PageSize int `toml:"page_size"`

	InstallMethod  editor.Method `toml:"install_method"`
	RequestTimeout Duration      `toml:"request_timeout"`
}

// Overrides carries explicitly set command line values. Empty fields are ignored.
type Overrides struct {
	RegistryURL  string
	VSCodePath   string
	SettingsPath string
}

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// Loader loads configuration from a file path.
type Loader interface {
	Load(path string) (Config, error)
}

// DefaultLoader loads the TOML config file, treating a missing file as empty.
type DefaultLoader struct{}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RegistryURL:    registry.DefaultURL,
		VSCodePath:     editor.DefaultVSCodePath,
		PageSize:       registry.MaxListLimit,
		InstallMethod:  editor.MethodCLI,
		RequestTimeout: Duration(registry.DefaultTimeout),
	}
}

// Load reads path over the defaults and validates the result.
// An empty path or a file that does not exist yields the defaults.
func (d *DefaultLoader) Load(path string) (Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key '%s' in %s", ErrConfigLoadFailed, undecoded[0], path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigLoadFailed, path, err)
	}

	return cfg, nil
}

// WithEnv returns a copy of c with values taken from the environment variables that are set and non-blank.
func (c Config) WithEnv(lookup LookupEnvFunc) Config {
	if lookup == nil {
		return c
	}

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvVarRegistryURL); ok {
		c.RegistryURL = v
	}
	if v, ok := get(EnvVarVSCodePath); ok {
		c.VSCodePath = v
	}
	if v, ok := get(EnvVarSettingsPath); ok {
		c.SettingsPath = v
	}

	return c
}

// WithOverrides returns a copy of c with every non-empty override applied.
func (c Config) WithOverrides(o Overrides) Config {
	if v := strings.TrimSpace(o.RegistryURL); v != "" {
		c.RegistryURL = v
	}
	if v := strings.TrimSpace(o.VSCodePath); v != "" {
		c.VSCodePath = v
	}
	if v := strings.TrimSpace(o.SettingsPath); v != "" {
		c.SettingsPath = v
	}

	return c
}

// Validate checks the values that have a constrained domain.
func (c Config) Validate() error {
	if _, err := registry.NewOptions(registry.WithBaseURL(c.RegistryURL)); err != nil {
		return NewErrInvalidValue("registry_url", c.RegistryURL)
	}

	if strings.TrimSpace(c.VSCodePath) == "" {
		return NewErrInvalidValue("vscode_path", c.VSCodePath)
	}

	if c.PageSize < 1 || c.PageSize > registry.MaxListLimit {
		return NewErrInvalidValue("page_size", fmt.Sprintf("%d", c.PageSize))
	}

	if _, err := editor.ParseMethod(string(c.InstallMethod)); err != nil {
		return NewErrInvalidValue("install_method", string(c.InstallMethod))
	}

	if c.RequestTimeout <= 0 {
		return NewErrInvalidValue("request_timeout", c.RequestTimeout.String())
	}

	return nil
}

// Duration is a time.Duration that can be decoded from TOML strings such as "30s".
type Duration time.Duration

// String returns the shortest exact representation, e.g. "30s" or "1500ms".
func (d Duration) String() string {
	duration := time.Duration(d)
	if duration == 0 {
		return "0s"
	}

	units := []struct {
		unit   time.Duration
		suffix string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
		{time.Millisecond, "ms"},
	}

	for _, u := range units {
		if duration%u.unit == 0 {
			return fmt.Sprintf("%d%s", duration/u.unit, u.suffix)
		}
	}

	return duration.String()
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
