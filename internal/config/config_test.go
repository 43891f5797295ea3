package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/editor"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDefaultLoader_Load_MissingFile(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}
	cfg, err := loader.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestDefaultLoader_Load_EmptyPath(t *testing.T) {
	t.Parallel()

	cfg, err := (&DefaultLoader{}).Load("  ")
	require.NoError(t, err)
	require.Equal(t, registry.DefaultURL, cfg.RegistryURL)
	require.Equal(t, registry.MaxListLimit, cfg.PageSize)
}

func TestDefaultLoader_Load_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
registry_url = "http://localhost:9000"
vscode_path = "code-insiders"
settings_path = "/tmp/settings.json"
page_size = 50
install_method = "settings"
request_timeout = "5s"
`)

	cfg, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		RegistryURL:    "http://localhost:9000",
		VSCodePath:     "code-insiders",
		SettingsPath:   "/tmp/settings.json",
		PageSize:       50,
		InstallMethod:  editor.MethodSettings,
		RequestTimeout: Duration(5 * time.Second),
	}, cfg)
}

func TestDefaultLoader_Load_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `page_size = 10`)

	cfg, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, registry.DefaultURL, cfg.RegistryURL)
	require.Equal(t, editor.MethodCLI, cfg.InstallMethod)
}

func TestDefaultLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "malformed toml",
			content: `registry_url = `,
			errMsg:  "failed to decode",
		},
		{
			name:    "unknown key",
			content: `registry = "x"`,
			errMsg:  "unknown key 'registry'",
		},
		{
			name:    "page size out of range",
			content: `page_size = 500`,
			errMsg:  "page_size",
		},
		{
			name:    "bad install method",
			content: `install_method = "carrier-pigeon"`,
			errMsg:  "install_method",
		},
		{
			name:    "bad registry url",
			content: `registry_url = "ftp://example.com"`,
			errMsg:  "registry_url",
		},
		{
			name:    "bad duration",
			content: `request_timeout = "soon"`,
			errMsg:  "failed to decode",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := (&DefaultLoader{}).Load(writeConfig(t, tc.content))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrConfigLoadFailed)
			require.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestConfig_Precedence(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvVarRegistryURL: "http://from-env",
		EnvVarVSCodePath:  "  ",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default().WithEnv(lookup)
	require.Equal(t, "http://from-env", cfg.RegistryURL)
	require.Equal(t, editor.DefaultVSCodePath, cfg.VSCodePath, "blank env values are ignored")
	require.Empty(t, cfg.SettingsPath)

	cfg = cfg.WithOverrides(Overrides{RegistryURL: "http://from-flag", SettingsPath: "/s.json"})
	require.Equal(t, "http://from-flag", cfg.RegistryURL)
	require.Equal(t, "/s.json", cfg.SettingsPath)
	require.Equal(t, editor.DefaultVSCodePath, cfg.VSCodePath)
}

func TestConfig_WithEnv_NilLookup(t *testing.T) {
	t.Parallel()

	require.Equal(t, Default(), Default().WithEnv(nil))
}

func TestDuration_String(t *testing.T) {
	t.Parallel()

	tests := map[time.Duration]string{
		0:                       "0s",
		30 * time.Second:        "30s",
		2 * time.Minute:         "2m",
		1500 * time.Millisecond: "1500ms",
		time.Hour:               "1h",
	}

	for in, want := range tests {
		require.Equal(t, want, Duration(in).String())
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	require.Equal(t, Duration(90*time.Second), d)

	require.Error(t, d.UnmarshalText([]byte("ninety")))
}
