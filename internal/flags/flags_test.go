package flags

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/files"
)

func TestFlags_InitConfigFile_EnvVars(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv(files.EnvVarXDGConfigHome, xdg)
	defaultPath := filepath.Join(xdg, files.AppDirName(), DefaultConfigFileName)

	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "env var value with extra white space",
			value:    "  /custom/path/config.toml  ",
			expected: "/custom/path/config.toml",
		},
		{
			name:     "env var empty string",
			value:    "",
			expected: defaultPath,
		},
		{
			name:     "env var only white space",
			value:    "   ",
			expected: defaultPath,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvVarConfigFile, tc.value)
			t.Cleanup(func() {
				ConfigFile = ""
			})

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			initConfigFile(fs)

			require.Equal(t, tc.expected, ConfigFile)
			flag := fs.Lookup(FlagNameConfigFile)
			require.NotNil(t, flag)
			require.Equal(t, tc.expected, flag.Value.String())
		})
	}
}

func TestFlags_InitLogger_EnvVars(t *testing.T) {
	t.Setenv(EnvVarLogPath, " /tmp/installer.log ")
	t.Setenv(EnvVarLogLevel, "DEBUG")
	t.Cleanup(func() {
		LogPath = ""
		LogLevel = ""
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	initLogger(fs)

	require.Equal(t, "/tmp/installer.log", LogPath)
	require.Equal(t, "debug", LogLevel)
}

func TestFlags_InitLogger_Defaults(t *testing.T) {
	t.Setenv(EnvVarLogPath, "")
	t.Setenv(EnvVarLogLevel, "")
	t.Cleanup(func() {
		LogPath = ""
		LogLevel = ""
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	initLogger(fs)

	require.Equal(t, DefaultLogPath, LogPath)
	require.Equal(t, DefaultLogLevel, LogLevel)
}

func TestFlags_Overrides(t *testing.T) {
	t.Cleanup(func() {
		RegistryURL = ""
		VSCodePath = ""
		SettingsFile = ""
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	initOverrides(fs)

	require.False(t, fs.Changed(FlagNameRegistryURL))

	err := fs.Parse([]string{
		"--registry-url", "http://localhost:8080",
		"--vscode-path", "/usr/local/bin/code-insiders",
		"--settings-file", "/tmp/settings.json",
	})
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8080", RegistryURL)
	require.Equal(t, "/usr/local/bin/code-insiders", VSCodePath)
	require.Equal(t, "/tmp/settings.json", SettingsFile)
	require.True(t, fs.Changed(FlagNameRegistryURL))
}
