package flags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/files"
)

const (
	// Env vars
	EnvVarConfigFile = "MCP_INSTALLER_CONFIG_FILE"
	EnvVarLogPath    = "MCP_INSTALLER_LOG_PATH"
	EnvVarLogLevel   = "MCP_INSTALLER_LOG_LEVEL"

	// Defaults
	DefaultConfigFileName = "config.toml"
	DefaultLogPath        = ""
	DefaultLogLevel       = "info"

	// Flag names
	FlagNameConfigFile   = "config-file"
	FlagNameLogPath      = "log-path"
	FlagNameLogLevel     = "log-level"
	FlagNameRegistryURL  = "registry-url"
	FlagNameVSCodePath   = "vscode-path"
	FlagNameSettingsFile = "settings-file"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string

	// RegistryURL, VSCodePath and SettingsFile have no env fallback here,
	// they are only applied over the loaded config when explicitly set.
	RegistryURL  string
	VSCodePath   string
	SettingsFile string
)

func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
	initOverrides(fs)
}

// DefaultConfigFile returns the path of the tool config file in the user's config directory.
// An empty string is returned when that directory cannot be determined.
func DefaultConfigFile() string {
	dir, err := files.UserSpecificConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, DefaultConfigFileName)
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile()
		}
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to the TOML config file")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level (trace, debug, info, warn, error, off)")
}

func initOverrides(fs *pflag.FlagSet) {
	fs.StringVar(&RegistryURL, FlagNameRegistryURL, RegistryURL, "base URL of the MCP registry")
	fs.StringVar(&VSCodePath, FlagNameVSCodePath, VSCodePath, "path to the VS Code executable")
	fs.StringVar(&SettingsFile, FlagNameSettingsFile, SettingsFile, "path to the VS Code settings.json")
}
