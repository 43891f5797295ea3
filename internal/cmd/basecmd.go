package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/config"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/editor"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/flags"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/perms"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/service"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/settings"
)

// RegistryClient is everything the commands need from the registry.
type RegistryClient interface {
	registry.Source
	Search(ctx context.Context, query string) ([]registry.Server, error)
	Lookup(ctx context.Context, identifier string, byID bool) (registry.Server, error)
}

// RegistryBuilder creates the registry client for a configuration.
type RegistryBuilder interface {
	BuildRegistry(logger hclog.Logger, cfg config.Config) (RegistryClient, error)
}

// EditorBuilder creates the editor installer for a configuration.
type EditorBuilder interface {
	BuildEditor(logger hclog.Logger, cfg config.Config, settingsPath string) (editor.Installer, error)
}

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, logging disabled\n", logPath, err)
		} else {
			output = f
		}
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "mcp-installer-default",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}

// Config loads the config file named by --config-file and layers the environment and the
// --registry-url, --vscode-path and --settings-file flags on top.
func (c *BaseCmd) Config(loader config.Loader, lookup config.LookupEnvFunc) (config.Config, error) {
	if loader == nil {
		return config.Config{}, fmt.Errorf("config loader cannot be nil")
	}

	cfg, err := loader.Load(flags.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}

	cfg = cfg.WithEnv(lookup).WithOverrides(config.Overrides{
		RegistryURL:  flags.RegistryURL,
		VSCodePath:   flags.VSCodePath,
		SettingsPath: flags.SettingsFile,
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	c.Logger().Debug(
		"Resolved configuration",
		"registry_url", cfg.RegistryURL,
		"install_method", cfg.InstallMethod,
		"page_size", cfg.PageSize,
	)

	return cfg, nil
}

// SettingsPath returns the configured settings file, or the editor's default location for this OS.
func (c *BaseCmd) SettingsPath(cfg config.Config) (string, error) {
	if p := strings.TrimSpace(cfg.SettingsPath); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return settings.Locate(goruntime.GOOS, home), nil
}

// Service builds the shared service over the given registry.
func (c *BaseCmd) Service(cfg config.Config, settingsPath string, source registry.Source) (*service.Service, error) {
	resolver, err := registry.NewResolver(c.Logger(), source, cfg.PageSize)
	if err != nil {
		return nil, err
	}

	return service.New(c.Logger(), settingsPath, resolver)
}

// Session is what most commands need once configuration has been resolved.
type Session struct {
	Config       config.Config
	SettingsPath string
	Registry     RegistryClient
	Service      *service.Service
}

// Session resolves the configuration and builds the registry client and service from it.
func (c *BaseCmd) Session(loader config.Loader, lookup config.LookupEnvFunc, builder RegistryBuilder) (*Session, error) {
	if builder == nil {
		return nil, fmt.Errorf("registry builder cannot be nil")
	}

	cfg, err := c.Config(loader, lookup)
	if err != nil {
		return nil, err
	}

	settingsPath, err := c.SettingsPath(cfg)
	if err != nil {
		return nil, err
	}

	reg, err := builder.BuildRegistry(c.Logger(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry client: %w", err)
	}

	svc, err := c.Service(cfg, settingsPath, reg)
	if err != nil {
		return nil, err
	}

	return &Session{
		Config:       cfg,
		SettingsPath: settingsPath,
		Registry:     reg,
		Service:      svc,
	}, nil
}

// DefaultBuilder creates the real registry client and editor installers.
type DefaultBuilder struct{}

var (
	_ RegistryBuilder = DefaultBuilder{}
	_ EditorBuilder   = DefaultBuilder{}
)

// BuildRegistry implements RegistryBuilder.
func (DefaultBuilder) BuildRegistry(logger hclog.Logger, cfg config.Config) (RegistryClient, error) {
	client, err := registry.NewClient(
		logger,
		registry.WithBaseURL(cfg.RegistryURL),
		registry.WithTimeout(cfg.RequestTimeout.Duration()),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// BuildEditor implements EditorBuilder.
func (DefaultBuilder) BuildEditor(logger hclog.Logger, cfg config.Config, settingsPath string) (editor.Installer, error) {
	method, err := editor.ParseMethod(string(cfg.InstallMethod))
	if err != nil {
		return nil, err
	}

	return editor.New(logger, method, cfg.VSCodePath, settingsPath)
}
