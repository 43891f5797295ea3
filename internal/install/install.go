// Package install installs a batch of registry entries into the editor.
package install

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/editor"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

// Outcome is the result of installing one entry.
type Outcome struct {
	Name   string         `json:"name" yaml:"name"`
	Config runtime.Config `json:"config" yaml:"config"`
	Err    error          `json:"-" yaml:"-"`
	Error  string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Tally lists which entries of a batch were installed and which failed.
type Tally struct {
	Installed []Outcome `json:"installed" yaml:"installed"`
	Failed    []Outcome `json:"failed" yaml:"failed"`
}

// OK reports whether every entry was installed.
func (t Tally) OK() bool {
	return len(t.Failed) == 0
}

// Installer synthesizes, fills in and installs server configurations.
type Installer struct {
	logger   hclog.Logger
	editor   editor.Installer
	prompter prompt.Prompter
	lookup   prompt.LookupFunc
}

// New returns an Installer that registers servers through ed.
func New(logger hclog.Logger, ed editor.Installer, opt ...Option) (*Installer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if ed == nil {
		return nil, fmt.Errorf("editor installer cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Installer{
		logger:   logger.Named("install"),
		editor:   ed,
		prompter: opts.Prompter,
		lookup:   opts.Lookup,
	}, nil
}

// Prepare synthesizes the configuration for s and collects its environment values.
func (i *Installer) Prepare(s registry.Server) (runtime.Config, error) {
	cfg, err := runtime.Synthesize(s)
	if err != nil {
		return runtime.Config{}, err
	}

	descriptions := map[string]string{}
	if pkg, err := runtime.SelectPackage(s); err == nil {
		for _, ev := range pkg.EnvironmentVariables {
			descriptions[ev.Name] = ev.Description
		}
	}

	return prompt.FillEnv(cfg, i.prompter, i.lookup, descriptions)
}

// InstallConfig registers an already prepared configuration.
func (i *Installer) InstallConfig(ctx context.Context, cfg runtime.Config) error {
	if err := i.editor.Install(ctx, cfg); err != nil {
		return fmt.Errorf("failed to install '%s': %w", cfg.Name, err)
	}
	return nil
}

// Install installs every server. A failure for one server does not stop the others.
func (i *Installer) Install(ctx context.Context, servers []registry.Server) Tally {
	tally := Tally{Installed: []Outcome{}, Failed: []Outcome{}}

	for _, s := range servers {
		if err := ctx.Err(); err != nil {
			tally.Failed = append(tally.Failed, failed(s.Name, err))
			continue
		}

		cfg, err := i.Prepare(s)
		if err != nil {
			i.logger.Warn("Failed to prepare server", "name", s.Name, "error", err)
			tally.Failed = append(tally.Failed, failed(s.Name, err))
			continue
		}

		if err := i.InstallConfig(ctx, cfg); err != nil {
			i.logger.Warn("Failed to install server", "name", s.Name, "error", err)
			tally.Failed = append(tally.Failed, failed(s.Name, err))
			continue
		}

		i.logger.Info("Installed server", "name", s.Name, "key", cfg.Name)
		tally.Installed = append(tally.Installed, Succeeded(s.Name, cfg))
	}

	return tally
}

func failed(name string, err error) Outcome {
	return Outcome{Name: name, Err: err, Error: err.Error()}
}

// Succeeded returns the outcome of a successful install.
// Values of sensitive environment variables are masked so the outcome can be printed.
func Succeeded(name string, cfg runtime.Config) Outcome {
	return Outcome{Name: name, Config: redact(cfg)}
}

func redact(cfg runtime.Config) runtime.Config {
	out := cfg.Clone()
	for k, v := range out.Env {
		if v != "" && prompt.IsSensitive(k) {
			out.Env[k] = "***"
		}
	}
	return out
}
