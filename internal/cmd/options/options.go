package options

import (
	"fmt"
	"io"
	"os"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/cmd"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/config"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/progress"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
)

type CmdOption func(*CmdOptions) error

// CmdOptions holds the collaborators a command uses.
// Prompter and Progress may be left nil, in which case the command picks a terminal implementation.
type CmdOptions struct {
	ConfigLoader    config.Loader
	LookupEnv       config.LookupEnvFunc
	RegistryBuilder cmd.RegistryBuilder
	EditorBuilder   cmd.EditorBuilder
	Prompter        prompt.Prompter
	Progress        progress.Reporter
}

func defaultOptions() CmdOptions {
	return CmdOptions{
		ConfigLoader:    &config.DefaultLoader{},
		LookupEnv:       os.LookupEnv,
		RegistryBuilder: cmd.DefaultBuilder{},
		EditorBuilder:   cmd.DefaultBuilder{},
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

// WithLookupEnv replaces os.LookupEnv, for both configuration and environment variable defaults.
func WithLookupEnv(fn config.LookupEnvFunc) CmdOption {
	return func(o *CmdOptions) error {
		o.LookupEnv = fn
		return nil
	}
}

func WithRegistryBuilder(b cmd.RegistryBuilder) CmdOption {
	return func(o *CmdOptions) error {
		if b == nil {
			return fmt.Errorf("registry builder cannot be nil")
		}
		o.RegistryBuilder = b
		return nil
	}
}

func WithEditorBuilder(b cmd.EditorBuilder) CmdOption {
	return func(o *CmdOptions) error {
		if b == nil {
			return fmt.Errorf("editor builder cannot be nil")
		}
		o.EditorBuilder = b
		return nil
	}
}

func WithPrompter(p prompt.Prompter) CmdOption {
	return func(o *CmdOptions) error {
		o.Prompter = p
		return nil
	}
}

func WithProgress(r progress.Reporter) CmdOption {
	return func(o *CmdOptions) error {
		o.Progress = r
		return nil
	}
}

// PrompterFor returns the configured Prompter, or a terminal prompter when interactive.
// Non-interactive runs without an explicit Prompter accept every default.
func (o CmdOptions) PrompterFor(interactive bool) prompt.Prompter {
	if o.Prompter != nil {
		return o.Prompter
	}
	if !interactive {
		return prompt.Defaults{Answer: true}
	}
	return &prompt.Huh{}
}

// ProgressFor returns the configured Reporter, or a spinner drawing on w.
func (o CmdOptions) ProgressFor(w io.Writer) progress.Reporter {
	if o.Progress != nil {
		return o.Progress
	}
	return progress.NewSpinner(w)
}
