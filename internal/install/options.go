package install

import (
	"fmt"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/prompt"
)

// Option configures an Installer.
type Option func(*Options) error

// Options contains optional configuration for an Installer.
type Options struct {
	Prompter prompt.Prompter
	Lookup   prompt.LookupFunc
}

func defaultOptions() Options {
	return Options{
		Prompter: prompt.Defaults{},
	}
}

// NewOptions applies the supplied options over the defaults. Nil options are skipped.
func NewOptions(opt ...Option) (Options, error) {
	opts := defaultOptions()
	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// WithPrompter sets how environment variable values are collected.
func WithPrompter(p prompt.Prompter) Option {
	return func(o *Options) error {
		if p == nil {
			return fmt.Errorf("prompter cannot be nil")
		}
		o.Prompter = p
		return nil
	}
}

// WithLookup sets where default environment variable values are read from, usually os.LookupEnv.
func WithLookup(fn prompt.LookupFunc) Option {
	return func(o *Options) error {
		o.Lookup = fn
		return nil
	}
}
