// Package prompt asks the user for values needed during installation.
package prompt

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/runtime"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = stdErrors.New("prompt aborted by user")

// Prompter collects input from the user.
type Prompter interface {
	// Input asks for a single value. When secret is true the input is not echoed.
	Input(title string, description string, defaultValue string, secret bool) (string, error)

	// Confirm asks a yes/no question.
	Confirm(title string) (bool, error)
}

// LookupFunc returns the value of an environment variable, matching os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// sensitiveMarkers mark environment variable names whose values are read without echo.
var sensitiveMarkers = []string{"TOKEN", "SECRET", "KEY", "PASSWORD", "PASS"}

// IsSensitive reports whether an environment variable name suggests a credential.
func IsSensitive(name string) bool {
	upper := strings.ToUpper(name)
	for _, m := range sensitiveMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// FillEnv asks for a value for every environment variable declared on cfg and returns a filled copy.
// Values already present in the process environment are offered as defaults.
// cfg itself is never modified.
func FillEnv(cfg runtime.Config, p Prompter, lookup LookupFunc, descriptions map[string]string) (runtime.Config, error) {
	if len(cfg.Env) == 0 {
		return cfg.Clone(), nil
	}
	if p == nil {
		return runtime.Config{}, fmt.Errorf("prompter cannot be nil")
	}

	values := make(map[string]string, len(cfg.Env))
	for _, name := range cfg.EnvNames() {
		def := cfg.Env[name]
		if lookup != nil {
			if v, ok := lookup(name); ok {
				def = v
			}
		}

		title := fmt.Sprintf("%s (%s)", name, cfg.Name)
		v, err := p.Input(title, descriptions[name], def, IsSensitive(name))
		if err != nil {
			return runtime.Config{}, fmt.Errorf("error reading value for %s: %w", name, err)
		}
		values[name] = v
	}

	return cfg.WithEnv(values), nil
}

var _ Prompter = (*Huh)(nil)

// Huh prompts on the terminal.
type Huh struct {
	// Accessible switches the forms to plain line-based prompts for screen readers and dumb terminals.
	Accessible bool
}

// Input implements Prompter.
func (h *Huh) Input(title string, description string, defaultValue string, secret bool) (string, error) {
	value := defaultValue

	input := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	if err := h.run(huh.NewForm(huh.NewGroup(input))); err != nil {
		return "", err
	}

	return value, nil
}

// Confirm implements Prompter.
func (h *Huh) Confirm(title string) (bool, error) {
	var confirm bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&confirm),
	))
	if err := h.run(form); err != nil {
		return false, err
	}

	return confirm, nil
}

func (h *Huh) run(form *huh.Form) error {
	err := form.WithAccessible(h.Accessible).Run()
	if stdErrors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

var _ Prompter = Defaults{}

// Defaults never asks: inputs return their default value and confirmations return Answer.
// It is used when running non-interactively.
type Defaults struct {
	Answer bool
}

// Input implements Prompter.
func (d Defaults) Input(_ string, _ string, defaultValue string, _ bool) (string, error) {
	return defaultValue, nil
}

// Confirm implements Prompter.
func (d Defaults) Confirm(string) (bool, error) {
	return d.Answer, nil
}
