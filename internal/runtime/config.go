package runtime

import (
	"encoding/json"
	"maps"
	"slices"
)

// Config is the launch configuration for one MCP server, in the shape VS Code stores under mcp.servers.
// A Config is never mutated after synthesis; use WithEnv to obtain a copy with environment values filled.
type Config struct {
	Name    string            `json:"name" yaml:"name"`
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args" yaml:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// WithEnv returns a copy of the config with values for the given environment variables.
// Only variables already declared on the config are set; others are ignored.
func (c Config) WithEnv(values map[string]string) Config {
	out := c.Clone()
	for k := range out.Env {
		if v, ok := values[k]; ok {
			out.Env[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := Config{
		Name:    c.Name,
		Command: c.Command,
		Args:    slices.Clone(c.Args),
	}
	if c.Env != nil {
		out.Env = maps.Clone(c.Env)
	}
	return out
}

// EnvNames returns the declared environment variable names, sorted.
func (c Config) EnvNames() []string {
	return slices.Sorted(maps.Keys(c.Env))
}

// Entry returns the value stored for this server under mcp.servers; the name is the key and is omitted.
func (c Config) Entry() map[string]any {
	e := map[string]any{
		"command": c.Command,
		"args":    slices.Clone(c.Args),
	}
	if len(c.Env) > 0 {
		e["env"] = maps.Clone(c.Env)
	}
	return e
}

// JSON returns the config encoded for the editor command line.
func (c Config) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
