package runtime

import (
	"fmt"
	"strings"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
)

// SelectPackage picks the package to install: docker first, then npm, then whatever is listed first.
func SelectPackage(s registry.Server) (registry.Package, error) {
	if len(s.Packages) == 0 {
		return registry.Package{}, fmt.Errorf("%w: server '%s' declares no packages", errors.ErrNoUsablePackage, s.Name)
	}

	for _, eco := range []string{registry.EcosystemDocker, registry.EcosystemNPM} {
		for _, p := range s.Packages {
			if strings.EqualFold(p.RegistryName, eco) {
				return p, nil
			}
		}
	}

	return s.Packages[0], nil
}

// Synthesize builds the launch configuration for a registry entry.
// The result only depends on its input, and environment variables are always empty placeholders.
func Synthesize(s registry.Server) (Config, error) {
	pkg, err := SelectPackage(s)
	if err != nil {
		return Config{}, err
	}

	eco := strings.ToLower(strings.TrimSpace(pkg.RegistryName))

	cfg := Config{
		Name:    s.FriendlyName(),
		Command: commandFor(eco),
	}

	if hinted := positionalHints(pkg.RuntimeArguments); len(hinted) > 0 {
		cfg.Args = hinted
	} else {
		cfg.Args = defaultArgs(eco, pkg)
	}

	for _, ev := range pkg.EnvironmentVariables {
		if ev.Name == "" {
			continue
		}
		if cfg.Env == nil {
			cfg.Env = map[string]string{}
		}
		cfg.Env[ev.Name] = ""
	}

	return cfg, nil
}

func commandFor(eco string) string {
	switch eco {
	case registry.EcosystemDocker:
		return string(Docker)
	case registry.EcosystemNPM:
		return string(NPX)
	default:
		return eco
	}
}

// positionalHints returns the value hints of positional runtime arguments, in order.
func positionalHints(args []registry.Argument) []string {
	var out []string
	for _, a := range args {
		if a.IsPositional() && a.ValueHint != "" {
			out = append(out, a.ValueHint)
		}
	}
	return out
}

func defaultArgs(eco string, pkg registry.Package) []string {
	if eco != registry.EcosystemDocker {
		return []string{pkg.Name}
	}

	args := []string{"run", "-i", "--rm"}
	for _, ev := range pkg.EnvironmentVariables {
		if ev.Name != "" {
			args = append(args, "-e", ev.Name)
		}
	}
	return append(args, pkg.Name)
}
