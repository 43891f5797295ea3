// Package service combines settings extraction, registry resolution and reconciliation
// into the operations shared by the command line, the MCP tools and the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/reconcile"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/settings"
)

// Resolver resolves identifier tokens against the registry.
type Resolver interface {
	Resolve(ctx context.Context, tokens []string) (*registry.ResolvedSet, error)
}

// InstalledServer describes one entry of the settings file.
// Only environment variable names are exposed, never their values.
type InstalledServer struct {
	Key        string   `json:"key" yaml:"key"`
	Identifier string   `json:"identifier" yaml:"identifier"`
	Command    string   `json:"command" yaml:"command"`
	Args       []string `json:"args" yaml:"args"`
	Env        []string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Installed is the result of reading the settings file.
type Installed struct {
	SettingsPath string            `json:"settings_path" yaml:"settings_path"`
	Servers      []InstalledServer `json:"servers" yaml:"servers"`
}

// Identifiers returns the comparable identifier set of the installed servers.
func (i Installed) Identifiers() settings.Identifiers {
	ids := make([]string, 0, len(i.Servers))
	for _, s := range i.Servers {
		ids = append(ids, s.Identifier)
	}
	return settings.NewIdentifiers(ids...)
}

// Resolution is the outcome of resolving one identifier token.
type Resolution struct {
	Identifier string           `json:"identifier" yaml:"identifier"`
	Found      bool             `json:"found" yaml:"found"`
	MatchedBy  string           `json:"matched_by,omitempty" yaml:"matched_by,omitempty"`
	Server     *registry.Server `json:"server,omitempty" yaml:"server,omitempty"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Service is safe to reuse across requests; the settings file is re-read by every call.
type Service struct {
	logger       hclog.Logger
	settingsPath string
	resolver     Resolver
	engine       *reconcile.Engine
}

// New returns a Service reading settingsPath and resolving through resolver.
func New(logger hclog.Logger, settingsPath string, resolver Resolver) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if strings.TrimSpace(settingsPath) == "" {
		return nil, fmt.Errorf("settings path cannot be empty")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}

	l := logger.Named("service")

	return &Service{
		logger:       l,
		settingsPath: settingsPath,
		resolver:     resolver,
		engine:       reconcile.NewEngine(l),
	}, nil
}

// SettingsPath returns the settings file this service reads.
func (s *Service) SettingsPath() string {
	return s.settingsPath
}

// Installed reads the settings file and lists its MCP servers, ordered by key.
func (s *Service) Installed() (Installed, error) {
	doc, err := settings.Load(s.settingsPath)
	if err != nil {
		return Installed{}, err
	}

	out := Installed{
		SettingsPath: s.settingsPath,
		Servers:      make([]InstalledServer, 0, doc.Len()),
	}

	for _, srv := range doc.Servers() {
		env := make([]string, 0, len(srv.Env))
		for name := range srv.Env {
			env = append(env, name)
		}
		out.Servers = append(out.Servers, InstalledServer{
			Key:        srv.Key,
			Identifier: settings.Identifier(srv),
			Command:    srv.Command,
			Args:       srv.Args,
			Env:        settings.NewIdentifiers(env...).Sorted(),
		})
	}

	s.logger.Debug("Read installed servers", "path", s.settingsPath, "count", len(out.Servers))

	return out, nil
}

// Check compares tokens with the installed servers.
// With resolve set, tokens are resolved through the registry and matched with the reconciliation rules;
// otherwise they are compared directly with the installed identifiers.
func (s *Service) Check(ctx context.Context, tokens []string, resolve bool) (reconcile.Report, error) {
	tokens = cleanTokens(tokens)
	if len(tokens) == 0 {
		return reconcile.Report{}, fmt.Errorf("%w: at least one server identifier is required", errors.ErrBadRequest)
	}

	installed, err := s.Installed()
	if err != nil {
		return reconcile.Report{}, err
	}

	if !resolve {
		return reconcile.CheckRaw(tokens, installed.Identifiers()), nil
	}

	set, err := s.resolver.Resolve(ctx, tokens)
	if err != nil {
		return reconcile.Report{}, err
	}

	return s.engine.Reconcile(set, installed.Identifiers()), nil
}

// Resolve resolves every token. Absent tokens are reported, not treated as an error.
func (s *Service) Resolve(ctx context.Context, tokens []string) ([]Resolution, error) {
	tokens = cleanTokens(tokens)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: at least one server identifier is required", errors.ErrBadRequest)
	}

	set, err := s.resolver.Resolve(ctx, tokens)
	if err != nil {
		return nil, err
	}

	return Resolutions(set), nil
}

// Plan resolves the required tokens and returns the registry entries that are not yet installed,
// together with the reconciliation report they were derived from.
// Any token without a registry entry fails the plan with an UnresolvedIdentifiersError.
func (s *Service) Plan(ctx context.Context, tokens []string) ([]registry.Server, reconcile.Report, error) {
	tokens = cleanTokens(tokens)
	if len(tokens) == 0 {
		return nil, reconcile.Report{}, fmt.Errorf("%w: at least one server identifier is required", errors.ErrBadRequest)
	}

	set, err := s.resolver.Resolve(ctx, tokens)
	if err != nil {
		return nil, reconcile.Report{}, err
	}

	if missing := set.Missing(); len(missing) > 0 {
		return nil, reconcile.Report{}, &errors.UnresolvedIdentifiersError{Missing: missing}
	}

	installed, err := s.Installed()
	if err != nil {
		return nil, reconcile.Report{}, err
	}

	report := s.engine.Reconcile(set, installed.Identifiers())

	missing := make(map[string]struct{}, len(report.Missing))
	for _, m := range report.Missing {
		missing[m.ID] = struct{}{}
	}

	var toInstall []registry.Server
	for _, srv := range set.Resolved() {
		if _, ok := missing[srv.ID]; ok {
			toInstall = append(toInstall, srv)
		}
	}

	return toInstall, report, nil
}

// Resolutions converts a resolved set into one Resolution per token, in token order.
func Resolutions(set *registry.ResolvedSet) []Resolution {
	tokens := set.Tokens()
	out := make([]Resolution, 0, len(tokens))

	for _, t := range tokens {
		r := Resolution{Identifier: t, MatchedBy: string(set.MatchedBy(t))}
		if srv, ok := set.Get(t); ok {
			r.Found = true
			r.Server = &srv
		} else if err := set.Err(t); err != nil {
			r.Error = err.Error()
		}
		out = append(out, r)
	}

	return out
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
