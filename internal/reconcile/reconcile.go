// Package reconcile decides which required MCP servers are already installed.
package reconcile

import (
	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/filter"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/settings"
)

// Result is the outcome for one required identifier.
type Result struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	MatchedBy  string `json:"matched_by,omitempty" yaml:"matched_by,omitempty"`
}

// Report lists which required identifiers are installed.
// Unresolved holds identifiers that had no registry entry, so they could not be compared.
type Report struct {
	Present    []Result `json:"present" yaml:"present"`
	Missing    []Result `json:"missing" yaml:"missing"`
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// AllInstalled reports whether nothing is missing or unresolved.
func (r Report) AllInstalled() bool {
	return len(r.Missing) == 0 && len(r.Unresolved) == 0
}

// MissingIdentifiers returns every identifier that is not installed, including unresolved ones.
func (r Report) MissingIdentifiers() []string {
	out := make([]string, 0, len(r.Missing)+len(r.Unresolved))
	for _, m := range r.Missing {
		out = append(out, m.Identifier)
	}
	return append(out, r.Unresolved...)
}

// Engine applies an ordered list of matchers, stopping at the first that succeeds.
type Engine struct {
	logger   hclog.Logger
	matchers []Matcher
}

// NewEngine returns an engine using the given matchers, or DefaultMatchers when none are supplied.
func NewEngine(logger hclog.Logger, matchers ...Matcher) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Engine{logger: logger.Named("reconcile"), matchers: matchers}
}

// Match returns the name of the first matcher that recognises the entry.
func (e *Engine) Match(s registry.Server, in Installed) (string, bool) {
	for _, m := range e.matchers {
		if m.Match(s, in) {
			return m.Name, true
		}
	}
	return "", false
}

// Reconcile checks every token of a resolved set against the installed identifiers.
func (e *Engine) Reconcile(set *registry.ResolvedSet, installed settings.Identifiers) Report {
	in := NewInstalled(installed)
	report := Report{Present: []Result{}, Missing: []Result{}}

	for _, token := range set.Tokens() {
		s, ok := set.Get(token)
		if !ok {
			report.Unresolved = append(report.Unresolved, token)
			continue
		}

		r := Result{Identifier: token, Name: s.Name, ID: s.ID}
		if name, ok := e.Match(s, in); ok {
			r.MatchedBy = name
			report.Present = append(report.Present, r)
			e.logger.Debug("Server is installed", "identifier", token, "matched_by", name)
			continue
		}

		report.Missing = append(report.Missing, r)
		e.logger.Debug("Server is missing", "identifier", token, "name", s.Name)
	}

	return report
}

// CheckRaw compares identifiers directly with the installed set without consulting the registry.
// An exact match is tried first, then a case-insensitive one.
func CheckRaw(tokens []string, installed settings.Identifiers) Report {
	in := NewInstalled(installed)
	report := Report{Present: []Result{}, Missing: []Result{}}

	seen := map[string]struct{}{}
	for _, token := range tokens {
		if _, dup := seen[token]; dup || token == "" {
			continue
		}
		seen[token] = struct{}{}

		r := Result{Identifier: token}
		switch {
		case in.Exact.Has(token):
			r.MatchedBy = "exact"
			report.Present = append(report.Present, r)
		case in.Folded.Has(filter.NormalizeString(token)):
			r.MatchedBy = MatchCaseInsensitive
			report.Present = append(report.Present, r)
		default:
			report.Missing = append(report.Missing, r)
		}
	}

	return report
}
