package reconcile

import (
	"strings"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/filter"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/registry"
	"github.com/danielmeppiel/vscode-mcp-installer/internal/settings"
)

// Matcher names, reported in Result.MatchedBy.
const (
	MatchFriendlyName    = "friendly-name"
	MatchFullName        = "full-name"
	MatchNPXSuffix       = "npx-suffix"
	MatchCaseInsensitive = "case-insensitive"
	MatchFigmaPrefix     = "figma-prefix"
	MatchPackageArtifact = "package-artifact"
)

// Installed is the installed identifier set, together with its case-folded form.
type Installed struct {
	Exact  settings.Identifiers
	Folded settings.Identifiers
}

// NewInstalled prepares an identifier set for matching.
func NewInstalled(ids settings.Identifiers) Installed {
	if ids == nil {
		ids = settings.Identifiers{}
	}
	return Installed{Exact: ids, Folded: ids.Folded()}
}

// Matcher is one rule that can recognise a registry entry among installed identifiers.
type Matcher struct {
	Name  string
	Match func(s registry.Server, in Installed) bool
}

// DefaultMatchers returns the matching rules in the order they are tried.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{
			Name: MatchFriendlyName,
			Match: func(s registry.Server, in Installed) bool {
				return in.Exact.Has(s.FriendlyName())
			},
		},
		{
			Name: MatchFullName,
			Match: func(s registry.Server, in Installed) bool {
				return in.Exact.Has(s.Name)
			},
		},
		{
			// Identifiers of the form "<key> (npx)" are left behind by older installs.
			Name: MatchNPXSuffix,
			Match: func(s registry.Server, in Installed) bool {
				return in.Exact.Has(s.FriendlyName() + " (npx)")
			},
		},
		{
			Name: MatchCaseInsensitive,
			Match: func(s registry.Server, in Installed) bool {
				return in.Folded.Has(filter.NormalizeString(s.FriendlyName())) ||
					in.Folded.Has(filter.NormalizeString(s.Name))
			},
		},
		{
			// The Figma servers are installed under a "figma-" prefixed key.
			Name: MatchFigmaPrefix,
			Match: func(s registry.Server, in Installed) bool {
				return in.Exact.Has("figma-" + strings.ToLower(s.FriendlyName()))
			},
		},
		{
			Name: MatchPackageArtifact,
			Match: func(s registry.Server, in Installed) bool {
				for _, p := range s.Packages {
					if p.Name != "" && in.Folded.Has(filter.NormalizeString(p.Name)) {
						return true
					}
				}
				return false
			},
		},
	}
}
