package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/danielmeppiel/vscode-mcp-installer/internal/errors"
)

// MatchKind records which rule matched a token to an index entry.
type MatchKind string

const (
	MatchNone     MatchKind = ""
	MatchID       MatchKind = "id"
	MatchName     MatchKind = "name"
	MatchNameFold MatchKind = "name-insensitive"
)

// Resolver turns identifier tokens into full registry records.
// Each batch costs one index load plus one detail fetch per distinct matched entry.
type Resolver struct {
	logger   hclog.Logger
	source   Source
	pageSize int
}

// NewResolver returns a resolver reading from source.
// A pageSize of zero or less uses MaxListLimit.
func NewResolver(logger hclog.Logger, source Source, pageSize int) (*Resolver, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("registry source cannot be nil")
	}
	if pageSize <= 0 || pageSize > MaxListLimit {
		pageSize = MaxListLimit
	}

	return &Resolver{
		logger:   logger.Named("resolver"),
		source:   source,
		pageSize: pageSize,
	}, nil
}

// Resolve matches every token against the registry.
// The only error returned is a failure to load the index; unmatched tokens and failed detail fetches
// leave their tokens absent in the returned set.
func (r *Resolver) Resolve(ctx context.Context, tokens []string) (*ResolvedSet, error) {
	set := newResolvedSet(tokens)
	if !set.hasQuery() {
		return set, nil
	}

	idx, err := LoadIndex(ctx, r.source, r.pageSize)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Loaded registry index", "entries", idx.Len())

	// Token to entry id, and the distinct ids in first-seen order.
	matched := make(map[string]string, len(set.tokens))
	var ids []string
	seen := map[string]struct{}{}

	for _, token := range set.tokens {
		query := strings.TrimSpace(token)
		if query == "" {
			continue
		}

		entry, kind := matchToken(idx, query)
		if kind == MatchNone {
			r.logger.Debug("No registry entry matches identifier", "identifier", token)
			continue
		}

		set.matchedBy[token] = kind
		matched[token] = entry.ID
		if _, ok := seen[entry.ID]; !ok {
			seen[entry.ID] = struct{}{}
			ids = append(ids, entry.ID)
		}
	}

	details := make(map[string]Server, len(ids))
	for _, id := range ids {
		s, err := r.source.GetServer(ctx, id)
		if err != nil {
			r.logger.Warn("Failed to fetch server detail", "id", id, "error", err)
			set.failures[id] = err
			continue
		}
		details[id] = s
	}

	for _, token := range set.tokens {
		id, ok := matched[token]
		if !ok {
			continue
		}
		if s, ok := details[id]; ok {
			set.entries[token] = &s
		} else {
			set.tokenFailures[token] = set.failures[id]
		}
	}

	return set, nil
}

// ResolveAll behaves like Resolve, and additionally returns an *errors.UnresolvedIdentifiersError
// listing every absent token. The partial set is always returned alongside so callers can decide.
func (r *Resolver) ResolveAll(ctx context.Context, tokens []string) (*ResolvedSet, error) {
	set, err := r.Resolve(ctx, tokens)
	if err != nil {
		return nil, err
	}

	if missing := set.Missing(); len(missing) > 0 {
		return set, &errors.UnresolvedIdentifiersError{Missing: missing}
	}

	return set, nil
}

// matchToken tries exact id, then exact name, then case-insensitive name. The first hit wins.
func matchToken(idx *Index, token string) (Server, MatchKind) {
	if s, ok := idx.ByID(token); ok {
		return s, MatchID
	}
	if s, ok := idx.ByName(token); ok {
		return s, MatchName
	}
	if s, ok := idx.ByNameFold(token); ok {
		return s, MatchNameFold
	}
	return Server{}, MatchNone
}

// ResolvedSet maps every input token to its registry record, or to absent.
// Tokens are kept exactly as given and in input order; duplicates are collapsed.
// Surrounding whitespace is ignored for matching only, and blank tokens are always absent.
type ResolvedSet struct {
	tokens        []string
	entries       map[string]*Server
	matchedBy     map[string]MatchKind
	failures      map[string]error
	tokenFailures map[string]error
}

func newResolvedSet(tokens []string) *ResolvedSet {
	set := &ResolvedSet{
		entries:       map[string]*Server{},
		matchedBy:     map[string]MatchKind{},
		failures:      map[string]error{},
		tokenFailures: map[string]error{},
	}

	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		set.tokens = append(set.tokens, t)
	}

	return set
}

func (s *ResolvedSet) hasQuery() bool {
	for _, t := range s.tokens {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

// Tokens returns the distinct input tokens in input order.
func (s *ResolvedSet) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Get returns the record a token resolved to.
func (s *ResolvedSet) Get(token string) (Server, bool) {
	e, ok := s.entries[token]
	if !ok || e == nil {
		return Server{}, false
	}
	return *e, true
}

// MatchedBy reports which rule matched the token against the index, or MatchNone.
// A token can be matched and still be absent when its detail fetch failed.
func (s *ResolvedSet) MatchedBy(token string) MatchKind {
	return s.matchedBy[token]
}

// Err returns the detail-fetch error that left a matched token absent, if any.
func (s *ResolvedSet) Err(token string) error {
	return s.tokenFailures[token]
}

// Missing returns the absent tokens in input order.
func (s *ResolvedSet) Missing() []string {
	var missing []string
	for _, t := range s.tokens {
		if _, ok := s.entries[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

// Resolved returns the distinct resolved records, ordered by the first token that referenced each.
func (s *ResolvedSet) Resolved() []Server {
	var out []Server
	seen := map[string]struct{}{}
	for _, t := range s.tokens {
		e, ok := s.entries[t]
		if !ok {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, *e)
	}
	return out
}
