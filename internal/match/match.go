// Package match implements the pure pattern-matching primitives shared by
// the policy evaluator (internal/policy) and the credential selector
// (internal/credential): repository-pattern matching and action-pattern
// expansion. Nothing here does I/O or holds mutable state.
package match

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/carrotRakko/ghgate/internal/action"
)

// Repo reports whether pattern matches repo ("owner/repo"), case-insensitive.
//
// "*" matches everything. "owner/*" matches iff the lowercased owner
// prefix equals the lowercased repo owner. Anything else falls back to a
// shell-style glob over the full "owner/repo" string, which covers niche
// patterns like "*/docs" without a separate syntax.
func Repo(pattern, repo string) bool {
	pattern = strings.ToLower(pattern)
	repo = strings.ToLower(repo)

	if pattern == "*" {
		return true
	}

	if owner, rest, ok := strings.Cut(pattern, "/"); ok && rest == "*" {
		repoOwner, _, _ := strings.Cut(repo, "/")
		return repoOwner == owner
	}

	g, err := globCache.get(pattern)
	if err != nil {
		return pattern == repo
	}
	return g.Match(repo)
}

// ExpandActionPattern returns every primitive action p denotes: the full
// universe for "*", a bundle's expansion for a known bundle name, a
// category's expansion for "cat:*", or the single primitive itself if p
// is a literal known primitive. Unknown patterns expand to nil — a rule
// carrying only unknown patterns can never match anything.
func ExpandActionPattern(p string) []string {
	if p == "*" {
		return action.Universe()
	}
	if expansion := action.ExpandBundle(p); expansion != nil {
		return expansion
	}
	if cat, suffix, ok := strings.Cut(p, ":"); ok && suffix == "*" {
		return action.ExpandCategory(cat)
	}
	if action.IsPrimitive(p) {
		return []string{p}
	}
	return nil
}

// globSet caches compiled glob patterns; pattern sets are small and stable
// for the lifetime of a ruleset, but Repo is called concurrently by many
// in-flight requests so access is guarded.
type globSet struct {
	mu       sync.RWMutex
	compiled map[string]glob.Glob
}

func (s *globSet) get(pattern string) (glob.Glob, error) {
	s.mu.RLock()
	g, ok := s.compiled[pattern]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.compiled[pattern] = g
	s.mu.Unlock()
	return g, nil
}

var globCache = &globSet{compiled: make(map[string]glob.Glob)}
