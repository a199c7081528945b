// Package credential implements the credential selector (C5): given a
// repository and a credential catalog, it picks the credential to attach
// upstream. Selection is pure and side-effect-free.
package credential

import "github.com/carrotRakko/ghgate/internal/match"

// Entry is one scoped credential: a token plus the repo patterns it covers.
type Entry struct {
	Token string
	Repos []string
}

// Catalog is the fully-resolved credential set built by internal/ruleset
// from either the legacy or modern on-disk format. A legacy-form catalog
// always has a fallback; a modern pats-only catalog may have none.
type Catalog struct {
	// Scoped is scanned in declaration order; first matching entry wins.
	Scoped []Entry
	// Fallback is the catch-all credential used when no Scoped entry
	// matches. May be empty for a modern pats-only catalog.
	Fallback string
}

// Select returns the token to attach for repo. ok is false when there is
// no fallback and no scoped entry matched; the caller surfaces this as a
// 403.
func Select(repo string, catalog Catalog) (string, bool) {
	for _, entry := range catalog.Scoped {
		for _, pattern := range entry.Repos {
			if match.Repo(pattern, repo) {
				return entry.Token, true
			}
		}
	}
	if catalog.Fallback != "" {
		return catalog.Fallback, true
	}
	return "", false
}
