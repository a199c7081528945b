// Package ruleset loads and validates the on-disk ruleset + credential
// catalog file and builds the immutable in-memory structures the gate
// orchestrator consumes. JSON with comments is accepted. Every violation
// here is startup-fatal — the core never sees a malformed ruleset.
package ruleset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/carrotRakko/ghgate/internal/credential"
	"github.com/carrotRakko/ghgate/internal/policy"
)

// document is the on-disk shape of the ruleset + credential catalog file.
type document struct {
	ClassicPAT string `json:"classic_pat"`
	FineGrainedPATs []struct {
		PAT   string   `json:"pat"`
		Repos []string `json:"repos"`
	} `json:"fine_grained_pats"`
	PATs []struct {
		Token string   `json:"token"`
		Repos []string `json:"repos"`
	} `json:"pats"`
	Rules []struct {
		Effect  string   `json:"effect"`
		Actions []string `json:"actions"`
		Repos   []string `json:"repos"`
	} `json:"rules"`
}

// Ruleset is the validated, immutable result of Load.
type Ruleset struct {
	Rules   []policy.Rule
	Catalog credential.Catalog
}

// disallowedModeBits rejects files readable or writable by group or other.
const disallowedModeBits = 0o077

// Load reads, decomments, parses, and validates the ruleset/catalog file
// at path. Any problem is returned as an error the caller should treat as
// startup-fatal.
func Load(path string) (*Ruleset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat ruleset file: %w", err)
	}
	if info.Mode().Perm()&disallowedModeBits != 0 {
		return nil, fmt.Errorf("ruleset file %s is group/other readable or writable (mode %04o); chmod 600", path, info.Mode().Perm())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset file: %w", err)
	}

	return parse(raw)
}

// LoadEncrypted reads path the same way Load does, but first decrypts its
// contents with decrypt (an internal/gatecrypto Encryptor.Decrypt-shaped
// function) before stripping comments and parsing. Used when the server
// config carries an encryption_key, for at-rest encryption of the
// credential catalog.
func LoadEncrypted(path string, decrypt func(string) (string, error)) (*Ruleset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat ruleset file: %w", err)
	}
	if info.Mode().Perm()&disallowedModeBits != 0 {
		return nil, fmt.Errorf("ruleset file %s is group/other readable or writable (mode %04o); chmod 600", path, info.Mode().Perm())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset file: %w", err)
	}

	plaintext, err := decrypt(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decrypting ruleset file: %w", err)
	}

	return parse([]byte(plaintext))
}

func parse(raw []byte) (*Ruleset, error) {
	var doc document
	if err := json.Unmarshal(jsonc.ToJSON(raw), &doc); err != nil {
		return nil, fmt.Errorf("parsing ruleset file: %w", err)
	}

	return build(doc)
}

func build(doc document) (*Ruleset, error) {
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("ruleset must declare a non-empty \"rules\" list")
	}

	rules := make([]policy.Rule, 0, len(doc.Rules))
	for i, r := range doc.Rules {
		effect := policy.Effect(r.Effect)
		if effect != policy.Allow && effect != policy.Deny {
			return nil, fmt.Errorf("rule %d: effect must be \"allow\" or \"deny\", got %q", i, r.Effect)
		}
		rules = append(rules, policy.Rule{Effect: effect, Actions: r.Actions, Repos: r.Repos})
	}

	catalog, err := buildCatalog(doc)
	if err != nil {
		return nil, err
	}

	return &Ruleset{Rules: rules, Catalog: catalog}, nil
}

func buildCatalog(doc document) (credential.Catalog, error) {
	var catalog credential.Catalog

	if len(doc.PATs) > 0 {
		// Modern format: a flat pats array, no classic_pat required. A
		// fallback is still honored if given, but selection simply fails
		// (403 at request time) when none exists and nothing matches.
		for _, p := range doc.PATs {
			if p.Token == "" {
				return catalog, fmt.Errorf("pats entry missing \"token\"")
			}
			catalog.Scoped = append(catalog.Scoped, credential.Entry{Token: p.Token, Repos: p.Repos})
		}
		catalog.Fallback = doc.ClassicPAT
		return catalog, nil
	}

	for _, fg := range doc.FineGrainedPATs {
		if fg.PAT == "" {
			return catalog, fmt.Errorf("fine_grained_pats entry missing \"pat\"")
		}
		catalog.Scoped = append(catalog.Scoped, credential.Entry{Token: fg.PAT, Repos: fg.Repos})
	}

	catalog.Fallback = doc.ClassicPAT
	if catalog.Fallback == "" {
		return catalog, fmt.Errorf("ruleset must declare \"classic_pat\" as the global fallback credential")
	}

	return catalog, nil
}
