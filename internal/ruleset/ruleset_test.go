package ruleset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRulesetFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruleset.json")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_LegacyFormat(t *testing.T) {
	path := writeRulesetFile(t, `{
		// a comment, accepted by the jsonc loader
		"classic_pat": "T0",
		"fine_grained_pats": [
			{"pat": "T1", "repos": ["acme/*"]}
		],
		"rules": [
			{"effect": "allow", "actions": ["*"], "repos": ["*"]}
		]
	}`)

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rs.Catalog.Fallback != "T0" {
		t.Errorf("fallback = %q, want T0", rs.Catalog.Fallback)
	}
	if len(rs.Catalog.Scoped) != 1 || rs.Catalog.Scoped[0].Token != "T1" {
		t.Errorf("scoped = %+v, want one entry T1", rs.Catalog.Scoped)
	}
	if len(rs.Rules) != 1 {
		t.Fatalf("rules = %+v, want 1 entry", rs.Rules)
	}
}

func TestLoad_ModernFormat(t *testing.T) {
	path := writeRulesetFile(t, `{
		"classic_pat": "T0",
		"pats": [{"token": "T1", "repos": ["acme/*"]}],
		"rules": [{"effect": "deny", "actions": ["*"], "repos": ["*"]}]
	}`)

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rs.Catalog.Scoped) != 1 || rs.Catalog.Scoped[0].Token != "T1" {
		t.Errorf("scoped = %+v, want one entry T1", rs.Catalog.Scoped)
	}
}

func TestLoad_LegacyFormatMissingFallbackFails(t *testing.T) {
	path := writeRulesetFile(t, `{
		"rules": [{"effect": "allow", "actions": ["*"], "repos": ["*"]}]
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing classic_pat fallback")
	}
}

func TestLoad_ModernFormatWithoutClassicPATSucceeds(t *testing.T) {
	path := writeRulesetFile(t, `{
		"pats": [{"token": "T1", "repos": ["acme/*"]}],
		"rules": [{"effect": "allow", "actions": ["*"], "repos": ["*"]}]
	}`)

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rs.Catalog.Fallback != "" {
		t.Errorf("fallback = %q, want empty", rs.Catalog.Fallback)
	}
	if len(rs.Catalog.Scoped) != 1 || rs.Catalog.Scoped[0].Token != "T1" {
		t.Errorf("scoped = %+v, want one entry T1", rs.Catalog.Scoped)
	}
}

func TestLoad_EmptyRulesFails(t *testing.T) {
	path := writeRulesetFile(t, `{"classic_pat": "T0", "rules": []}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty rules list")
	}
}

func TestLoad_InvalidEffectFails(t *testing.T) {
	path := writeRulesetFile(t, `{
		"classic_pat": "T0",
		"rules": [{"effect": "maybe", "actions": ["*"], "repos": ["*"]}]
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid effect")
	}
}

func TestLoad_RejectsGroupReadableFile(t *testing.T) {
	path := writeRulesetFile(t, `{"classic_pat": "T0", "rules": [{"effect": "allow", "actions": ["*"], "repos": ["*"]}]}`)
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for group-readable ruleset file")
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEncrypted_DecryptsBeforeParsing(t *testing.T) {
	plaintext := `{"classic_pat": "T0", "rules": [{"effect": "allow", "actions": ["*"], "repos": ["*"]}]}`
	path := writeRulesetFile(t, "ENCRYPTED:"+plaintext)

	decrypt := func(s string) (string, error) {
		return s[len("ENCRYPTED:"):], nil
	}

	rs, err := LoadEncrypted(path, decrypt)
	if err != nil {
		t.Fatalf("LoadEncrypted: %v", err)
	}
	if rs.Catalog.Fallback != "T0" {
		t.Errorf("fallback = %q, want T0", rs.Catalog.Fallback)
	}
}

func TestLoadEncrypted_DecryptErrorPropagates(t *testing.T) {
	path := writeRulesetFile(t, "garbage")
	decrypt := func(s string) (string, error) {
		return "", os.ErrInvalid
	}
	if _, err := LoadEncrypted(path, decrypt); err == nil {
		t.Fatal("expected decrypt error to propagate")
	}
}
