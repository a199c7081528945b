package match

import (
	"strings"
	"testing"

	"github.com/carrotRakko/ghgate/internal/action"
)

func TestRepo(t *testing.T) {
	tests := []struct {
		pattern string
		repo    string
		want    bool
	}{
		{"*", "acme/foo", true},
		{"acme/*", "acme/foo", true},
		{"acme/*", "ACME/Foo", true},
		{"acme/*", "other/foo", false},
		{"acme/foo", "acme/foo", true},
		{"ACME/FOO", "acme/foo", true},
		{"acme/foo", "acme/bar", false},
		{"*/docs", "acme/docs", true},
		{"*/docs", "acme/notdocs", false},
	}
	for _, tt := range tests {
		if got := Repo(tt.pattern, tt.repo); got != tt.want {
			t.Errorf("Repo(%q, %q) = %v, want %v", tt.pattern, tt.repo, got, tt.want)
		}
	}
}

// P6: case-insensitive repo match — swapping case on either side of the
// comparison must not change the result.
func TestRepo_CaseInsensitiveProperty(t *testing.T) {
	tt := []struct{ pattern, repo string }{
		{"acme/*", "acme/foo"},
		{"acme/foo", "acme/foo"},
		{"*", "acme/foo"},
	}
	for _, c := range tt {
		lower := Repo(strings.ToLower(c.pattern), strings.ToUpper(c.repo))
		plain := Repo(c.pattern, c.repo)
		if lower != plain {
			t.Errorf("case-insensitivity violated for pattern=%q repo=%q", c.pattern, c.repo)
		}
	}
}

func TestExpandActionPattern(t *testing.T) {
	if got := ExpandActionPattern("*"); len(got) != len(action.Universe()) {
		t.Errorf("ExpandActionPattern(*) len = %d, want %d", len(got), len(action.Universe()))
	}

	if got := ExpandActionPattern(action.BundlePRMerge); len(got) != 3 {
		t.Errorf("ExpandActionPattern(pr:merge) = %v, want 3 entries", got)
	}

	if got := ExpandActionPattern("git:*"); len(got) != 2 {
		t.Errorf("ExpandActionPattern(git:*) = %v, want 2 entries", got)
	}

	if got := ExpandActionPattern(action.MetadataRead); len(got) != 1 || got[0] != action.MetadataRead {
		t.Errorf("ExpandActionPattern(metadata:read) = %v, want [metadata:read]", got)
	}

	if got := ExpandActionPattern("bogus"); got != nil {
		t.Errorf("ExpandActionPattern(bogus) = %v, want nil", got)
	}
}
