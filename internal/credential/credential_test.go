package credential

import "testing"

// Scenario 5 from the spec's end-to-end examples.
func TestSelect_ScopedOverFallback(t *testing.T) {
	catalog := Catalog{
		Scoped:   []Entry{{Token: "T1", Repos: []string{"acme/*"}}},
		Fallback: "T0",
	}

	if tok, ok := Select("acme/foo", catalog); !ok || tok != "T1" {
		t.Errorf("Select(acme/foo) = (%q, %v), want (T1, true)", tok, ok)
	}
	if tok, ok := Select("other/x", catalog); !ok || tok != "T0" {
		t.Errorf("Select(other/x) = (%q, %v), want (T0, true)", tok, ok)
	}
}

func TestSelect_FirstScopedMatchWins(t *testing.T) {
	catalog := Catalog{
		Scoped: []Entry{
			{Token: "first", Repos: []string{"acme/*"}},
			{Token: "second", Repos: []string{"acme/foo"}},
		},
		Fallback: "T0",
	}
	if tok, _ := Select("acme/foo", catalog); tok != "first" {
		t.Errorf("expected first matching entry to win, got %q", tok)
	}
}

// P8: when a fallback exists, selection never fails.
func TestSelect_NoMatchFallsBackToFallback(t *testing.T) {
	catalog := Catalog{Fallback: "T0"}
	if tok, ok := Select("anything/here", catalog); !ok || tok != "T0" {
		t.Errorf("Select = (%q, %v), want (T0, true)", tok, ok)
	}
}

func TestSelect_NoFallbackNoMatchFails(t *testing.T) {
	catalog := Catalog{Scoped: []Entry{{Token: "T1", Repos: []string{"acme/*"}}}}
	if _, ok := Select("other/x", catalog); ok {
		t.Error("expected selection failure with no fallback and no match")
	}
}
