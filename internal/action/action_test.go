package action

import (
	"strings"
	"testing"
)

func TestUniverse_NonEmpty(t *testing.T) {
	if len(Universe()) == 0 {
		t.Fatal("universe must not be empty")
	}
}

func TestExpandBundle(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{BundlePRMerge, []string{PRMergeCommit, PRMergeSquash, PRMergeRebase}},
		{"no-such-bundle", nil},
	}
	for _, tt := range tests {
		got := ExpandBundle(tt.name)
		if len(got) != len(tt.want) {
			t.Errorf("ExpandBundle(%q) = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ExpandBundle(%q)[%d] = %q, want %q", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

func TestBundleWriteSupersetOfRead(t *testing.T) {
	read := ExpandBundle(BundlePullRequestsRead)
	write := ExpandBundle(BundlePullRequestsWrite)
	for _, a := range read {
		found := false
		for _, b := range write {
			if a == b {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("pull-requests:write missing %q from pull-requests:read", a)
		}
	}
}

func TestExpandCategory(t *testing.T) {
	got := ExpandCategory("git")
	want := map[string]bool{GitRead: true, GitWrite: true}
	if len(got) != len(want) {
		t.Fatalf("ExpandCategory(git) = %v, want 2 entries", got)
	}
	for _, a := range got {
		if !want[a] {
			t.Errorf("unexpected category member %q", a)
		}
	}

	if ExpandCategory("no-such-category") != nil {
		t.Error("expected nil for unknown category")
	}
}

func TestIsPrimitive(t *testing.T) {
	if !IsPrimitive(MetadataRead) {
		t.Error("metadata:read should be primitive")
	}
	if IsPrimitive(BundlePRMerge) {
		t.Error("bundle name should not be primitive")
	}
	if IsPrimitive("bogus:thing") {
		t.Error("unknown action should not be primitive")
	}
}

func TestEveryBundleMemberIsPrimitive(t *testing.T) {
	for _, bundle := range []string{BundlePullRequestsRead, BundlePullRequestsWrite, BundlePullsContribute, BundlePRMerge} {
		for _, p := range ExpandBundle(bundle) {
			if !IsPrimitive(p) {
				t.Errorf("bundle %q contains non-primitive %q", bundle, p)
			}
		}
	}
}

func TestEveryCategoryMemberIsPrimitive(t *testing.T) {
	for _, a := range Universe() {
		cat, _, ok := strings.Cut(a, ":")
		if !ok {
			continue
		}
		for _, p := range ExpandCategory(cat) {
			if !IsPrimitive(p) {
				t.Errorf("category %q contains non-primitive %q", cat, p)
			}
		}
	}
}
