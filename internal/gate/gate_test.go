package gate

import (
	"testing"

	"github.com/carrotRakko/ghgate/internal/credential"
	"github.com/carrotRakko/ghgate/internal/policy"
)

// The six end-to-end scenarios from the spec's testable-properties section.

func TestScenario1_MetadataReadAllowed(t *testing.T) {
	g := &Gate{
		Rules:   []policy.Rule{{Effect: policy.Allow, Actions: []string{"*"}, Repos: []string{"acme/*"}}},
		Catalog: credential.Catalog{Fallback: "T0"},
	}
	v := g.HandleAPI("GET", "/repos/acme/foo", nil)
	if v.Kind != KindAllowed || v.Action != "metadata:read" || v.Repo != "acme/foo" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestScenario2_DenyOverridesAllow(t *testing.T) {
	g := &Gate{
		Rules: []policy.Rule{
			{Effect: policy.Allow, Actions: []string{"*"}, Repos: []string{"*"}},
			{Effect: policy.Deny, Actions: []string{"pr:merge"}, Repos: []string{"*"}},
		},
		Catalog: credential.Catalog{Fallback: "T0"},
	}
	v := g.HandleAPI("PUT", "/repos/a/b/pulls/1/merge", []byte(`{"merge_method":"squash"}`))
	if v.Kind != KindPolicyDenied || v.Action != "pr:merge_squash" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestScenario3_RefinementChoosesClose(t *testing.T) {
	g := &Gate{
		Rules:   []policy.Rule{{Effect: policy.Allow, Actions: []string{"pr:close"}, Repos: []string{"a/b"}}},
		Catalog: credential.Catalog{Fallback: "T0"},
	}

	closed := g.HandleAPI("PATCH", "/repos/a/b/pulls/3", []byte(`{"state":"closed"}`))
	if closed.Kind != KindAllowed {
		t.Fatalf("expected allow for close, got %+v", closed)
	}

	reopened := g.HandleAPI("PATCH", "/repos/a/b/pulls/3", []byte(`{"state":"open"}`))
	if reopened.Kind != KindPolicyDenied {
		t.Fatalf("expected deny for reopen, got %+v", reopened)
	}
}

func TestScenario4_GitWriteClassification(t *testing.T) {
	g := &Gate{
		Rules:   []policy.Rule{{Effect: policy.Allow, Actions: []string{"git:read"}, Repos: []string{"*"}}},
		Catalog: credential.Catalog{Fallback: "T0"},
	}
	v := g.HandleGit("GET", "/a/b.git/info/refs", "service=git-receive-pack")
	if v.Kind != KindPolicyDenied || v.Action != "git:write" {
		t.Fatalf("unexpected verdict: %+v", v)
	}
}

func TestScenario5_CredentialScoping(t *testing.T) {
	g := &Gate{
		Rules: []policy.Rule{{Effect: policy.Allow, Actions: []string{"*"}, Repos: []string{"*"}}},
		Catalog: credential.Catalog{
			Scoped:   []credential.Entry{{Token: "T1", Repos: []string{"acme/*"}}},
			Fallback: "T0",
		},
	}
	inScope := g.HandleAPI("GET", "/repos/acme/foo", nil)
	if inScope.Credential != "T1" {
		t.Fatalf("expected T1, got %+v", inScope)
	}
	outOfScope := g.HandleAPI("GET", "/repos/other/x", nil)
	if outOfScope.Credential != "T0" {
		t.Fatalf("expected T0, got %+v", outOfScope)
	}
}

func TestScenario6_UnmatchedEndpointDeniedEvenUnderAllowAll(t *testing.T) {
	g := &Gate{
		Rules:   []policy.Rule{{Effect: policy.Allow, Actions: []string{"*"}, Repos: []string{"*"}}},
		Catalog: credential.Catalog{Fallback: "T0"},
	}
	v := g.HandleAPI("GET", "/repos/a/b/secrets", nil)
	if v.Kind != KindUnmatchedEndpoint {
		t.Fatalf("expected unmatched endpoint, got %+v", v)
	}
}

func TestHandleAPI_NoCredentialConfigured(t *testing.T) {
	g := &Gate{
		Rules:   []policy.Rule{{Effect: policy.Allow, Actions: []string{"*"}, Repos: []string{"*"}}},
		Catalog: credential.Catalog{},
	}
	v := g.HandleAPI("GET", "/repos/a/b", nil)
	if v.Kind != KindNoCredential {
		t.Fatalf("expected no-credential verdict, got %+v", v)
	}
}
