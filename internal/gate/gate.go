// Package gate implements the gate orchestrator (C7): it drives
// classification, refinement, evaluation, and credential selection for
// each incoming request and produces a Verdict. The orchestrator itself
// is stateless and does no I/O — callers (internal/ingress) read the
// request body and own the HTTP response.
package gate

import (
	"github.com/carrotRakko/ghgate/internal/classify"
	"github.com/carrotRakko/ghgate/internal/credential"
	"github.com/carrotRakko/ghgate/internal/policy"
	"github.com/carrotRakko/ghgate/internal/refine"
)

// Kind distinguishes why a request was denied, so the ingress layer can
// map it to the right HTTP status.
type Kind string

const (
	KindAllowed           Kind = "allowed"
	KindUnmatchedEndpoint Kind = "unmatched_endpoint"
	KindMalformedPath     Kind = "malformed_path"
	KindPolicyDenied      Kind = "policy_denied"
	KindNoCredential      Kind = "no_credential"
)

// Verdict is the orchestrator's per-request output.
type Verdict struct {
	Kind       Kind
	Allowed    bool
	Action     string
	Repo       string
	Credential string
	Reason     string
}

// Gate bundles the immutable, process-wide config the orchestrator reads:
// the ruleset's rules and the credential catalog. Both are built once at
// startup by internal/ruleset and never mutated afterward.
type Gate struct {
	Rules   []policy.Rule
	Catalog credential.Catalog
}

// HandleAPI runs the API-branch pipeline: classify → refine → evaluate →
// select.
func (g *Gate) HandleAPI(method, path string, body []byte) Verdict {
	result := classify.Classify(method, path)
	if result == nil {
		return Verdict{Kind: KindUnmatchedEndpoint, Reason: "Endpoint not allowed"}
	}

	repo := classify.ExtractRepo(result.Params)
	if repo == "" {
		return Verdict{Kind: KindMalformedPath, Reason: "Malformed request path"}
	}

	action := refine.Refine(result.Action, body)

	return g.decide(action, repo)
}

// HandleGit runs the git-branch pipeline: classify_git → evaluate →
// select. There is no body refinement on this branch.
func (g *Gate) HandleGit(method, path, query string) Verdict {
	result := classify.ClassifyGit(method, path, query)
	if result == nil {
		return Verdict{Kind: KindUnmatchedEndpoint, Reason: "Endpoint not allowed"}
	}

	repo := classify.ExtractRepo(result.Params)
	if repo == "" {
		return Verdict{Kind: KindMalformedPath, Reason: "Malformed request path"}
	}

	return g.decide(result.Action, repo)
}

func (g *Gate) decide(action, repo string) Verdict {
	allowed, reason := policy.Evaluate(action, repo, g.Rules)
	if !allowed {
		return Verdict{Kind: KindPolicyDenied, Action: action, Repo: repo, Reason: reason}
	}

	cred, ok := credential.Select(repo, g.Catalog)
	if !ok {
		return Verdict{Kind: KindNoCredential, Action: action, Repo: repo, Reason: "No PAT configured"}
	}

	return Verdict{Kind: KindAllowed, Allowed: true, Action: action, Repo: repo, Credential: cred, Reason: "Allowed"}
}
