// Package action defines the finite universe of primitive actions and the
// bundle/category expansions the policy evaluator and pattern engine
// reason about. The tables here are process-wide immutable and built at
// init time; nothing here reads configuration or does I/O.
package action

import "strings"

// Primitive actions, grouped by category. Format convention: "category:operation".
const (
	MetadataRead  = "metadata:read"
	MetadataWrite = "metadata:write"

	CodeRead  = "code:read"
	CodeWrite = "code:write"

	IssuesRead    = "issues:read"
	IssuesWrite   = "issues:write"
	IssuesComment = "issues:comment"

	StatusesRead  = "statuses:read"
	StatusesWrite = "statuses:write"

	ActionsRead  = "actions:read"
	ActionsWrite = "actions:write"

	GitRead  = "git:read"
	GitWrite = "git:write"

	PRRead               = "pr:read"
	PRCreate             = "pr:create"
	PRCreateDraft        = "pr:create_draft"
	PRUpdate             = "pr:update"
	PRClose              = "pr:close"
	PRReopen             = "pr:reopen"
	PRConvertToDraft     = "pr:convert_to_draft"
	PRMarkReady          = "pr:mark_ready"
	PRMergeCommit        = "pr:merge_commit"
	PRMergeSquash        = "pr:merge_squash"
	PRMergeRebase        = "pr:merge_rebase"
	PRReviewApprove      = "pr:review_approve"
	PRReviewReqChange    = "pr:review_request_changes"
	PRReviewComment      = "pr:review_comment"
	PRReviewPending      = "pr:review_pending"
	PRReviewSubApprove   = "pr:review_submit_approve"
	PRReviewSubReqChange = "pr:review_submit_request_changes"
	PRReviewSubComment   = "pr:review_submit_comment"

	DiscussionsRead  = "discussions:read"
	DiscussionsWrite = "discussions:write"

	// SubIssues primitives below have no REST endpoint and are only ever
	// produced by the CLI-helper side channel (internal/clihelper), never
	// by internal/classify.
	SubIssuesList         = "subissues:list"
	SubIssuesParent       = "subissues:parent"
	SubIssuesAdd          = "subissues:add"
	SubIssuesRemove       = "subissues:remove"
	SubIssuesReprioritize = "subissues:reprioritize"
)

// Bundle names, matching the forge's own permission-scope labels.
const (
	BundlePullRequestsRead  = "pull-requests:read"
	BundlePullRequestsWrite = "pull-requests:write"
	BundlePullsContribute   = "pulls:contribute"
	BundlePRMerge           = "pr:merge"
)

// universe is the ordered set of every primitive action. Every primitive
// used anywhere in the endpoint table, refinement table, or CLI-helper
// dispatch must appear here.
var universe = []string{
	MetadataRead, MetadataWrite,
	CodeRead, CodeWrite,
	IssuesRead, IssuesWrite, IssuesComment,
	StatusesRead, StatusesWrite,
	ActionsRead, ActionsWrite,
	GitRead, GitWrite,
	PRRead, PRCreate, PRCreateDraft, PRUpdate, PRClose, PRReopen,
	PRConvertToDraft, PRMarkReady,
	PRMergeCommit, PRMergeSquash, PRMergeRebase,
	PRReviewApprove, PRReviewReqChange, PRReviewComment, PRReviewPending,
	PRReviewSubApprove, PRReviewSubReqChange, PRReviewSubComment,
	DiscussionsRead, DiscussionsWrite,
	SubIssuesList, SubIssuesParent, SubIssuesAdd, SubIssuesRemove, SubIssuesReprioritize,
}

var universeSet = func() map[string]bool {
	m := make(map[string]bool, len(universe))
	for _, a := range universe {
		m[a] = true
	}
	return m
}()

var bundleExpansion = map[string][]string{
	BundlePullRequestsRead: {PRRead},
	BundlePullRequestsWrite: {
		PRRead, PRCreate, PRCreateDraft, PRUpdate, PRClose, PRReopen,
		PRConvertToDraft, PRMarkReady,
		PRReviewApprove, PRReviewReqChange, PRReviewComment, PRReviewPending,
		PRReviewSubApprove, PRReviewSubReqChange, PRReviewSubComment,
	},
	BundlePullsContribute: {PRRead, PRCreate, PRCreateDraft},
	BundlePRMerge:         {PRMergeCommit, PRMergeSquash, PRMergeRebase},
}

// categoryExpansion maps a category name to every primitive that carries it.
var categoryExpansion = func() map[string][]string {
	m := make(map[string][]string)
	for _, a := range universe {
		cat, _, ok := strings.Cut(a, ":")
		if !ok {
			continue
		}
		m[cat] = append(m[cat], a)
	}
	return m
}()

// Universe returns the ordered set of every primitive action.
func Universe() []string {
	out := make([]string, len(universe))
	copy(out, universe)
	return out
}

// ExpandBundle returns the primitives a bundle name expands to, or nil if
// name is not a known bundle.
func ExpandBundle(name string) []string {
	expansion, ok := bundleExpansion[name]
	if !ok {
		return nil
	}
	out := make([]string, len(expansion))
	copy(out, expansion)
	return out
}

// ExpandCategory returns every primitive sharing the given category, or
// nil if the category is unknown.
func ExpandCategory(category string) []string {
	expansion, ok := categoryExpansion[category]
	if !ok {
		return nil
	}
	out := make([]string, len(expansion))
	copy(out, expansion)
	return out
}

// IsPrimitive reports whether name is a primitive action in the universe.
func IsPrimitive(name string) bool {
	return universeSet[name]
}
