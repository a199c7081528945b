package classify

import "regexp"

// repoPrefix anchors every API-branch pattern to "/repos/{owner}/{repo}".
const repoPrefix = `^/repos/(?P<owner>[^/]+)/(?P<repo>[^/]+)`

func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

// endpointTable is the ordered, first-match-wins API-branch endpoint
// table. Declaration order matters: overlapping patterns rely on earlier,
// more specific entries being listed first.
var endpointTable = []rule{
	// Pull requests — sub-resource paths first, then single-PR paths, then
	// the collection path. Five of these entries are body-dependent
	// placeholders (review submit, review, merge, update, create).
	{"GET", compile(repoPrefix + `/pulls/(?P<number>\d+)/(?:files|commits|requested_reviewers)$`), "pr:read"},
	{"POST", compile(repoPrefix + `/pulls/(?P<number>\d+)/reviews/(?P<review_id>\d+)/events$`), "pr:review_submit_PARAM_BRANCH"},
	{"POST", compile(repoPrefix + `/pulls/(?P<number>\d+)/reviews$`), "pr:review_PARAM_BRANCH"},
	{"PUT", compile(repoPrefix + `/pulls/(?P<number>\d+)/merge$`), "pr:merge_PARAM_BRANCH"},
	{"PATCH", compile(repoPrefix + `/pulls/(?P<number>\d+)$`), "pr:update_PARAM_BRANCH"},
	{"GET", compile(repoPrefix + `/pulls/(?P<number>\d+)$`), "pr:read"},
	{"GET", compile(repoPrefix + `/pulls$`), "pr:read"},
	{"POST", compile(repoPrefix + `/pulls$`), "pr:create_PARAM_BRANCH"},

	// Issues.
	{"GET", compile(repoPrefix + `/issues/(?P<number>\d+)/comments$`), "issues:read"},
	{"POST", compile(repoPrefix + `/issues/(?P<number>\d+)/comments$`), "issues:comment"},
	{"POST", compile(repoPrefix + `/issues/(?P<number>\d+)/labels$`), "issues:write"},
	{"DELETE", compile(repoPrefix + `/issues/(?P<number>\d+)/labels/(?P<label>[^/]+)$`), "issues:write"},
	{"POST", compile(repoPrefix + `/issues/(?P<number>\d+)/assignees$`), "issues:write"},
	{"DELETE", compile(repoPrefix + `/issues/(?P<number>\d+)/assignees$`), "issues:write"},
	{"GET", compile(repoPrefix + `/issues/(?P<number>\d+)$`), "issues:read"},
	{"PATCH", compile(repoPrefix + `/issues/(?P<number>\d+)$`), "issues:write"},
	{"GET", compile(repoPrefix + `/issues$`), "issues:read"},
	{"POST", compile(repoPrefix + `/issues$`), "issues:write"},

	// Commit statuses & check runs.
	{"GET", compile(repoPrefix + `/commits/(?P<sha>[0-9a-fA-F]+)/status$`), "statuses:read"},
	{"GET", compile(repoPrefix + `/commits/(?P<sha>[0-9a-fA-F]+)/check-runs$`), "statuses:read"},
	{"POST", compile(repoPrefix + `/statuses/(?P<sha>[0-9a-fA-F]+)$`), "statuses:write"},
	{"POST", compile(repoPrefix + `/check-runs$`), "statuses:write"},

	// Actions.
	{"GET", compile(repoPrefix + `/actions/runs(?:/(?P<run_id>\d+))?$`), "actions:read"},
	{"POST", compile(repoPrefix + `/actions/workflows/(?P<workflow_id>[^/]+)/dispatches$`), "actions:write"},

	// Code: contents, branches, tags, trees, blobs, commits, compare.
	{"GET", compile(repoPrefix + `/contents(?:/.*)?$`), "code:read"},
	{"PUT", compile(repoPrefix + `/contents/.*$`), "code:write"},
	{"DELETE", compile(repoPrefix + `/contents/.*$`), "code:write"},
	{"GET", compile(repoPrefix + `/branches(?:/.*)?$`), "code:read"},
	{"GET", compile(repoPrefix + `/commits(?:/.*)?$`), "code:read"},
	{"GET", compile(repoPrefix + `/compare/.*$`), "code:read"},
	{"GET", compile(repoPrefix + `/git/(?:refs|trees|blobs|commits|tags)(?:/.*)?$`), "code:read"},
	{"POST", compile(repoPrefix + `/git/(?:refs|trees|blobs|commits|tags)$`), "code:write"},
	{"PATCH", compile(repoPrefix + `/git/refs/.*$`), "code:write"},

	// Releases.
	{"GET", compile(repoPrefix + `/releases(?:/.*)?$`), "metadata:read"},
	{"POST", compile(repoPrefix + `/releases$`), "metadata:write"},

	// Repo metadata itself, last since it is the least specific pattern.
	{"GET", compile(repoPrefix + `$`), "metadata:read"},
}

// gitEndpointTable covers the git-smart-HTTP branch other than info/refs,
// which ClassifyGit handles separately because it needs the query string.
var gitEndpointTable = []rule{
	{"POST", compile(`^/(?P<owner>[^/]+)/(?P<repo>[^/]+)\.git/git-upload-pack$`), "git:read"},
	{"POST", compile(`^/(?P<owner>[^/]+)/(?P<repo>[^/]+)\.git/git-receive-pack$`), "git:write"},
}

var infoRefsPattern = compile(`^/(?P<owner>[^/]+)/(?P<repo>[^/]+)\.git/info/refs$`)
