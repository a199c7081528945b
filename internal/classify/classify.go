// Package classify implements the endpoint classifier (C2): it maps an
// HTTP method and URL path to a primitive action (or a refinement
// placeholder resolved later by internal/refine) plus the path's named
// capture groups. The table is ordered and first-match-wins; re-ordering
// entries is an observable behavioral change.
package classify

import (
	"regexp"
	"strings"
)

// Result is what Classify/ClassifyGit returns on a match.
type Result struct {
	// Action is a primitive action or a "_PARAM_BRANCH"-suffixed placeholder.
	Action string
	// Params holds the path's named capture groups (at minimum "owner", "repo").
	Params map[string]string
}

type rule struct {
	method  string
	pattern *regexp.Regexp
	action  string
}

// Classify scans the endpoint table in declaration order and returns the
// first rule whose method matches and whose pattern anchor-matches path.
// Returns (nil) when nothing matches — callers must treat this as a
// denial (forbidden endpoint), never as an error.
//
// Verbs outside {GET, POST, PUT, PATCH, DELETE} never match. path must
// not include the query string; every table pattern ends in its own "$"
// anchor, so a trailing query string would make it fail to match.
func Classify(method, path string) *Result {
	return scan(endpointTable, method, path)
}

// ClassifyGit is Classify's counterpart for the git smart-HTTP branch. The
// query string is consulted only for the "info/refs" sub-path, where
// "service=git-receive-pack" selects git:write and anything else selects
// git:read — the only endpoint where the query influences classification.
func ClassifyGit(method, path, query string) *Result {
	if m := infoRefsPattern.FindStringSubmatch(path); m != nil && (method == "GET" || method == "POST") {
		action := "git:read"
		if hasReceivePackService(query) {
			action = "git:write"
		}
		return &Result{Action: action, Params: namedGroups(infoRefsPattern, m)}
	}
	return scan(gitEndpointTable, method, path)
}

func scan(table []rule, method, path string) *Result {
	if !isSupportedMethod(method) {
		return nil
	}
	for _, r := range table {
		if r.method != "" && r.method != method {
			continue
		}
		m := r.pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		return &Result{Action: r.action, Params: namedGroups(r.pattern, m)}
	}
	return nil
}

func isSupportedMethod(method string) bool {
	switch method {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}

func namedGroups(re *regexp.Regexp, m []string) map[string]string {
	out := make(map[string]string, 2)
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		out[name] = m[i]
	}
	return out
}

func hasReceivePackService(query string) bool {
	// query is the raw query string; the only value that matters is an
	// exact match, so no net/url parse is needed.
	for _, pair := range strings.Split(query, "&") {
		if pair == "service=git-receive-pack" {
			return true
		}
	}
	return false
}

// ExtractRepo returns "owner/repo" from a Result's params, or "" if either
// capture is missing. The caller (the gate orchestrator) treats a missing
// capture as a malformed-path 400.
func ExtractRepo(params map[string]string) string {
	owner, repo := params["owner"], params["repo"]
	if owner == "" || repo == "" {
		return ""
	}
	return owner + "/" + repo
}
