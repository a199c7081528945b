// Package refine implements the parameter refiner (C3): it resolves a
// refinement placeholder emitted by internal/classify into a concrete
// primitive action by inspecting the JSON request body. The refiner never
// fails — an absent or unparseable body is treated as an empty object,
// since the body is a hint, not a requirement.
package refine

import (
	"encoding/json"
	"strings"
)

const placeholderSuffix = "_PARAM_BRANCH"

// condition tests one named field of the decoded body.
type condition struct {
	field  string
	equals func(v interface{}) bool
	result string
}

// refinementTable maps a placeholder action to its ordered conditions,
// top-to-bottom, with a trailing default.
var refinementTable = map[string][]condition{
	"pr:create_PARAM_BRANCH": {
		{field: "draft", equals: isTrue, result: "pr:create_draft"},
	},
	"pr:update_PARAM_BRANCH": {
		{field: "state", equals: equalsString("closed"), result: "pr:close"},
		{field: "state", equals: equalsString("open"), result: "pr:reopen"},
		{field: "draft", equals: isTrue, result: "pr:convert_to_draft"},
		{field: "draft", equals: isFalse, result: "pr:mark_ready"},
	},
	"pr:merge_PARAM_BRANCH": {
		{field: "merge_method", equals: equalsString("squash"), result: "pr:merge_squash"},
		{field: "merge_method", equals: equalsString("rebase"), result: "pr:merge_rebase"},
	},
	"pr:review_PARAM_BRANCH": {
		{field: "event", equals: equalsUpper("APPROVE"), result: "pr:review_approve"},
		{field: "event", equals: equalsUpper("REQUEST_CHANGES"), result: "pr:review_request_changes"},
		{field: "event", equals: equalsUpper("COMMENT"), result: "pr:review_comment"},
	},
	"pr:review_submit_PARAM_BRANCH": {
		{field: "event", equals: equalsUpper("APPROVE"), result: "pr:review_submit_approve"},
		{field: "event", equals: equalsUpper("REQUEST_CHANGES"), result: "pr:review_submit_request_changes"},
	},
}

// defaults holds the fallback primitive for each placeholder when no
// condition in its table matches.
var defaults = map[string]string{
	"pr:create_PARAM_BRANCH":        "pr:create",
	"pr:update_PARAM_BRANCH":        "pr:update",
	"pr:merge_PARAM_BRANCH":         "pr:merge_commit",
	"pr:review_PARAM_BRANCH":        "pr:review_pending",
	"pr:review_submit_PARAM_BRANCH": "pr:review_submit_comment",
}

// Refine resolves action against body. If action carries no placeholder
// marker it is returned unchanged (P7, idempotence). If it carries the
// marker but isn't in the table, the marker is stripped and the remainder
// returned verbatim — the documented fallback for unlisted placeholders.
func Refine(action string, body []byte) string {
	if !strings.HasSuffix(action, placeholderSuffix) {
		return action
	}

	conditions, known := refinementTable[action]
	if !known {
		return strings.TrimSuffix(action, placeholderSuffix)
	}

	fields := decodeBody(body)

	for _, c := range conditions {
		if c.equals(fields[c.field]) {
			return c.result
		}
	}
	return defaults[action]
}

// decodeBody decodes body as a JSON object. A non-JSON or absent body
// decodes to an empty object rather than failing.
func decodeBody(body []byte) map[string]interface{} {
	if len(body) == 0 {
		return map[string]interface{}{}
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return map[string]interface{}{}
	}
	if fields == nil {
		return map[string]interface{}{}
	}
	return fields
}

func isTrue(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

func isFalse(v interface{}) bool {
	b, ok := v.(bool)
	return ok && !b
}

func equalsString(want string) func(interface{}) bool {
	return func(v interface{}) bool {
		s, ok := v.(string)
		return ok && s == want
	}
}

func equalsUpper(want string) func(interface{}) bool {
	return func(v interface{}) bool {
		s, ok := v.(string)
		return ok && strings.ToUpper(s) == want
	}
}
