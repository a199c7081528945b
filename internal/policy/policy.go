// Package policy implements the IAM-style policy evaluator: given an
// action, a target repository, and an ordered list of rules, it decides
// allow or deny with deny-wins precedence and an implicit default deny.
// Evaluation is pure: no I/O, no mutation, safe for concurrent callers.
package policy

import (
	"fmt"

	"github.com/carrotRakko/ghgate/internal/match"
)

// Effect is a rule's outcome when it matches.
type Effect string

const (
	Allow Effect = "allow"
	Deny  Effect = "deny"
)

// Rule is one entry in a ruleset: {effect, actions: [pattern...], repos: [pattern...]}.
type Rule struct {
	Effect  Effect
	Actions []string
	Repos   []string
}

// Evaluate returns (allowed, reason) for action against repo, scanning
// rules in declaration order. A deny match short-circuits immediately
// (deny-wins); absent any match, the result is an implicit deny.
func Evaluate(action, repo string, rules []Rule) (bool, string) {
	hasAllow := false

	for i, rule := range rules {
		if !actionMatches(action, rule.Actions) {
			continue
		}
		if !repoMatches(repo, rule.Repos) {
			continue
		}

		switch rule.Effect {
		case Deny:
			return false, fmt.Sprintf("Denied by rule %d (action=%s repo=%s)", i, action, repo)
		case Allow:
			hasAllow = true
		}
	}

	if hasAllow {
		return true, "Allowed"
	}
	return false, "No matching allow rule for action on repo"
}

func actionMatches(action string, patterns []string) bool {
	for _, p := range patterns {
		for _, expanded := range match.ExpandActionPattern(p) {
			if expanded == action {
				return true
			}
		}
	}
	return false
}

func repoMatches(repo string, patterns []string) bool {
	for _, p := range patterns {
		if match.Repo(p, repo) {
			return true
		}
	}
	return false
}
