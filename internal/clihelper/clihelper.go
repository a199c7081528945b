// Package clihelper implements the /cli side channel for operations that
// have no REST endpoint: GitHub Discussions and Sub-Issues, both
// GraphQL-only surfaces. Every command still resolves to an explicit
// action and runs through the same gate the API and git branches use —
// this package only supplies the GraphQL transport, grounded on the
// original proxy's discussion.py/sub_issue.py command modules.
package clihelper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request is the decoded /cli POST body: {"args": [...], "repo": "owner/repo"}.
type Request struct {
	Args []string `json:"args"`
	Repo string   `json:"repo"`
}

// commandActions maps a clihelper command name to the action it requires.
var commandActions = map[string]string{
	"discussion:list":    "discussions:read",
	"discussion:view":    "discussions:read",
	"discussion:create":  "discussions:write",
	"discussion:edit":    "discussions:write",
	"discussion:comment": "discussions:write",

	"subissue:list":    "subissues:list",
	"subissue:parent":  "subissues:parent",
	"subissue:add":     "subissues:add",
	"subissue:remove":  "subissues:remove",
	"subissue:reorder": "subissues:reprioritize",
}

// ActionFor returns the action a command (e.g. "discussion" with
// subcommand args[0] "create") requires, or "" if the command is unknown.
func ActionFor(command string, args []string) string {
	if len(args) == 0 {
		return ""
	}
	return commandActions[command+":"+args[0]]
}

// Client executes resolved clihelper commands via GitHub's GraphQL API.
type Client struct {
	httpClient *http.Client
}

// New creates a Client.
func New() *Client {
	return &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// graphQLRequest is the wire body GitHub's GraphQL endpoint expects.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute runs a GraphQL query/mutation against GitHub using credential,
// returning the raw "data" payload. A direct POST rather than a generated
// GraphQL client, since every query here is small and fixed.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, credential string, extraHeaders map[string]string) (json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.github.com/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "bearer "+credential)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ghgate")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", result.Errors[0].Message)
	}
	return result.Data, nil
}

// IssueNodeID resolves an issue's GraphQL node ID, requesting the
// sub_issues GraphQL feature preview header.
func (c *Client) IssueNodeID(ctx context.Context, owner, repo string, number int, credential string) (string, error) {
	const query = `
	query($owner: String!, $repo: String!, $number: Int!) {
		repository(owner: $owner, name: $repo) {
			issue(number: $number) {
				id
			}
		}
	}`
	variables := map[string]any{"owner": owner, "repo": repo, "number": number}
	data, err := c.Execute(ctx, query, variables, credential, map[string]string{"GraphQL-Features": "sub_issues"})
	if err != nil {
		return "", err
	}
	var parsed struct {
		Repository struct {
			Issue struct {
				ID string `json:"id"`
			} `json:"issue"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	if parsed.Repository.Issue.ID == "" {
		return "", fmt.Errorf("issue #%d not found in %s/%s", number, owner, repo)
	}
	return parsed.Repository.Issue.ID, nil
}

// AddSubIssue attaches child as a sub-issue of parent.
func (c *Client) AddSubIssue(ctx context.Context, parentID, childID, credential string) error {
	const mutation = `
	mutation($issueId: ID!, $subIssueId: ID!) {
		addSubIssue(input: {issueId: $issueId, subIssueId: $subIssueId}) {
			clientMutationId
		}
	}`
	variables := map[string]any{"issueId": parentID, "subIssueId": childID}
	_, err := c.Execute(ctx, mutation, variables, credential, map[string]string{"GraphQL-Features": "sub_issues"})
	return err
}

// RemoveSubIssue detaches child from parent.
func (c *Client) RemoveSubIssue(ctx context.Context, parentID, childID, credential string) error {
	const mutation = `
	mutation($issueId: ID!, $subIssueId: ID!) {
		removeSubIssue(input: {issueId: $issueId, subIssueId: $subIssueId}) {
			clientMutationId
		}
	}`
	variables := map[string]any{"issueId": parentID, "subIssueId": childID}
	_, err := c.Execute(ctx, mutation, variables, credential, map[string]string{"GraphQL-Features": "sub_issues"})
	return err
}
