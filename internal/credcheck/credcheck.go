// Package credcheck implements the /auth/status side channel: it
// validates each catalog credential against GitHub's /user endpoint on
// demand, so an operator can see which PATs are live without the core
// gate ever needing to make an outbound call of its own. Grounded on the
// original proxy's PAT-status check — the core (C1-C7) never calls
// GitHub; this is purely an operational helper.
package credcheck

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carrotRakko/ghgate/internal/credential"
	"github.com/carrotRakko/ghgate/internal/metrics"
)

// Status is the validity report for a single credential.
type Status struct {
	MaskedToken string   `json:"masked_token"`
	Valid       bool     `json:"valid"`
	User        string   `json:"user,omitempty"`
	Scopes      []string `json:"scopes,omitempty"`
	Repos       []string `json:"repos,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Report is the full /auth/status response body.
type Report struct {
	Fallback Status   `json:"fallback"`
	Scoped   []Status `json:"scoped"`
}

// Checker validates credentials against GitHub.
type Checker struct {
	client *http.Client
}

// New creates a Checker.
func New() *Checker {
	return &Checker{client: &http.Client{Timeout: 10 * time.Second}}
}

// Check validates every credential in catalog and returns a Report.
func (c *Checker) Check(ctx context.Context, catalog credential.Catalog) Report {
	var report Report
	if catalog.Fallback != "" {
		report.Fallback = c.checkOne(ctx, catalog.Fallback, nil)
	}
	for _, e := range catalog.Scoped {
		report.Scoped = append(report.Scoped, c.checkOne(ctx, e.Token, e.Repos))
	}
	return report
}

func (c *Checker) checkOne(ctx context.Context, token string, repos []string) (status Status) {
	defer func() {
		result := "invalid"
		if status.Valid {
			result = "valid"
		}
		metrics.CredentialCheckTotal.WithLabelValues(result).Inc()
	}()

	status = Status{MaskedToken: mask(token), Repos: repos}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.github.com/user", nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "ghgate")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.client.Do(req)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		status.Error = resp.Status + ": " + string(body)
		return status
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		status.Error = err.Error()
		return status
	}

	status.Valid = true
	status.User = user.Login
	if scopes := resp.Header.Get("X-OAuth-Scopes"); scopes != "" {
		status.Scopes = splitScopes(scopes)
	}
	return status
}

func mask(token string) string {
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func splitScopes(raw string) []string {
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
