// Package forwarder is the upstream forwarder: given a verdict's chosen
// credential, it rewrites the request for GitHub, attaches the
// credential, and streams the response back. Nothing here feeds back
// into the gate — by the time a request reaches here, the orchestrator
// has already produced its Verdict.
package forwarder

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carrotRakko/ghgate/internal/metrics"
)

const (
	githubAPIBase = "https://api.github.com"
	githubBase    = "https://github.com"
	gitUserAgent  = "git/2.40.0"
)

// Forwarder holds the upstream HTTP client.
type Forwarder struct {
	client *http.Client
	logger *slog.Logger
}

// New creates a Forwarder.
func New(logger *slog.Logger) *Forwarder {
	return &Forwarder{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// ForwardAPI rewrites path onto https://api.github.com, attaches
// credential as a classic-PAT Authorization header, and streams the
// upstream response back through w. Returns the upstream status code (or
// a synthesized one on transport failure) for audit/metrics purposes.
func (f *Forwarder) ForwardAPI(ctx context.Context, w http.ResponseWriter, r *http.Request, path, credential string) int {
	target := githubAPIBase + path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	proxyReq, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create upstream request")
		return http.StatusInternalServerError
	}

	for _, key := range []string{"Content-Type", "Accept", "User-Agent"} {
		if v := r.Header.Get(key); v != "" {
			proxyReq.Header.Set(key, v)
		}
	}
	proxyReq.Header.Set("Authorization", "token "+credential)

	return f.do(w, proxyReq, r.Method)
}

// ForwardGit appends gitPath ("/{owner}/{repo}.git/...", the request path
// with its "/git" prefix already removed by the caller) to
// "https://github.com", attaches credential via
// HTTP Basic auth with the "x-access-token" username (the form GitHub's
// smart-HTTP git transport expects for PAT-based auth), and streams the
// response back.
func (f *Forwarder) ForwardGit(ctx context.Context, w http.ResponseWriter, r *http.Request, gitPath, credential string) int {
	target := githubBase + gitPath
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	proxyReq, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create upstream request")
		return http.StatusInternalServerError
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		proxyReq.Header.Set("Content-Type", ct)
	}
	proxyReq.Header.Set("User-Agent", gitUserAgent)
	proxyReq.Header.Set("Authorization", basicAuth("x-access-token", credential))

	return f.do(w, proxyReq, r.Method)
}

func (f *Forwarder) do(w http.ResponseWriter, proxyReq *http.Request, method string) int {
	start := time.Now()
	resp, err := f.client.Do(proxyReq)
	if err != nil {
		f.logger.Error("upstream request failed", "error", err)
		writeError(w, http.StatusBadGateway, "Upstream request failed")
		metrics.ForwardedRequestTotal.WithLabelValues(method, "502").Inc()
		return http.StatusBadGateway
	}
	defer resp.Body.Close()

	for _, key := range []string{
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "X-RateLimit-Used",
	} {
		if v := resp.Header.Get(key); v != "" {
			w.Header().Set(key, v)
		}
	}

	for key, vals := range resp.Header {
		// Keys in resp.Header are in canonical MIME form ("X-Github-...").
		if strings.HasPrefix(strings.ToLower(key), "x-github") || key == "Link" || key == "Content-Type" {
			for _, v := range vals {
				w.Header().Add(key, v)
			}
		}
	}

	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)

	status := strconv.Itoa(resp.StatusCode)
	metrics.ForwardedRequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
	metrics.ForwardedRequestTotal.WithLabelValues(method, status).Inc()

	return resp.StatusCode
}

func basicAuth(username, password string) string {
	creds := username + ":" + password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}
