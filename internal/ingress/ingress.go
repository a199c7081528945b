// Package ingress is the HTTP front door: it owns the net/http server,
// request/response I/O, route dispatch, and the audit/metrics side
// effects that follow every gate verdict.
package ingress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/carrotRakko/ghgate/internal/audit"
	"github.com/carrotRakko/ghgate/internal/clihelper"
	"github.com/carrotRakko/ghgate/internal/config"
	"github.com/carrotRakko/ghgate/internal/credcheck"
	"github.com/carrotRakko/ghgate/internal/credential"
	"github.com/carrotRakko/ghgate/internal/forwarder"
	"github.com/carrotRakko/ghgate/internal/gate"
	"github.com/carrotRakko/ghgate/internal/metrics"
	"github.com/carrotRakko/ghgate/internal/policy"
)

// Server is the ghgate gate server.
type Server struct {
	cfg    *config.Config
	gate   *gate.Gate
	fwd    *forwarder.Forwarder
	checks *credcheck.Checker
	cli    *clihelper.Client
	store  audit.Store
	logger *slog.Logger
}

// New creates a Server. g is the pre-built gate (rules + credential
// catalog loaded by internal/ruleset); store persists a row per decision.
func New(cfg *config.Config, g *gate.Gate, store audit.Store, logger *slog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		gate:   g,
		fwd:    forwarder.New(logger),
		checks: credcheck.New(),
		cli:    clihelper.New(),
		store:  store,
		logger: logger,
	}
}

// Run starts the server and blocks until ctx is cancelled or a shutdown
// signal arrives.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/status", s.handleAuthStatus)
	mux.HandleFunc("/audit", s.handleAudit)
	mux.HandleFunc("/cli", s.handleCLI)
	mux.HandleFunc("/git/", s.handleGit)
	mux.HandleFunc("/", s.handleAPI)

	ln, err := s.createListener()
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}

	httpServer := &http.Server{Handler: mux}

	if s.cfg.Metrics.Enabled {
		go metrics.Serve(s.cfg.Metrics.Listen, s.logger)
	}

	shutdownCtx, cancel := signal.NotifyContext(ctx, shutdownSignals()...)
	defer cancel()

	setupPlatformSignals(s.logger)

	go func() {
		<-shutdownCtx.Done()
		s.logger.Info("server_shutdown", "msg", "shutting down")
		httpServer.Shutdown(context.Background())
	}()

	s.logger.Info("server_ready", "listen", s.cfg.Server.Listen, "msg", "ready to accept connections")
	notifySystemd("READY=1")

	if err := httpServer.Serve(ln); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	notifySystemd("STOPPING=1")
	return nil
}

func (s *Server) createListener() (net.Listener, error) {
	addr := s.cfg.Server.Listen

	if s.cfg.Server.SystemdSocketActivation {
		if fds := os.Getenv("LISTEN_FDS"); fds == "1" {
			f := os.NewFile(3, "systemd-socket")
			return net.FileListener(f)
		}
		s.logger.Warn("systemd socket activation configured but LISTEN_FDS not set, falling back to configured address")
	}

	if strings.HasPrefix(addr, "unix://") {
		sockPath := strings.TrimPrefix(addr, "unix://")
		os.Remove(sockPath)
		return net.Listen("unix", sockPath)
	}

	return net.Listen("tcp", addr)
}

func notifySystemd(state string) {
	socketPath := os.Getenv("NOTIFY_SOCKET")
	if socketPath == "" {
		return
	}
	conn, err := net.Dial("unixgram", socketPath)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.Write([]byte(state))
}

// handleAPI is the default route: classify -> refine -> evaluate ->
// select -> forward.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	verdict := s.gate.HandleAPI(r.Method, r.URL.Path, body)
	s.record(r.Context(), r.Method, r.URL.Path, verdict, start)

	if !verdict.Allowed {
		writeError(w, statusFor(verdict.Kind), verdict.Reason)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	s.fwd.ForwardAPI(r.Context(), w, r, r.URL.Path, verdict.Credential)
}

// handleGit strips the "/git" prefix and runs the git-branch pipeline.
func (s *Server) handleGit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	gitPath := strings.TrimPrefix(r.URL.Path, "/git")

	verdict := s.gate.HandleGit(r.Method, gitPath, r.URL.RawQuery)
	s.record(r.Context(), r.Method, r.URL.Path, verdict, start)

	if !verdict.Allowed {
		writeError(w, statusFor(verdict.Kind), verdict.Reason)
		return
	}

	s.fwd.ForwardGit(r.Context(), w, r, gitPath, verdict.Credential)
}

// handleCLI resolves a clihelper command to an action, runs it through
// the same evaluate+select pipeline as the other branches, and hands an
// allowed command to dispatchCLI. Only discussion/sub-issue commands are
// recognized — anything else is an unmatched endpoint, since a raw `gh`
// passthrough is not something the gate can classify.
func (s *Server) handleCLI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Only POST is allowed")
		return
	}

	start := time.Now()

	var body clihelper.Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if len(body.Args) == 0 {
		writeError(w, http.StatusBadRequest, "args is required")
		return
	}
	if body.Repo == "" {
		writeError(w, http.StatusBadRequest, "repo is required")
		return
	}

	command := body.Args[0]
	action := clihelper.ActionFor(command, body.Args[1:])
	if action == "" {
		v := gateVerdictUnmatched()
		s.record(r.Context(), r.Method, r.URL.Path, v, start)
		metrics.CLIRequestTotal.WithLabelValues(command, string(v.Kind)).Inc()
		writeError(w, http.StatusNotFound, "Unknown CLI command")
		return
	}

	allowed, reason := policy.Evaluate(action, body.Repo, s.gate.Rules)
	if !allowed {
		v := gate.Verdict{Kind: gate.KindPolicyDenied, Action: action, Repo: body.Repo, Reason: reason}
		s.record(r.Context(), r.Method, r.URL.Path, v, start)
		metrics.CLIRequestTotal.WithLabelValues(command, string(v.Kind)).Inc()
		writeError(w, http.StatusForbidden, reason)
		return
	}

	cred, ok := credential.Select(body.Repo, s.gate.Catalog)
	if !ok {
		v := gate.Verdict{Kind: gate.KindNoCredential, Action: action, Repo: body.Repo, Reason: "No PAT configured"}
		s.record(r.Context(), r.Method, r.URL.Path, v, start)
		metrics.CLIRequestTotal.WithLabelValues(command, string(v.Kind)).Inc()
		writeError(w, http.StatusForbidden, "No PAT configured")
		return
	}

	v := gate.Verdict{Kind: gate.KindAllowed, Allowed: true, Action: action, Repo: body.Repo, Credential: cred, Reason: "Allowed"}
	s.record(r.Context(), r.Method, r.URL.Path, v, start)
	metrics.CLIRequestTotal.WithLabelValues(command, string(v.Kind)).Inc()

	s.dispatchCLI(w, r.Context(), command, body.Args[1:], body.Repo, cred)
}

// dispatchCLI executes the subset of clihelper commands this deployment
// implements end to end (sub-issue attach/detach, which has no REST
// equivalent). Every other recognized command has already been gated
// above; only its execution is not wired.
func (s *Server) dispatchCLI(w http.ResponseWriter, ctx context.Context, command string, args []string, repo, cred string) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		writeError(w, http.StatusBadRequest, "repo must be owner/name")
		return
	}

	switch {
	case command == "subissue" && len(args) > 0 && (args[0] == "add" || args[0] == "remove") && len(args) >= 3:
		parentNum, err1 := strconv.Atoi(args[1])
		childNum, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "parent and child issue numbers required")
			return
		}
		parentID, err := s.cli.IssueNodeID(ctx, owner, name, parentNum, cred)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		childID, err := s.cli.IssueNodeID(ctx, owner, name, childNum, cred)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		if args[0] == "add" {
			err = s.cli.AddSubIssue(ctx, parentID, childID, cred)
		} else {
			err = s.cli.RemoveSubIssue(ctx, parentID, childID, cred)
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"exit_code": 0})

	default:
		writeError(w, http.StatusNotImplemented, "CLI command accepted but execution is not wired for this deployment")
	}
}

// handleAudit is an operator-facing read endpoint over the audit log,
// filtered by repo/action/kind query parameters. It is a plain,
// unauthenticated local endpoint — there is no per-user audit scoping,
// since credentials are a shared catalog rather than per-session tokens.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Only GET is allowed")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Repo:   q.Get("repo"),
		Action: q.Get("action"),
		Kind:   q.Get("kind"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = offset
	}

	entries, err := s.store.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list audit entries")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// handleAuthStatus drives internal/credcheck against the whole catalog.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Only GET is allowed")
		return
	}
	report := s.checks.Check(r.Context(), s.gate.Catalog)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) record(ctx context.Context, method, path string, v gate.Verdict, start time.Time) {
	duration := time.Since(start)
	metrics.GateDecisionsTotal.WithLabelValues(v.Action, v.Repo, string(v.Kind)).Inc()

	owner := ""
	if idx := strings.Index(v.Repo, "/"); idx > 0 {
		owner = v.Repo[:idx]
	}

	entry := &audit.Entry{
		Method:     method,
		Path:       path,
		Owner:      owner,
		Repo:       v.Repo,
		Action:     v.Action,
		Kind:       string(v.Kind),
		Allowed:    v.Allowed,
		Reason:     v.Reason,
		Credential: maskCredential(v.Credential),
		DurationMS: duration.Milliseconds(),
	}
	if v.Allowed {
		s.logger.Info("gate_decision", "action", v.Action, "repo", v.Repo, "kind", v.Kind)
	} else {
		s.logger.Info("gate_decision", "action", v.Action, "repo", v.Repo, "kind", v.Kind, "reason", v.Reason)
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry", "error", err)
	}
}

func maskCredential(cred string) string {
	if cred == "" {
		return ""
	}
	if len(cred) <= 8 {
		return "****"
	}
	return cred[:4] + "..."
}

func statusFor(kind gate.Kind) int {
	switch kind {
	case gate.KindMalformedPath:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}

func gateVerdictUnmatched() gate.Verdict {
	return gate.Verdict{Kind: gate.KindUnmatchedEndpoint, Reason: "Unknown CLI command"}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

