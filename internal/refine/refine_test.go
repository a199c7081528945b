package refine

import "testing"

func TestRefine_Create(t *testing.T) {
	if got := Refine("pr:create_PARAM_BRANCH", []byte(`{"draft":true}`)); got != "pr:create_draft" {
		t.Errorf("got %q, want pr:create_draft", got)
	}
	if got := Refine("pr:create_PARAM_BRANCH", []byte(`{}`)); got != "pr:create" {
		t.Errorf("got %q, want pr:create", got)
	}
}

// Scenario 3 from the spec's end-to-end examples.
func TestRefine_UpdateStateClosed(t *testing.T) {
	if got := Refine("pr:update_PARAM_BRANCH", []byte(`{"state":"closed"}`)); got != "pr:close" {
		t.Errorf("got %q, want pr:close", got)
	}
}

func TestRefine_UpdateStateOpen(t *testing.T) {
	if got := Refine("pr:update_PARAM_BRANCH", []byte(`{"state":"open"}`)); got != "pr:reopen" {
		t.Errorf("got %q, want pr:reopen", got)
	}
}

func TestRefine_UpdateDraftFlags(t *testing.T) {
	if got := Refine("pr:update_PARAM_BRANCH", []byte(`{"draft":true}`)); got != "pr:convert_to_draft" {
		t.Errorf("got %q, want pr:convert_to_draft", got)
	}
	if got := Refine("pr:update_PARAM_BRANCH", []byte(`{"draft":false}`)); got != "pr:mark_ready" {
		t.Errorf("got %q, want pr:mark_ready", got)
	}
	if got := Refine("pr:update_PARAM_BRANCH", []byte(`{}`)); got != "pr:update" {
		t.Errorf("got %q, want pr:update", got)
	}
}

func TestRefine_Merge(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"merge_method":"squash"}`, "pr:merge_squash"},
		{`{"merge_method":"rebase"}`, "pr:merge_rebase"},
		{`{"merge_method":"merge"}`, "pr:merge_commit"},
		{`{}`, "pr:merge_commit"},
	}
	for _, tt := range tests {
		if got := Refine("pr:merge_PARAM_BRANCH", []byte(tt.body)); got != tt.want {
			t.Errorf("Refine(merge, %s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestRefine_Review(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"event":"APPROVE"}`, "pr:review_approve"},
		{`{"event":"approve"}`, "pr:review_approve"},
		{`{"event":"REQUEST_CHANGES"}`, "pr:review_request_changes"},
		{`{"event":"COMMENT"}`, "pr:review_comment"},
		{`{}`, "pr:review_pending"},
	}
	for _, tt := range tests {
		if got := Refine("pr:review_PARAM_BRANCH", []byte(tt.body)); got != tt.want {
			t.Errorf("Refine(review, %s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestRefine_ReviewSubmit(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"event":"APPROVE"}`, "pr:review_submit_approve"},
		{`{"event":"REQUEST_CHANGES"}`, "pr:review_submit_request_changes"},
		{`{}`, "pr:review_submit_comment"},
	}
	for _, tt := range tests {
		if got := Refine("pr:review_submit_PARAM_BRANCH", []byte(tt.body)); got != tt.want {
			t.Errorf("Refine(review_submit, %s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

// P2: totality — refine never fails for any body shape, including
// invalid JSON and an absent body.
func TestRefine_TotalityOnAnyBody(t *testing.T) {
	bodies := [][]byte{nil, {}, []byte("not json"), []byte(`{"a":1}`), []byte(`[1,2,3]`), []byte(`null`)}
	for placeholder := range refinementTable {
		for _, body := range bodies {
			got := Refine(placeholder, body)
			if got == "" {
				t.Errorf("Refine(%q, %q) returned empty", placeholder, body)
			}
		}
	}
}

// P7: idempotent refinement — a non-placeholder primitive passes through
// unchanged regardless of body.
func TestRefine_IdempotentForPrimitives(t *testing.T) {
	if got := Refine("metadata:read", []byte(`{"anything":true}`)); got != "metadata:read" {
		t.Errorf("got %q, want metadata:read unchanged", got)
	}
}

func TestRefine_UnknownPlaceholderStripsSuffix(t *testing.T) {
	if got := Refine("some:thing_PARAM_BRANCH", nil); got != "some:thing" {
		t.Errorf("got %q, want some:thing", got)
	}
}
