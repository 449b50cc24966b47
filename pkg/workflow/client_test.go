package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrigger_ReturnsRunID(t *testing.T) {
	var gotAuth string
	var gotBody TriggerRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/trigger" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode trigger body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"workflowRunId": "wfr_abc123"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "engine-token")
	run, err := client.Trigger(context.Background(), TriggerRequest{
		URL:  "http://localhost:8080/api/v1/workflows/reminders",
		Body: map[string]string{"subscriptionId": "sub-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.WorkflowRunID != "wfr_abc123" {
		t.Errorf("expected run id from engine, got %q", run.WorkflowRunID)
	}
	if gotAuth != "Bearer engine-token" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody.URL == "" {
		t.Error("trigger request must carry the callback URL")
	}
}

func TestTrigger_EngineErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "engine-token")
	if _, err := client.Trigger(context.Background(), TriggerRequest{URL: "http://example.com"}); err == nil {
		t.Fatal("expected an error when the engine fails")
	}
}
