package playback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lab-control/lcc/config"
)

func TestFetchRecording(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sessions/sess-42/playback" {
			t.Errorf("path = %q", r.URL.Path)
		}
		// The speed parameter is only an advisory hint; the client always
		// requests the canonical scale.
		if r.URL.Query().Get("speed") != "1" {
			t.Errorf("speed hint = %q, want 1", r.URL.Query().Get("speed"))
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"session": {"sessionId": "sess-42", "labId": "lab-01", "durationMs": 3000},
			"events": [
				{"eventId": "e1", "elapsedMs": 0, "eventType": "lab_started"},
				{"eventId": "e2", "elapsedMs": 1500, "eventType": "container_status", "hostname": "web-01"},
				{"eventId": "e3", "elapsedMs": 3000, "eventType": "lab_stopped"}
			]
		}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, "tok-123", config.Baseline())
	meta, log, err := fetcher.Fetch(context.Background(), "sess-42")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if meta.SessionID != "sess-42" || meta.LabID != "lab-01" {
		t.Errorf("session meta = %+v", meta)
	}
	if log.Len() != 3 || log.DurationMs() != 3000 {
		t.Errorf("log len=%d duration=%d", log.Len(), log.DurationMs())
	}
	if log.Event(1).Hostname != "web-01" {
		t.Errorf("event payload lost: %+v", log.Event(1))
	}
}

func TestFetchEmptyRecording(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session": {"sessionId": "sess-0", "labId": "lab-01"}, "events": []}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, "tok", config.Baseline())
	_, log, err := fetcher.Fetch(context.Background(), "sess-0")
	if err != nil {
		t.Fatalf("empty recording must fetch cleanly: %v", err)
	}
	if !log.Empty() {
		t.Error("expected empty log")
	}
}

func TestFetchOutOfOrderIsHardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"session": {"sessionId": "sess-9", "labId": "lab-01"},
			"events": [
				{"eventId": "e1", "elapsedMs": 2000, "eventType": "a"},
				{"eventId": "e2", "elapsedMs": 1000, "eventType": "b"}
			]
		}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, "tok", config.Baseline())
	_, _, err := fetcher.Fetch(context.Background(), "sess-9")
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("got %v, want ErrOutOfOrder surfaced to the caller", err)
	}
}

func TestFetchHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, "tok", config.Baseline())
	if _, _, err := fetcher.Fetch(context.Background(), "sess-1"); err == nil {
		t.Error("expected error for non-200 response")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session":`))
	}))
	defer bad.Close()

	fetcher = NewFetcher(bad.URL, "tok", config.Baseline())
	if _, _, err := fetcher.Fetch(context.Background(), "sess-1"); err == nil {
		t.Error("expected error for malformed response body")
	}
}
