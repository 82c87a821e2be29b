package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClientFetchBoxScore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getMLBBoxScore" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("gameID") != "20240905_BOS@NYY" {
			t.Errorf("unexpected gameID %q", r.URL.Query().Get("gameID"))
		}
		if r.Header.Get("x-rapidapi-key") != "secret" {
			t.Errorf("expected api key header")
		}
		_, _ = w.Write([]byte(`{"body":{"playerStats":{"663728":{"playerID":"663728","longName":"Triston Casas","teamAbv":"BOS","pos":"1B","Hitting":{"H":"2"}}}}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret"})
	box, err := client.FetchBoxScore(context.Background(), SourceMLB, "20240905_BOS@NYY")
	if err != nil {
		t.Fatalf("FetchBoxScore: %v", err)
	}
	if len(box.PlayersByID) != 1 {
		t.Fatalf("expected one player, got=%d", len(box.PlayersByID))
	}
	if len(box.StatKeys) != 1 || box.StatKeys[0] != "Hitting.H" {
		t.Fatalf("unexpected stat keys %v", box.StatKeys)
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"body":{"playerStats":{}}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 2})
	if _, err := client.FetchBoxScore(context.Background(), SourceNFL, "20240905_NE@BUF"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two attempts, got=%d", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 3})
	if _, err := client.FetchBoxScore(context.Background(), SourceMLB, "bogus"); err == nil {
		t.Fatalf("expected error for status 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one attempt, got=%d", calls.Load())
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial fail apiKey=abc123 key=other", "abc123")
	if strings.Contains(got, "abc123") {
		t.Fatalf("expected key redacted, got=%q", got)
	}
}
