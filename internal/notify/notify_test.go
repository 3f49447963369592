package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendReportReceipt(t *testing.T) {
	var got sendRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New("test-key", "Lost & Found <found@school.example>")
	n.baseURL = server.URL

	if err := n.SendReportReceipt(context.Background(), "jan@example.com", "Jan", "Blue Backpack"); err != nil {
		t.Fatalf("SendReportReceipt: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "jan@example.com" {
		t.Errorf("unexpected recipients %v", got.To)
	}
	if !strings.Contains(got.HTML, "Jan") || !strings.Contains(got.HTML, "Blue Backpack") {
		t.Error("expected name and item title in the email body")
	}
}

func TestSendEscapesUserContent(t *testing.T) {
	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New("test-key", "")
	n.baseURL = server.URL

	n.SendReportReceipt(context.Background(), "x@example.com", "<script>x</script>", "Bag")
	if strings.Contains(got.HTML, "<script>") {
		t.Error("expected user content to be HTML-escaped")
	}
}

func TestSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := New("test-key", "")
	n.baseURL = server.URL

	if err := n.SendReportReceipt(context.Background(), "x@example.com", "X", "Bag"); err == nil {
		t.Error("expected error for provider failure")
	}
}

func TestDisabledNotifierIsNoop(t *testing.T) {
	n := New("", "")
	if n.Enabled() {
		t.Error("expected notifier without key to be disabled")
	}
	// No server configured: would fail if it tried to send.
	if err := n.SendReportReceipt(context.Background(), "x@example.com", "X", "Bag"); err != nil {
		t.Errorf("disabled notifier must not fail: %v", err)
	}
}
