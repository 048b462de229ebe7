package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func testClient(url string) *Client {
	c := NewClient(url, "bobs-test/1.0", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.backoff = func(int) time.Duration { return 0 }
	return c
}

func TestClient_DocumentParsesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "bobs-test/1.0" {
			t.Errorf("expected user agent header, got %q", ua)
		}
		w.Write([]byte(`<html><body><div class="mw-parser-output"><h2>Season 1</h2></div></body></html>`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	doc, err := c.Document(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.H2 {
			found = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if !found {
		t.Error("expected parsed tree to contain the season heading")
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<p>ok</p>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	body, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<p>ok</p>" {
		t.Errorf("unexpected body %q", body)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}

	snap := c.Stats.Snapshot()
	if snap.Attempts != 3 || snap.Failures != 2 {
		t.Errorf("expected 3 attempts with 2 failures, got %+v", snap)
	}
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRetryable(err) {
		t.Errorf("expected wrapped retryable error, got %v", err)
	}
	if n := calls.Load(); n != MaxRetries {
		t.Errorf("expected %d attempts, got %d", MaxRetries, n)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Errorf("expected non-retryable error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("expected status in error, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 attempt, got %d", n)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.backoff = func(int) time.Duration { return time.Hour }
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "", 0, nil)
	if c.URL() != DefaultURL {
		t.Errorf("expected default url, got %q", c.URL())
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", c.httpClient.Timeout)
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		base := time.Duration(1<<uint(attempt)) * time.Second
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		if d < base || d >= base+base/2 {
			t.Errorf("attempt %d: backoff %v outside [%v, %v)", attempt, d, base, base+base/2)
		}
	}
}

func TestRetryableError_Message(t *testing.T) {
	err := &RetryableError{StatusCode: 503, Message: strings.Repeat("x", 300)}
	msg := err.Error()
	if !strings.Contains(msg, "status 503") {
		t.Errorf("expected status in message, got %q", msg)
	}
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("expected truncated message, got %q", msg)
	}
}
