package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Inconsolata":       "inconsolata",
		"Open Sans":         "open-sans",
		"Source Code Pro":   "source-code-pro",
		"already-lowercase": "already-lowercase",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetch_Success(t *testing.T) {
	payload := []byte("PK\x03\x04 zip bytes")

	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/zip")
		w.Write(payload)
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL, Client: srv.Client()}
	body, err := f.Fetch(context.Background(), "Open Sans")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !bytes.Equal(body, payload) {
		t.Errorf("body = %q, want %q", body, payload)
	}
	if gotPath != "/api/fonts/open-sans" {
		t.Errorf("path = %q, want /api/fonts/open-sans", gotPath)
	}
	wantQuery := map[string][]string{
		"download": {"zip"},
		"formats":  {"ttf"},
		"variants": {"regular"},
	}
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL, Client: srv.Client()}
	_, err := f.Fetch(context.Background(), "nonexistentfont")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "nonexistentfont") {
		t.Errorf("error message %q does not contain the font name", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error %T is not *NotFoundError", err)
	}
	if nf.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", nf.StatusCode)
	}
}

func TestFetch_NotFoundKeepsOriginalName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL, Client: srv.Client()}
	_, err := f.Fetch(context.Background(), "My Font")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "My Font") {
		t.Errorf("error message %q does not contain the original font name", err)
	}
}

func TestFetch_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f := &Fetcher{BaseURL: base, Client: &http.Client{Timeout: time.Second}}
	_, err := f.Fetch(context.Background(), "inconsolata")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("transport error must not match ErrNotFound")
	}
}

func TestFetch_MalformedURL(t *testing.T) {
	f := &Fetcher{BaseURL: "://no-scheme"}
	_, err := f.Fetch(context.Background(), "inconsolata")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	f := &Fetcher{BaseURL: srv.URL, Client: client}

	_, err := f.Fetch(context.Background(), "inconsolata")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("unused"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Fetcher{BaseURL: srv.URL, Client: srv.Client()}
	_, err := f.Fetch(ctx, "inconsolata")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want wrapped context.Canceled", err)
	}
}

func TestFetcher_URL(t *testing.T) {
	f := &Fetcher{BaseURL: "http://fonts.example/"}
	want := "http://fonts.example/api/fonts/roboto-mono?download=zip&formats=ttf&variants=regular"
	if got := f.URL("Roboto Mono"); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}
