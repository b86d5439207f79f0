package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagecheck/pageanalyzer/config"
)

func testFetcher() *Fetcher {
	return NewFetcher(config.CheckerConfig{
		Timeout:   2 * time.Second,
		UserAgent: "pageanalyzer-test",
	})
}

func TestFetcher_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	res, err := testFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
	if string(res.Body) != "<html><body>ok</body></html>" {
		t.Errorf("unexpected body: %q", res.Body)
	}
	if res.ContentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if gotUA != "pageanalyzer-test" {
		t.Errorf("user agent = %q, want %q", gotUA, "pageanalyzer-test")
	}
}

func TestFetcher_HTTPErrorIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	res, err := testFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("a 404 response must not be a transport failure: %v", err)
	}
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res.StatusCode)
	}
}

func TestFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res, err := testFetcher().Fetch(context.Background(), url)
	if err == nil {
		t.Fatalf("expected transport failure, got result %+v", res)
	}
}

func TestFetcher_FollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landed"))
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusMovedPermanently)
	}))
	defer srv.Close()

	res, err := testFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 after redirect", res.StatusCode)
	}
	if string(res.Body) != "landed" {
		t.Errorf("body = %q, want %q", res.Body, "landed")
	}
}

func TestFetcher_BodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	f := NewFetcher(config.CheckerConfig{Timeout: 2 * time.Second, MaxBody: 1024})
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(res.Body) != 1024 {
		t.Errorf("body length = %d, want capped at 1024", len(res.Body))
	}
}
