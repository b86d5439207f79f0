package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/pagecheck/pageanalyzer/internal/app/repository"
	"github.com/pagecheck/pageanalyzer/internal/app/service"
	"github.com/pagecheck/pageanalyzer/internal/urlutil"
)

type stubURLService struct {
	addFn func(ctx context.Context, raw string) (*model.URL, error)
	getFn func(ctx context.Context, id int64) (*model.URL, error)
}

func (s *stubURLService) AddURL(ctx context.Context, raw string) (*model.URL, error) {
	return s.addFn(ctx, raw)
}

func (s *stubURLService) GetURL(ctx context.Context, id int64) (*model.URL, error) {
	return s.getFn(ctx, id)
}

func (s *stubURLService) FindByName(ctx context.Context, name string) (*model.URL, error) {
	return nil, repository.ErrURLNotFound
}

func (s *stubURLService) ListURLs(ctx context.Context) ([]model.URLSummary, error) {
	return nil, nil
}

func (s *stubURLService) Seed(ctx context.Context) error { return nil }

type stubCheckService struct {
	runFn  func(ctx context.Context, urlID int64) (*service.CheckResult, error)
	listFn func(ctx context.Context, urlID int64) ([]model.URLCheck, error)
}

func (s *stubCheckService) RunCheck(ctx context.Context, urlID int64) (*service.CheckResult, error) {
	return s.runFn(ctx, urlID)
}

func (s *stubCheckService) ListChecks(ctx context.Context, urlID int64) ([]model.URLCheck, error) {
	if s.listFn != nil {
		return s.listFn(ctx, urlID)
	}
	return nil, nil
}

func newTestApp(urls service.URLService, checks service.CheckService) *fiber.App {
	app := fiber.New()
	NewWebHandler(WebDeps{URLs: urls, Checks: checks}).Register(app)
	return app
}

func postForm(t *testing.T, app *fiber.App, path, field, value string) *http.Response {
	t.Helper()
	form := field + "=" + url.QueryEscape(value)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestWebHandler_AddURL_RedirectsToNewRecord(t *testing.T) {
	urls := &stubURLService{
		addFn: func(ctx context.Context, raw string) (*model.URL, error) {
			return &model.URL{ID: 1, Name: "https://example.com"}, nil
		},
	}
	app := newTestApp(urls, &stubCheckService{})

	resp := postForm(t, app, "/urls", "url", "https://example.com")
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/urls/1?flash=added" {
		t.Fatalf("location = %q", loc)
	}
}

func TestWebHandler_AddURL_DuplicateRedirectsToExisting(t *testing.T) {
	urls := &stubURLService{
		addFn: func(ctx context.Context, raw string) (*model.URL, error) {
			return &model.URL{ID: 7, Name: "https://example.com"}, repository.ErrURLExists
		},
	}
	app := newTestApp(urls, &stubCheckService{})

	resp := postForm(t, app, "/urls", "url", "https://example.com")
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/urls/7?flash=exists" {
		t.Fatalf("location = %q", loc)
	}
}

func TestWebHandler_AddURL_InvalidInputRerendersForm(t *testing.T) {
	urls := &stubURLService{
		addFn: func(ctx context.Context, raw string) (*model.URL, error) {
			return nil, urlutil.ErrInvalidURL
		},
	}
	app := newTestApp(urls, &stubCheckService{})

	resp := postForm(t, app, "/urls", "url", "not-a-url")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Invalid URL") {
		t.Fatalf("expected validation message in page, got: %s", body)
	}
	if !strings.Contains(string(body), "not-a-url") {
		t.Fatal("expected the entered value to be echoed back")
	}
}

func TestWebHandler_ShowURL(t *testing.T) {
	urls := &stubURLService{
		getFn: func(ctx context.Context, id int64) (*model.URL, error) {
			if id != 1 {
				return nil, repository.ErrURLNotFound
			}
			return &model.URL{ID: 1, Name: "https://example.com"}, nil
		},
	}
	app := newTestApp(urls, &stubCheckService{})

	req := httptest.NewRequest(http.MethodGet, "/urls/1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "https://example.com") {
		t.Fatal("expected the url name on the page")
	}

	req = httptest.NewRequest(http.MethodGet, "/urls/99", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWebHandler_RunCheck_FlashMatchesClass(t *testing.T) {
	cases := []struct {
		class model.CheckClass
		want  string
	}{
		{model.ClassOK, "/urls/1?flash=check_ok"},
		{model.ClassTransportError, "/urls/1?flash=check_dns"},
		{model.ClassRemoteNotFound, "/urls/1?flash=check_missing"},
		{model.ClassServerError, "/urls/1?flash=check_server"},
	}

	for _, tc := range cases {
		t.Run(string(tc.class), func(t *testing.T) {
			checks := &stubCheckService{
				runFn: func(ctx context.Context, urlID int64) (*service.CheckResult, error) {
					return &service.CheckResult{Class: tc.class}, nil
				},
			}
			app := newTestApp(&stubURLService{}, checks)

			resp := postForm(t, app, "/urls/1/checks", "dummy", "1")
			if resp.StatusCode != fiber.StatusFound {
				t.Fatalf("status = %d, want 302", resp.StatusCode)
			}
			if loc := resp.Header.Get("Location"); loc != tc.want {
				t.Fatalf("location = %q, want %q", loc, tc.want)
			}
		})
	}
}
