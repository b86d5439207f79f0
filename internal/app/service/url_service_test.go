package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/pagecheck/pageanalyzer/internal/app/repository"
	"github.com/pagecheck/pageanalyzer/internal/urlutil"
)

type mockURLRepository struct {
	createFn    func(ctx context.Context, url *model.URL) error
	getByIDFn   func(ctx context.Context, id int64) (*model.URL, error)
	getByNameFn func(ctx context.Context, name string) (*model.URL, error)
	listFn      func(ctx context.Context) ([]model.URLSummary, error)
	namesFn     func(ctx context.Context) ([]string, error)

	createCalls int
	lookupCalls int
}

func (m *mockURLRepository) Create(ctx context.Context, url *model.URL) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, url)
	}
	url.ID = int64(m.createCalls)
	return nil
}

func (m *mockURLRepository) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrURLNotFound
}

func (m *mockURLRepository) GetByName(ctx context.Context, name string) (*model.URL, error) {
	m.lookupCalls++
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, repository.ErrURLNotFound
}

func (m *mockURLRepository) List(ctx context.Context) ([]model.URLSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockURLRepository) Names(ctx context.Context) ([]string, error) {
	if m.namesFn != nil {
		return m.namesFn(ctx)
	}
	return nil, nil
}

func TestURLService_AddURL_Normalizes(t *testing.T) {
	repo := &mockURLRepository{
		createFn: func(ctx context.Context, url *model.URL) error {
			if url.Name != "https://example.com/path" {
				t.Fatalf("expected canonical name, got %q", url.Name)
			}
			url.ID = 1
			return nil
		},
	}

	svc := NewURLService(repo, nil)
	url, err := svc.AddURL(context.Background(), "https://Example.COM/path/?utm=1#top")
	if err != nil {
		t.Fatalf("AddURL returned error: %v", err)
	}
	if url.ID != 1 {
		t.Fatalf("expected id 1, got %d", url.ID)
	}
}

func TestURLService_AddURL_ValidationNeverHitsStore(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "   ", urlutil.ErrEmptyURL},
		{"malformed", "not-a-url", urlutil.ErrInvalidURL},
		{"too long", "https://example.com/" + strings.Repeat("a", 300), urlutil.ErrURLTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockURLRepository{}
			svc := NewURLService(repo, nil)

			_, err := svc.AddURL(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("AddURL error = %v, want %v", err, tc.want)
			}
			if repo.createCalls != 0 || repo.lookupCalls != 0 {
				t.Fatalf("store was touched: creates=%d lookups=%d", repo.createCalls, repo.lookupCalls)
			}
		})
	}
}

func TestURLService_AddURL_DuplicateInsertRace(t *testing.T) {
	existing := &model.URL{ID: 7, Name: "https://example.com"}
	repo := &mockURLRepository{
		createFn: func(ctx context.Context, url *model.URL) error {
			return repository.ErrURLExists
		},
		getByNameFn: func(ctx context.Context, name string) (*model.URL, error) {
			return existing, nil
		},
	}

	svc := NewURLService(repo, nil)
	url, err := svc.AddURL(context.Background(), "https://example.com/")
	if !errors.Is(err, repository.ErrURLExists) {
		t.Fatalf("expected ErrURLExists, got %v", err)
	}
	if url == nil || url.ID != 7 {
		t.Fatalf("expected the surviving record (id 7), got %+v", url)
	}
}

func TestURLService_AddURL_SecondAddShortCircuits(t *testing.T) {
	var stored *model.URL
	repo := &mockURLRepository{
		createFn: func(ctx context.Context, url *model.URL) error {
			url.ID = 1
			stored = url
			return nil
		},
		getByNameFn: func(ctx context.Context, name string) (*model.URL, error) {
			if stored != nil && stored.Name == name {
				return stored, nil
			}
			return nil, repository.ErrURLNotFound
		},
	}

	svc := NewURLService(repo, nil)
	ctx := context.Background()

	if _, err := svc.AddURL(ctx, "https://example.com/page"); err != nil {
		t.Fatalf("first AddURL returned error: %v", err)
	}

	url, err := svc.AddURL(ctx, "https://example.com/page/")
	if !errors.Is(err, repository.ErrURLExists) {
		t.Fatalf("expected ErrURLExists on duplicate, got %v", err)
	}
	if url.ID != 1 {
		t.Fatalf("expected existing id 1, got %d", url.ID)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected a single insert attempt, got %d", repo.createCalls)
	}
}

func TestURLService_Seed(t *testing.T) {
	repo := &mockURLRepository{
		namesFn: func(ctx context.Context) ([]string, error) {
			return []string{"https://seeded.example.com"}, nil
		},
		getByNameFn: func(ctx context.Context, name string) (*model.URL, error) {
			if name == "https://seeded.example.com" {
				return &model.URL{ID: 42, Name: name}, nil
			}
			return nil, repository.ErrURLNotFound
		},
	}

	svc := NewURLService(repo, nil)
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	url, err := svc.AddURL(context.Background(), "https://seeded.example.com")
	if !errors.Is(err, repository.ErrURLExists) {
		t.Fatalf("expected ErrURLExists after seeding, got %v", err)
	}
	if url.ID != 42 {
		t.Fatalf("expected seeded id 42, got %d", url.ID)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no insert attempt, got %d", repo.createCalls)
	}
}
