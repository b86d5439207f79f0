package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/pagecheck/pageanalyzer/internal/app/repository"
	infraprom "github.com/pagecheck/pageanalyzer/internal/infra/prometheus"
	"github.com/pagecheck/pageanalyzer/internal/urlutil"
	"go.uber.org/zap"
)

// Sizing for the duplicate pre-check filter. The filter is a fast path only;
// the unique index on urls.name stays authoritative.
const (
	bloomCapacity = 1_000_000
	bloomFPRate   = 0.01
)

// URLService owns catalog operations: registration with validation and
// duplicate detection, lookups and the summary listing.
type URLService interface {
	// AddURL validates and normalizes raw, then registers it. On a duplicate
	// it returns the surviving record together with repository.ErrURLExists so
	// the caller can redirect without a second lookup.
	AddURL(ctx context.Context, raw string) (*model.URL, error)
	GetURL(ctx context.Context, id int64) (*model.URL, error)
	FindByName(ctx context.Context, name string) (*model.URL, error)
	ListURLs(ctx context.Context) ([]model.URLSummary, error)
	// Seed warms the duplicate pre-check filter from the existing catalog.
	Seed(ctx context.Context) error
}

type urlService struct {
	repo   repository.URLRepository
	logger *zap.Logger

	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewURLService returns a service implementation backed by the given repository.
func NewURLService(repo repository.URLRepository, logger *zap.Logger) URLService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &urlService{
		repo:   repo,
		logger: logger,
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPRate),
	}
}

// Seed warms the duplicate filter. Call once at startup; a failed seed only
// costs extra lookups, so the error is advisory.
func (s *urlService) Seed(ctx context.Context) error {
	names, err := s.repo.Names(ctx)
	if err != nil {
		return fmt.Errorf("seed url filter: %w", err)
	}

	s.mu.Lock()
	for _, name := range names {
		s.filter.AddString(name)
	}
	s.mu.Unlock()

	s.logger.Info("url filter seeded", zap.Int("count", len(names)))
	return nil
}

func (s *urlService) AddURL(ctx context.Context, raw string) (*model.URL, error) {
	name, err := urlutil.Normalize(raw)
	if err != nil {
		// User input defect, handled by the caller; never touches the store.
		return nil, err
	}

	if s.mightExist(name) {
		existing, err := s.repo.GetByName(ctx, name)
		if err == nil {
			return existing, repository.ErrURLExists
		}
		if !errors.Is(err, repository.ErrURLNotFound) {
			return nil, err
		}
	}

	url := &model.URL{Name: name}
	if err := s.repo.Create(ctx, url); err != nil {
		if errors.Is(err, repository.ErrURLExists) {
			// Lost the insert race; the winner's record is what we report.
			existing, lookupErr := s.repo.GetByName(ctx, name)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return existing, repository.ErrURLExists
		}
		return nil, err
	}

	s.remember(name)
	infraprom.URLsRegisteredTotal.Inc()
	s.logger.Info("url registered", zap.Int64("id", url.ID), zap.String("name", name))
	return url, nil
}

func (s *urlService) GetURL(ctx context.Context, id int64) (*model.URL, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *urlService) FindByName(ctx context.Context, name string) (*model.URL, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *urlService) ListURLs(ctx context.Context) ([]model.URLSummary, error) {
	return s.repo.List(ctx)
}

func (s *urlService) mightExist(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.TestString(name)
}

func (s *urlService) remember(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.AddString(name)
}
