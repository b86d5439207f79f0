package service

import (
	"context"
	"time"

	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/pagecheck/pageanalyzer/internal/app/repository"
	infraprom "github.com/pagecheck/pageanalyzer/internal/infra/prometheus"
	"github.com/pagecheck/pageanalyzer/internal/page"
	"go.uber.org/zap"
)

// PageFetcher retrieves a remote page. A non-nil error means the request never
// produced an HTTP response.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*page.Result, error)
}

// ParseFunc extracts SEO metadata from a fetched body.
type ParseFunc func(body []byte, contentType string) (page.Meta, error)

// CheckResult is what one check produced: the persisted record plus its
// user-facing classification.
type CheckResult struct {
	Check model.URLCheck
	Class model.CheckClass
}

// CheckService runs checks against registered URLs and exposes their history.
type CheckService interface {
	// RunCheck fetches the URL's page once, classifies the outcome and
	// persists exactly one check record. Transport and parse failures are
	// recorded outcomes, not errors; only missing URLs and storage faults
	// surface as errors.
	RunCheck(ctx context.Context, urlID int64) (*CheckResult, error)
	ListChecks(ctx context.Context, urlID int64) ([]model.URLCheck, error)
}

type checkService struct {
	urls      repository.URLRepository
	checks    repository.CheckRepository
	fetcher   PageFetcher
	parse     ParseFunc
	publisher *CheckPublisher
	logger    *zap.Logger
}

// CheckServiceDeps bundles what NewCheckService needs. Parse defaults to
// page.Parse and Publisher may be nil when NATS is not wired.
type CheckServiceDeps struct {
	URLs      repository.URLRepository
	Checks    repository.CheckRepository
	Fetcher   PageFetcher
	Parse     ParseFunc
	Publisher *CheckPublisher
	Logger    *zap.Logger
}

// NewCheckService returns a CheckService with the provided dependencies.
func NewCheckService(deps CheckServiceDeps) CheckService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	parse := deps.Parse
	if parse == nil {
		parse = page.Parse
	}
	return &checkService{
		urls:      deps.URLs,
		checks:    deps.Checks,
		fetcher:   deps.Fetcher,
		parse:     parse,
		publisher: deps.Publisher,
		logger:    logger,
	}
}

func (s *checkService) RunCheck(ctx context.Context, urlID int64) (*CheckResult, error) {
	url, err := s.urls.GetByID(ctx, urlID)
	if err != nil {
		return nil, err
	}

	check := s.probe(ctx, url.Name)
	check.URLID = url.ID

	if err := s.checks.Create(ctx, &check); err != nil {
		return nil, err
	}

	class := model.ClassifyStatus(check.StatusCode)
	infraprom.ChecksTotal.WithLabelValues(string(class)).Inc()

	s.logger.Info("check recorded",
		zap.Int64("url_id", url.ID),
		zap.String("url", url.Name),
		zap.Int("status_code", check.StatusCode),
		zap.String("class", string(class)),
	)

	if s.publisher != nil {
		// Fire-and-forget; the audit stream must not slow the caller down.
		go s.publishEvent(url, check, class)
	}

	return &CheckResult{Check: check, Class: class}, nil
}

func (s *checkService) ListChecks(ctx context.Context, urlID int64) ([]model.URLCheck, error) {
	if _, err := s.urls.GetByID(ctx, urlID); err != nil {
		return nil, err
	}
	return s.checks.ListByURL(ctx, urlID)
}

// probe is the single-pass fetch-and-parse state machine. It always reaches a
// terminal outcome: transport failure records the zero status sentinel, HTTP
// error statuses record the real status with empty fields, and a parse
// failure on a 2xx response degrades to empty fields without aborting.
func (s *checkService) probe(ctx context.Context, name string) model.URLCheck {
	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, name)
	infraprom.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn("page fetch failed", zap.String("url", name), zap.Error(err))
		return model.URLCheck{StatusCode: model.StatusTransportFailure}
	}

	check := model.URLCheck{StatusCode: res.StatusCode}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return check
	}

	meta, err := s.parse(res.Body, res.ContentType)
	if err != nil {
		s.logger.Warn("page parse failed", zap.String("url", name), zap.Error(err))
		return check
	}

	check.H1 = meta.H1
	check.Title = meta.Title
	check.Description = meta.Description
	return check
}

func (s *checkService) publishEvent(url *model.URL, check model.URLCheck, class model.CheckClass) {
	if err := s.publisher.Publish(url, check, class); err != nil {
		s.logger.Error("failed to publish check event",
			zap.Int64("url_id", url.ID),
			zap.Error(err),
		)
	}
}
