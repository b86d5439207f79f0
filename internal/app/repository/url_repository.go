package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrURLNotFound signals that the requested catalog entry does not exist.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExists signals that a record with the same canonical name is
	// already present. The catalog is append-only, so a follow-up GetByName
	// after this error always finds the surviving record.
	ErrURLExists = errors.New("url already exists")
)

const pgUniqueViolation = "23505"

// URLRepository defines the data access contract for the URL catalog.
type URLRepository interface {
	Create(ctx context.Context, url *model.URL) error
	GetByID(ctx context.Context, id int64) (*model.URL, error)
	GetByName(ctx context.Context, name string) (*model.URL, error)
	List(ctx context.Context) ([]model.URLSummary, error)
	Names(ctx context.Context) ([]string, error)
}

type urlRepository struct {
	db *gorm.DB
}

// NewURLRepository returns a GORM-backed URLRepository.
func NewURLRepository(db *gorm.DB) URLRepository {
	return &urlRepository{db: db}
}

// Create inserts a new catalog entry. Duplicate detection relies on the
// unique index on name: concurrent inserts of the same canonical name race at
// the store, exactly one wins and the rest surface ErrURLExists.
func (r *urlRepository) Create(ctx context.Context, url *model.URL) error {
	if err := r.db.WithContext(ctx).Create(url).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrURLExists
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrURLExists
		}
		return fmt.Errorf("insert url: %w", err)
	}
	return nil
}

func (r *urlRepository) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	var url model.URL
	if err := r.db.WithContext(ctx).First(&url, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrURLNotFound
		}
		return nil, fmt.Errorf("get url by id: %w", err)
	}
	return &url, nil
}

func (r *urlRepository) GetByName(ctx context.Context, name string) (*model.URL, error) {
	var url model.URL
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrURLNotFound
		}
		return nil, fmt.Errorf("get url by name: %w", err)
	}
	return &url, nil
}

const listSummaryQuery = `
SELECT
    u.id,
    u.name,
    u.created_at,
    (SELECT MAX(c.created_at)
        FROM url_checks c
        WHERE c.url_id = u.id) AS last_checked_at,
    (SELECT c.status_code
        FROM url_checks c
        WHERE c.url_id = u.id
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT 1) AS last_status_code
FROM urls u
ORDER BY u.created_at DESC, u.id DESC`

// List returns the catalog ordered newest first, each entry joined with its
// most recent check summary.
func (r *urlRepository) List(ctx context.Context) ([]model.URLSummary, error) {
	var rows []model.URLSummary
	if err := r.db.WithContext(ctx).Raw(listSummaryQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	return rows, nil
}

// Names returns every canonical name in the catalog, used to seed the
// duplicate pre-check filter at startup.
func (r *urlRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&model.URL{}).Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list url names: %w", err)
	}
	return names, nil
}
