package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"gorm.io/gorm"
)

// CheckRepository defines the data access contract for check records.
type CheckRepository interface {
	Create(ctx context.Context, check *model.URLCheck) error
	ListByURL(ctx context.Context, urlID int64) ([]model.URLCheck, error)
}

type checkRepository struct {
	db *gorm.DB
}

// NewCheckRepository returns a GORM-backed CheckRepository.
func NewCheckRepository(db *gorm.DB) CheckRepository {
	return &checkRepository{db: db}
}

// Create persists one check record. The existence probe and the insert run in
// a single transaction so a vanished url_id can never leave a partial write.
func (r *checkRepository) Create(ctx context.Context, check *model.URLCheck) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var url model.URL
		if err := tx.Select("id").First(&url, check.URLID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrURLNotFound
			}
			return err
		}
		return tx.Create(check).Error
	})
	if err != nil {
		if errors.Is(err, ErrURLNotFound) {
			return ErrURLNotFound
		}
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

// ListByURL returns the check history for one URL, newest first.
func (r *checkRepository) ListByURL(ctx context.Context, urlID int64) ([]model.URLCheck, error) {
	var checks []model.URLCheck
	if err := r.db.WithContext(ctx).
		Where("url_id = ?", urlID).
		Order("created_at DESC, id DESC").
		Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return checks, nil
}
