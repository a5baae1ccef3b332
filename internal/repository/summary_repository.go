package repository

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryRepository reads and writes the daily rollup table. The
// context builder only reads it; the rollup job is its writer.
type SummaryRepository interface {
	// ListRecent returns up to limit rows ordered by day descending.
	ListRecent(ctx context.Context, limit int) ([]domain.DailyHealthSummary, error)
	Upsert(ctx context.Context, row *domain.DailyHealthSummary) error
	GetByDay(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error)
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) ListRecent(ctx context.Context, limit int) ([]domain.DailyHealthSummary, error) {
	var rows []domain.DailyHealthSummary
	query := r.db.WithContext(ctx).Order("day DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *summaryRepository) Upsert(ctx context.Context, row *domain.DailyHealthSummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *summaryRepository) GetByDay(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error) {
	var row domain.DailyHealthSummary
	err := r.db.WithContext(ctx).Where("day = ?", day).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
