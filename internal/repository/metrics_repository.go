package repository

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetricsCacheRepository persists one payload per (source, day).
type MetricsCacheRepository interface {
	// Upsert inserts or replaces the payload for (source, day).
	Upsert(ctx context.Context, source domain.Source, day time.Time, payload datatypes.JSON) error
	GetByDay(ctx context.Context, source domain.Source, day time.Time) (*domain.MetricsCache, error)
	// LatestDay returns the most recent cached day for a source.
	LatestDay(ctx context.Context, source domain.Source) (*time.Time, error)
}

type metricsCacheRepository struct {
	db *gorm.DB
}

func NewMetricsCacheRepository(db *gorm.DB) MetricsCacheRepository {
	return &metricsCacheRepository{db: db}
}

func (r *metricsCacheRepository) Upsert(ctx context.Context, source domain.Source, day time.Time, payload datatypes.JSON) error {
	row := domain.MetricsCache{
		Source:  source,
		Day:     day,
		Payload: payload,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *metricsCacheRepository) GetByDay(ctx context.Context, source domain.Source, day time.Time) (*domain.MetricsCache, error) {
	var row domain.MetricsCache
	err := r.db.WithContext(ctx).
		Where("source = ? AND day = ?", source, day).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *metricsCacheRepository) LatestDay(ctx context.Context, source domain.Source) (*time.Time, error) {
	var row domain.MetricsCache
	err := r.db.WithContext(ctx).
		Where("source = ?", source).
		Order("day DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row.Day, nil
}
