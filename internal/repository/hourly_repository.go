package repository

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"gorm.io/gorm"
)

// HourlyRepository stores per-hour heart-rate buckets. A day's buckets
// are only ever written as a whole set.
type HourlyRepository interface {
	// ReplaceDay deletes all buckets for the day and inserts rows in a
	// single transaction. An empty rows slice leaves the day empty.
	ReplaceDay(ctx context.Context, day time.Time, rows []domain.HeartRateHourly) error
	// ListByDay returns the day's buckets ascending by hour.
	ListByDay(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error)
	// LatestDay returns the most recent day with any bucket, or nil.
	LatestDay(ctx context.Context) (*time.Time, error)
}

type hourlyRepository struct {
	db *gorm.DB
}

func NewHourlyRepository(db *gorm.DB) HourlyRepository {
	return &hourlyRepository{db: db}
}

func (r *hourlyRepository) ReplaceDay(ctx context.Context, day time.Time, rows []domain.HeartRateHourly) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("day = ?", day).Delete(&domain.HeartRateHourly{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *hourlyRepository) ListByDay(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error) {
	var rows []domain.HeartRateHourly
	err := r.db.WithContext(ctx).
		Where("day = ?", day).
		Order("hour ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *hourlyRepository) LatestDay(ctx context.Context) (*time.Time, error) {
	var row domain.HeartRateHourly
	err := r.db.WithContext(ctx).
		Order("day DESC, hour DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row.Day, nil
}
