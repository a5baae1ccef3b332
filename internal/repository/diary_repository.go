package repository

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"gorm.io/gorm"
)

// DiaryRepository persists migraine diary entries and workout feedback.
type DiaryRepository interface {
	CreateEntry(ctx context.Context, entry *domain.MigraineDiary) error
	ListByDay(ctx context.Context, day time.Time) ([]domain.MigraineDiary, error)
	CreateFeedback(ctx context.Context, fb *domain.WorkoutFeedback) error
}

type diaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) CreateEntry(ctx context.Context, entry *domain.MigraineDiary) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *diaryRepository) ListByDay(ctx context.Context, day time.Time) ([]domain.MigraineDiary, error) {
	var entries []domain.MigraineDiary
	err := r.db.WithContext(ctx).
		Where("day = ?", day).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepository) CreateFeedback(ctx context.Context, fb *domain.WorkoutFeedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}
