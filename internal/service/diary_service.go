package service

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/repository"
)

// DiaryService records structured migraine diary entries coming in
// through the API, as opposed to the terse chat replies.
type DiaryService interface {
	Create(ctx context.Context, req *domain.CreateDiaryEntryRequest) (*domain.MigraineDiary, error)
	// List returns the entries recorded for one day. An empty day means
	// today in the configured timezone.
	List(ctx context.Context, day string) ([]domain.MigraineDiary, error)
}

type diaryService struct {
	diaryRepo repository.DiaryRepository
	loc       *time.Location
	now       func() time.Time
}

// NewDiaryService creates a new DiaryService.
func NewDiaryService(diaryRepo repository.DiaryRepository, loc *time.Location, now func() time.Time) DiaryService {
	if now == nil {
		now = time.Now
	}
	return &diaryService{diaryRepo: diaryRepo, loc: loc, now: now}
}

func (s *diaryService) Create(ctx context.Context, req *domain.CreateDiaryEntryRequest) (*domain.MigraineDiary, error) {
	day := domain.DateOf(s.now(), s.loc)
	if req.Day != "" {
		parsed, err := time.Parse("2006-01-02", req.Day)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		day = parsed
	}

	entry := &domain.MigraineDiary{
		Day:         day,
		HadHeadache: req.HadHeadache != nil && *req.HadHeadache,
		Intensity:   req.Intensity,
		Meds:        req.Meds,
		ReliefPct:   req.ReliefPct,
		Notes:       req.Notes,
	}
	if err := s.diaryRepo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *diaryService) List(ctx context.Context, dayStr string) ([]domain.MigraineDiary, error) {
	day := domain.DateOf(s.now(), s.loc)
	if dayStr != "" {
		parsed, err := time.Parse("2006-01-02", dayStr)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		day = parsed
	}
	return s.diaryRepo.ListByDay(ctx, day)
}
