package repository

import (
	"context"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/pkg/pagination"
	"gorm.io/gorm"
)

// MessageRepository logs chat traffic and serves the paginated message
// history endpoint.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.TelegramMessage) error
	List(ctx context.Context, filter domain.MessageFilter) ([]domain.TelegramMessage, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.TelegramMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) List(ctx context.Context, filter domain.MessageFilter) ([]domain.TelegramMessage, error) {
	query := r.db.WithContext(ctx).Order("ts DESC")

	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			// For DESC order: records strictly older than the cursor,
			// with the id as tiebreak on equal timestamps.
			query = query.Where(
				"(ts < ?) OR (ts = ? AND id < ?)",
				cursor.Ts, cursor.Ts, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results.
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var msgs []domain.TelegramMessage
	if err := query.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
