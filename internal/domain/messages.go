package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Direction marks whether a chat message was received or sent.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// TelegramMessage logs every inbound and outbound chat message.
type TelegramMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Ts        time.Time `gorm:"not null;index:idx_telegram_messages_ts,sort:desc" json:"ts"`
	Direction Direction `gorm:"type:varchar(4);not null;index" json:"direction"`
	ChatID    string    `gorm:"type:varchar(64);not null" json:"chat_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
}

func (TelegramMessage) TableName() string {
	return "telegram_messages"
}

// MigraineDiary is one self-reported headache entry per day.
type MigraineDiary struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Day         time.Time      `gorm:"type:date;not null;index" json:"day"`
	HadHeadache bool           `gorm:"not null" json:"had_headache"`
	Intensity   *int           `gorm:"type:smallint" json:"intensity_0_10"`
	Meds        *string        `json:"meds"`
	ReliefPct   *int           `json:"relief_pct"`
	Triggers    datatypes.JSON `gorm:"type:jsonb" json:"triggers"`
	Notes       *string        `json:"notes"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (MigraineDiary) TableName() string {
	return "migraine_diary"
}

// WorkoutFeedback records post-workout perceived exertion replies.
type WorkoutFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Day       time.Time `gorm:"type:date;not null;index" json:"day"`
	RPE       *int      `gorm:"type:smallint" json:"rpe_0_10"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WorkoutFeedback) TableName() string {
	return "workout_feedback"
}

// OAuthToken holds the single stored token set per provider.
type OAuthToken struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Provider     string    `gorm:"type:varchar(16);not null;uniqueIndex" json:"provider"`
	AccessToken  string    `gorm:"type:text;not null" json:"-"`
	RefreshToken string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt    int64     `gorm:"not null" json:"expires_at"`
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

// CreateDiaryEntryRequest is the request body for recording a diary entry.
// @Description Self-reported headache diary entry for one day.
type CreateDiaryEntryRequest struct {
	// Calendar date in YYYY-MM-DD (defaults to today when empty)
	Day string `json:"day" validate:"omitempty,datetime=2006-01-02" example:"2024-05-13"`
	// Whether a headache occurred
	HadHeadache *bool `json:"had_headache" validate:"required" example:"true"`
	// Pain intensity from 0 to 10
	Intensity *int `json:"intensity_0_10" validate:"omitempty,min=0,max=10" example:"6"`
	// Medication taken, free text
	Meds *string `json:"meds" validate:"omitempty,max=255" example:"ibuprofen 400mg"`
	// Relief percentage from 0 to 100
	ReliefPct *int `json:"relief_pct" validate:"omitempty,min=0,max=100" example:"70"`
	// Free-text notes
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// PaginationResponse carries the cursor for the next page.
type PaginationResponse struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// MessageListResponse is the paginated message log.
// @Description Page of logged chat messages.
type MessageListResponse struct {
	Data       []TelegramMessage  `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// MessageFilter contains filter parameters for listing chat messages.
type MessageFilter struct {
	Direction *Direction
	Limit     int
	Cursor    string
}
