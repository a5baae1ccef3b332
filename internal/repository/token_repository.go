package repository

import (
	"context"

	"github.com/lachdunc/health-coach/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository holds the single stored OAuth token set per provider.
type TokenRepository interface {
	GetByProvider(ctx context.Context, provider string) (*domain.OAuthToken, error)
	Save(ctx context.Context, token *domain.OAuthToken) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetByProvider(ctx context.Context, provider string) (*domain.OAuthToken, error) {
	var token domain.OAuthToken
	err := r.db.WithContext(ctx).Where("provider = ?", provider).First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNoToken
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Save(ctx context.Context, token *domain.OAuthToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at"}),
		}).
		Create(token).Error
}
