package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/utils"
)

type ConversationRepository interface {
	Create(ctx context.Context, turn *models.ConversationTurn) error
	Recent(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
	RecentAcrossSessions(ctx context.Context, limit int) ([]models.ConversationTurn, error)
	GetByID(ctx context.Context, id string) (*models.ConversationTurn, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, turn *models.ConversationTurn) error {
	return r.db.WithContext(ctx).Create(turn).Error
}

func (r *conversationRepository) Recent(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&turns).Error
	return turns, err
}

func (r *conversationRepository) RecentAcrossSessions(ctx context.Context, limit int) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&turns).Error
	return turns, err
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.ConversationTurn, error) {
	var turn models.ConversationTurn
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&turn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &turn, nil
}
