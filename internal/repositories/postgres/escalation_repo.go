package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hearthside/companion/internal/models"
)

type EscalationRepository interface {
	Create(ctx context.Context, esc *models.Escalation) error
	Recent(ctx context.Context, limit int) ([]models.Escalation, error)
}

type escalationRepository struct {
	db *gorm.DB
}

func NewEscalationRepository(db *gorm.DB) EscalationRepository {
	return &escalationRepository{db: db}
}

func (r *escalationRepository) Create(ctx context.Context, esc *models.Escalation) error {
	return r.db.WithContext(ctx).Create(esc).Error
}

func (r *escalationRepository) Recent(ctx context.Context, limit int) ([]models.Escalation, error) {
	var escs []models.Escalation
	err := r.db.WithContext(ctx).
		Order("triggered_at DESC").
		Limit(limit).
		Find(&escs).Error
	return escs, err
}
