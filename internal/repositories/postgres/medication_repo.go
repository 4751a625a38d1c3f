package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/utils"
)

type MedicationRepository interface {
	List(ctx context.Context) ([]models.Medication, error)
	GetByID(ctx context.Context, id int64) (*models.Medication, error)
	Create(ctx context.Context, med *models.Medication) error
	Update(ctx context.Context, med *models.Medication) error
	Delete(ctx context.Context, id int64) error
	SetLastReminded(ctx context.Context, id int64, at time.Time) error
	SetLastTaken(ctx context.Context, id int64, at time.Time) error
}

type medicationRepository struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) List(ctx context.Context) ([]models.Medication, error) {
	var meds []models.Medication
	err := r.db.WithContext(ctx).Order("time ASC").Find(&meds).Error
	return meds, err
}

func (r *medicationRepository) GetByID(ctx context.Context, id int64) (*models.Medication, error) {
	var med models.Medication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&med).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &med, nil
}

func (r *medicationRepository) Create(ctx context.Context, med *models.Medication) error {
	return r.db.WithContext(ctx).Create(med).Error
}

func (r *medicationRepository) Update(ctx context.Context, med *models.Medication) error {
	res := r.db.WithContext(ctx).Model(&models.Medication{}).
		Where("id = ?", med.ID).
		Updates(map[string]any{
			"medication_name": med.Name,
			"time":            med.Time,
			"days":            med.Days,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *medicationRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Medication{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *medicationRepository) SetLastReminded(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Medication{}).
		Where("id = ?", id).
		Update("last_reminded", at).Error
}

func (r *medicationRepository) SetLastTaken(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Medication{}).
		Where("id = ?", id).
		Update("last_taken", at).Error
}
