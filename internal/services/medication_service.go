package services

import (
	"context"
	"strings"
	"time"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/repositories/postgres"
	"github.com/hearthside/companion/internal/utils"
)

// remindSuppression is how long after a reminder fires before the same
// medication may be reported due again.
const remindSuppression = 30 * time.Minute

type MedicationService interface {
	List(ctx context.Context) ([]models.Medication, error)
	Add(ctx context.Context, med *models.Medication) error
	Update(ctx context.Context, med *models.Medication) error
	Delete(ctx context.Context, id int64) error
	// Due returns medications whose scheduled time falls within the window
	// around now and that have not been reminded recently.
	Due(ctx context.Context, now time.Time, window time.Duration) ([]models.Medication, error)
	MarkReminded(ctx context.Context, id int64, at time.Time) error
	MarkTaken(ctx context.Context, id int64, at time.Time) error
}

type medicationService struct {
	repo postgres.MedicationRepository
}

func NewMedicationService(repo postgres.MedicationRepository) MedicationService {
	return &medicationService{repo: repo}
}

func (s *medicationService) List(ctx context.Context) ([]models.Medication, error) {
	return s.repo.List(ctx)
}

func (s *medicationService) Add(ctx context.Context, med *models.Medication) error {
	const op = "MedicationService.Add"
	if err := validateMedication(med, op); err != nil {
		return err
	}
	return s.repo.Create(ctx, med)
}

func (s *medicationService) Update(ctx context.Context, med *models.Medication) error {
	const op = "MedicationService.Update"
	if err := validateMedication(med, op); err != nil {
		return err
	}
	return s.repo.Update(ctx, med)
}

func (s *medicationService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *medicationService) Due(ctx context.Context, now time.Time, window time.Duration) ([]models.Medication, error) {
	meds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var due []models.Medication
	for _, med := range meds {
		at, ok := med.ScheduledFor(now)
		if !ok {
			continue
		}
		diff := now.Sub(at)
		if diff < -window || diff > window {
			continue
		}
		if med.LastReminded != nil && now.Sub(*med.LastReminded) < remindSuppression {
			continue
		}
		due = append(due, med)
	}
	return due, nil
}

func (s *medicationService) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	return s.repo.SetLastReminded(ctx, id, at)
}

func (s *medicationService) MarkTaken(ctx context.Context, id int64, at time.Time) error {
	return s.repo.SetLastTaken(ctx, id, at)
}

func validateMedication(med *models.Medication, op string) error {
	if strings.TrimSpace(med.Name) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "medication name is required", nil)
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(med.Time)); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "time must be HH:MM", err)
	}
	return nil
}
