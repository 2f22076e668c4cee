package services

import (
	"context"
	"errors"
	"time"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/apperrors"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
)

type CampService struct {
	camps store.Collection[models.Camp]
	now   func() time.Time
}

func NewCampService(camps store.Collection[models.Camp]) *CampService {
	return &CampService{camps: camps, now: time.Now}
}

func (s *CampService) List(ctx context.Context) ([]models.Camp, error) {
	camps, err := s.camps.FindAll(ctx, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("Server error fetching camps.", err)
	}
	return camps, nil
}

// Create stores a new camp on behalf of createdBy, filling the defaults
// clients expect for optional fields.
func (s *CampService) Create(ctx context.Context, camp models.Camp, createdBy string) (*models.Camp, error) {
	camp.ID = ""
	if camp.Time == "" {
		camp.Time = "N/A"
	}
	if camp.Contact == "" {
		camp.Contact = "N/A"
	}
	if camp.Doctors == nil {
		camp.Doctors = []models.Doctor{}
	}
	camp.CreatedBy = createdBy
	camp.CreatedAt = s.now().UTC()

	created, err := s.camps.Insert(ctx, camp)
	if err != nil {
		return nil, apperrors.NewInternalError("Server error adding camp.", err)
	}
	return &created, nil
}

// Update overwrites the fields set in patch and returns the stored camp.
func (s *CampService) Update(ctx context.Context, id string, patch models.CampPatch) (*models.Camp, error) {
	p, err := store.PatchFrom(patch)
	if err != nil {
		return nil, apperrors.NewInternalError("Server error updating camp.", err)
	}
	updated, err := s.camps.UpdateOne(ctx, id, p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Camp not found.")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Server error updating camp.", err)
	}
	return &updated, nil
}

func (s *CampService) Delete(ctx context.Context, id string) error {
	err := s.camps.DeleteOne(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFoundError("Camp not found.")
	}
	if err != nil {
		return apperrors.NewInternalError("Server error deleting camp.", err)
	}
	return nil
}
