package store

import (
	"context"
	"time"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

// SeedSampleData inserts one demo camp and one feedback entry so a local
// instance without a database has something to show.
func SeedSampleData(ctx context.Context, s *Store) error {
	now := time.Now().UTC()
	camp := models.Camp{
		Name:     "Community Vaccination Drive",
		Date:     "2025-11-15",
		Time:     "10:00",
		Location: "Central Park Community Hall",
		Address:  "123 Health Ave, City Center",
		MapURL:   "https://maps.app.goo.gl/example1",
		Contact:  "555-1001",
		Details:  "Free flu shots and basic health screenings available for all ages.",
		Doctors: []models.Doctor{
			{Name: "Dr. Jane Smith", Specialty: "Pediatrics"},
			{Name: "Dr. Alex Johnson", Specialty: "General Medicine"},
		},
		CreatedBy: "admin",
		CreatedAt: now,
	}
	if _, err := s.Camps.Insert(ctx, camp); err != nil {
		return err
	}

	feedback := models.Feedback{
		UserID:      "mock-user-1",
		UserName:    "TestUser",
		Rating:      5,
		Comment:     "Great service!",
		SubmittedAt: now,
	}
	_, err := s.Feedback.Insert(ctx, feedback)
	return err
}
