package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/apperrors"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
)

const (
	defaultUserName = "Anonymous User"
	defaultCampName = "Unknown Camp"

	bookingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// DuplicateBookingError is returned when the user already holds a booking
// for the camp. Existing is the booking that won.
type DuplicateBookingError struct {
	Existing models.Booking
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("user %s already booked camp %s (%s)", e.Existing.UserID, e.Existing.CampID, e.Existing.BookingNumber)
}

// BookingService enforces one booking per user per camp.
type BookingService struct {
	bookings store.Collection[models.Booking]
	now      func() time.Time
	random   func(n int) int
}

func NewBookingService(bookings store.Collection[models.Booking]) *BookingService {
	return &BookingService{bookings: bookings, now: time.Now, random: rand.IntN}
}

// CreateBooking reserves a slot for userID at campID.
func (s *BookingService) CreateBooking(ctx context.Context, campID, userID, userName, campName string) (*models.Booking, error) {
	existing, err := s.bookings.FindOne(ctx, store.Filter{"campId": campID, "userId": userID})
	switch {
	case err == nil:
		return nil, s.duplicate(existing)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewInternalError("Server error creating booking.", err)
	}

	if userName == "" {
		userName = defaultUserName
	}
	if campName == "" {
		campName = defaultCampName
	}
	now := s.now().UTC()
	booking := models.Booking{
		CampID:        campID,
		UserID:        userID,
		UserName:      userName,
		BookingNumber: s.bookingNumber(campID, now),
		BookedAt:      now,
		CampName:      campName,
	}

	created, err := s.bookings.Insert(ctx, booking)
	if errors.Is(err, store.ErrDuplicate) {
		// lost a race with a concurrent request for the same pair
		winner, findErr := s.bookings.FindOne(ctx, store.Filter{"campId": campID, "userId": userID})
		if findErr != nil {
			return nil, apperrors.NewInternalError("Server error creating booking.", errors.Join(err, findErr))
		}
		return nil, s.duplicate(winner)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("Server error creating booking.", err)
	}
	return &created, nil
}

func (s *BookingService) duplicate(existing models.Booking) error {
	return apperrors.NewConflictError("You have already booked a slot for this camp.", &DuplicateBookingError{Existing: existing})
}

// bookingNumber formats NH-<MMDD>-<camp prefix>-<6 base36 chars>.
// Numbers are not guaranteed unique.
func (s *BookingService) bookingNumber(campID string, now time.Time) string {
	prefix := []rune(campID)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = bookingAlphabet[s.random(len(bookingAlphabet))]
	}
	return fmt.Sprintf("NH-%s-%s-%s", now.Format("0102"), strings.ToUpper(string(prefix)), suffix)
}

// ListForUser returns the bookings held by userID.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.FindAll(ctx, store.Filter{"userId": userID})
	if err != nil {
		return nil, apperrors.NewInternalError("Server error fetching bookings.", err)
	}
	return bookings, nil
}

// ListAll returns every booking, newest first.
func (s *BookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.FindAll(ctx, nil, store.Sort{Field: "bookedAt", Desc: true})
	if err != nil {
		return nil, apperrors.NewInternalError("Server error fetching all bookings.", err)
	}
	return bookings, nil
}
