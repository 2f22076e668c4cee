package services

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/apperrors"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
)

const (
	minRating        = 1
	maxRating        = 5
	minCommentLength = 10
)

type FeedbackService struct {
	feedback store.Collection[models.Feedback]
	now      func() time.Time
}

func NewFeedbackService(feedback store.Collection[models.Feedback]) *FeedbackService {
	return &FeedbackService{feedback: feedback, now: time.Now}
}

// Validate checks a submission. The rating is checked before the comment.
func (s *FeedbackService) Validate(rating float64, comment string) error {
	if math.IsNaN(rating) || rating != math.Trunc(rating) || rating < minRating || rating > maxRating {
		return apperrors.NewValidationError("Rating must be a number between 1 and 5.")
	}
	if utf8.RuneCountInString(comment) < minCommentLength {
		return apperrors.NewValidationError("Comment must be at least 10 characters long.")
	}
	return nil
}

// Submit records a rating and comment from userID.
func (s *FeedbackService) Submit(ctx context.Context, userID, userName string, rating float64, comment string) (*models.Feedback, error) {
	if err := s.Validate(rating, comment); err != nil {
		return nil, err
	}

	created, err := s.feedback.Insert(ctx, models.Feedback{
		UserID:      userID,
		UserName:    userName,
		Rating:      int(rating),
		Comment:     comment,
		SubmittedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, apperrors.NewInternalError("Server error submitting feedback.", err)
	}
	return &created, nil
}

// ListAll returns all feedback, newest first.
func (s *FeedbackService) ListAll(ctx context.Context) ([]models.Feedback, error) {
	feedback, err := s.feedback.FindAll(ctx, nil, store.Sort{Field: "submittedAt", Desc: true})
	if err != nil {
		return nil, apperrors.NewInternalError("Server error fetching feedback.", err)
	}
	return feedback, nil
}
