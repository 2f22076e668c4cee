package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/apperrors"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/middleware"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/services"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/utils"
)

// Handler carries the services every route needs.
type Handler struct {
	Tokens   *utils.TokenService
	Admin    utils.AdminCredentials
	Camps    *services.CampService
	Bookings *services.BookingService
	Feedback *services.FeedbackService
}

func NewHandler(s *store.Store, tokens *utils.TokenService, admin utils.AdminCredentials) *Handler {
	return &Handler{
		Tokens:   tokens,
		Admin:    admin,
		Camps:    services.NewCampService(s.Camps),
		Bookings: services.NewBookingService(s.Bookings),
		Feedback: services.NewFeedbackService(s.Feedback),
	}
}

// Status handles GET /api.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "NotifyHealth API Status: Operational"})
}

// identity returns the caller verified by the auth middleware. Routes using
// it are always mounted behind AuthMiddleware.
func identity(c *gin.Context) *models.Identity {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return &models.Identity{}
	}
	return id
}

// respondError writes err as a {message} body. Internal errors are logged and
// replaced by fallback so storage details never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	appErr := apperrors.As(err, fallback)
	status := appErr.StatusCode()

	if appErr.Type == apperrors.ErrorTypeInternal {
		log.Ctx(c.Request.Context()).Error().
			Err(appErr.Err).
			Str("path", c.FullPath()).
			Msg(appErr.Message)
	}

	body := gin.H{"message": appErr.Message}
	var dup *services.DuplicateBookingError
	if errors.As(err, &dup) {
		body["booking"] = dup.Existing
	}
	c.JSON(status, body)
}
