package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type bookCampRequest struct {
	CampName string `json:"campName"`
}

// BookCamp handles POST /api/camps/:id/book.
func (h *Handler) BookCamp(c *gin.Context) {
	var req bookCampRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	caller := identity(c)
	booking, err := h.Bookings.CreateBooking(c.Request.Context(), c.Param("id"), caller.SubjectID, caller.DisplayName, req.CampName)
	if err != nil {
		respondError(c, err, "Server error creating booking.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Slot booked successfully. Check your bookings dashboard.",
		"booking": booking,
	})
}

// GetMyBookings handles GET /api/bookings/my.
func (h *Handler) GetMyBookings(c *gin.Context) {
	bookings, err := h.Bookings.ListForUser(c.Request.Context(), identity(c).SubjectID)
	if err != nil {
		respondError(c, err, "Server error fetching bookings.")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetAllBookings handles GET /api/bookings/admin (admin only), newest first.
func (h *Handler) GetAllBookings(c *gin.Context) {
	bookings, err := h.Bookings.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Server error fetching all bookings.")
		return
	}
	c.JSON(http.StatusOK, bookings)
}
