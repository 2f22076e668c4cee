package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

type feedbackRequest struct {
	Rating  any    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitFeedback handles POST /api/feedback.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	// anything but a JSON number fails the rating check
	rating, ok := req.Rating.(float64)
	if !ok {
		rating = math.NaN()
	}

	caller := identity(c)
	feedback, err := h.Feedback.Submit(c.Request.Context(), caller.SubjectID, caller.DisplayName, rating, req.Comment)
	if err != nil {
		respondError(c, err, "Server error submitting feedback.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted successfully. Thank you!",
		"feedback": feedback,
	})
}

// GetFeedback handles GET /api/feedback, newest first.
func (h *Handler) GetFeedback(c *gin.Context) {
	feedback, err := h.Feedback.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Server error fetching feedback.")
		return
	}
	c.JSON(http.StatusOK, feedback)
}
