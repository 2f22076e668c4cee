package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

type createCampRequest struct {
	Name     string          `json:"name" binding:"required"`
	Date     string          `json:"date" binding:"required"`
	Time     string          `json:"time"`
	Location string          `json:"location" binding:"required"`
	Address  string          `json:"address"`
	MapURL   string          `json:"mapUrl"`
	Contact  string          `json:"contact"`
	Details  string          `json:"details"`
	Doctors  []models.Doctor `json:"doctors"`
}

// GetCamps handles GET /api/camps.
func (h *Handler) GetCamps(c *gin.Context) {
	camps, err := h.Camps.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Server error fetching camps.")
		return
	}
	c.JSON(http.StatusOK, camps)
}

// CreateCamp handles POST /api/camps (admin only).
func (h *Handler) CreateCamp(c *gin.Context) {
	var req createCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, date and location are required."})
		return
	}

	camp, err := h.Camps.Create(c.Request.Context(), models.Camp{
		Name:     req.Name,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Address:  req.Address,
		MapURL:   req.MapURL,
		Contact:  req.Contact,
		Details:  req.Details,
		Doctors:  req.Doctors,
	}, identity(c).SubjectID)
	if err != nil {
		respondError(c, err, "Server error adding camp.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Camp added successfully", "camp": camp})
}

// UpdateCamp handles PUT /api/camps/:id (admin only). Only the fields present
// in the body are changed.
func (h *Handler) UpdateCamp(c *gin.Context) {
	var patch models.CampPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	camp, err := h.Camps.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "Server error updating camp.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Camp updated successfully", "camp": camp})
}

// DeleteCamp handles DELETE /api/camps/:id (admin only).
func (h *Handler) DeleteCamp(c *gin.Context) {
	if err := h.Camps.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Server error deleting camp.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Camp deleted successfully"})
}
