package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

const (
	adminDisplayName   = "Admin"
	defaultDisplayName = "Verified User"
)

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/auth/admin/login.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username and password are required."})
		return
	}

	if !h.Admin.Match(req.Username, req.Password) {
		log.Ctx(c.Request.Context()).Warn().Str("username", req.Username).Msg("admin login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid Admin Credentials"})
		return
	}

	token, err := h.Tokens.Issue(h.Admin.Username, models.RoleAdmin, adminDisplayName)
	if err != nil {
		respondError(c, err, "Could not generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"role":    models.RoleAdmin,
		"name":    adminDisplayName,
	})
}

type userLoginRequest struct {
	UID      string `json:"uid" binding:"required"`
	UserName string `json:"userName"`
}

// UserLogin handles POST /api/auth/user/login. The uid comes from the
// identity provider the frontend already authenticated against.
func (h *Handler) UserLogin(c *gin.Context) {
	var req userLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "uid is required."})
		return
	}

	token, err := h.Tokens.Issue(req.UID, models.RoleUser, req.UserName)
	if err != nil {
		respondError(c, err, "Could not generate token.")
		return
	}

	name := req.UserName
	if name == "" {
		name = defaultDisplayName
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"role":    models.RoleUser,
		"name":    name,
		"userId":  req.UID,
	})
}
