// Package router wires handlers and middleware into the gin engine.
package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/handlers"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/middleware"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

type Options struct {
	AllowedOrigins []string
	// StaticDir, when set, serves the web frontend for non-API paths.
	StaticDir string
	// TrustedProxies decides whose X-Forwarded-For is believed. Nil trusts
	// none, so ClientIP is the socket peer.
	TrustedProxies []string
	// LoginLimiter guards the login routes. Nil disables limiting.
	LoginLimiter gin.HandlerFunc
}

func New(h *handlers.Handler, opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	api := r.Group("/api")
	api.GET("", h.Status)

	authRoutes := api.Group("/auth")
	if opts.LoginLimiter != nil {
		authRoutes.Use(opts.LoginLimiter)
	}
	{
		authRoutes.POST("/admin/login", h.AdminLogin)
		authRoutes.POST("/user/login", h.UserLogin)
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(h.Tokens))
	{
		// Camp Routes
		protected.GET("/camps", h.GetCamps)
		protected.POST("/camps", adminOnly, h.CreateCamp)
		protected.PUT("/camps/:id", adminOnly, h.UpdateCamp)
		protected.DELETE("/camps/:id", adminOnly, h.DeleteCamp)

		// Booking Routes
		protected.POST("/camps/:id/book", h.BookCamp)
		protected.GET("/bookings/my", h.GetMyBookings)
		protected.GET("/bookings/admin", adminOnly, h.GetAllBookings)

		// Feedback Routes
		protected.POST("/feedback", h.SubmitFeedback)
		protected.GET("/feedback", h.GetFeedback)
	}

	r.NoRoute(notFound(opts.StaticDir))
	return r, nil
}

func notFound(staticDir string) gin.HandlerFunc {
	var files http.Handler
	if staticDir != "" {
		files = http.FileServer(http.Dir(staticDir))
	}
	return func(c *gin.Context) {
		if files == nil || strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
