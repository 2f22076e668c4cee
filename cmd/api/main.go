package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/config"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/handlers"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/logging"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/middleware"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/router"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
	"github.com/kanadp40-ctrl/NotifyHealth/internal/utils"
)

func main() {
	cfg, err := config.Load()
	logging.Init("notifyhealth-api", cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Auth ---
	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	admin, err := utils.NewAdminCredentials(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("admin credentials")
	}
	if !admin.Enabled() {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is NOT SET; admin login is disabled")
	} else if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("admin password given in plaintext; set ADMIN_PASSWORD_HASH instead")
	}

	// --- Storage (connects lazily on first request) ---
	connector := store.NewConnector(cfg.Mongo.StoreConfig())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := connector.Close(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("MongoDB disconnect failed")
		}
	}()

	// --- Login rate limiting ---
	rl := cfg.RateLimit
	rdb := middleware.NewRedisClient(ctx, rl.RedisAddr, rl.RedisPassword, rl.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := middleware.RateLimit(rdb, middleware.RateLimitOptions{
		Prefix: "notifyhealth:login",
		Limit:  rl.Limit,
		Window: rl.Window,
	})

	h := handlers.NewHandler(connector.Store(), tokens, admin)
	r, err := router.New(h, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		TrustedProxies: cfg.TrustedProxies,
		LoginLimiter:   limiter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
