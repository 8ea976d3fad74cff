package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogblog/internal/config"
	"github.com/blogblog/internal/db"
	"github.com/blogblog/internal/handler"
	"github.com/blogblog/internal/logging"
	"github.com/blogblog/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.IsDevelopment())
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	created, err := db.EnsureSuperuser(db.DB, cfg.SuperRootUserName, cfg.SuperRootEmail, cfg.SuperRootPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure superuser")
	}
	if created {
		log.Info().Str("username", cfg.SuperRootUserName).Msg("superuser created")
	}

	api := handler.NewAPI(db.DB, handler.Options{
		PostCooldown:     cfg.PostCooldown,
		FeedPageSize:     cfg.FeedPageSize,
		SlugReplacement:  cfg.SlugReplacement,
		SlugDisambiguate: cfg.SlugDisambiguate,
	})
	engine := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: !cfg.IsDevelopment(),
	})

	csrfKey := sha256.Sum256([]byte(cfg.SessionSecret))
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.CSRF(engine, csrfKey[:], cfg.CSRFTrustedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
