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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "playmatch/lobbies/docs" // registers the swagger docs

	"playmatch/lobbies/internal/cache"
	"playmatch/lobbies/internal/config"
	"playmatch/lobbies/internal/database"
	"playmatch/lobbies/internal/handler"
	"playmatch/lobbies/internal/hub"
	"playmatch/lobbies/internal/middleware"
	"playmatch/lobbies/internal/repository"
	"playmatch/lobbies/internal/repository/gormrepo"
	"playmatch/lobbies/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title           Playmatch Lobbies API
// @version         1.0
// @description     Lobby management API: create, update, join and leave game lobbies.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	log := setupLogger(cfg)

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	users := gormrepo.NewUserRepository(db)
	var lobbies repository.LobbyRepository = gormrepo.NewLobbyRepository(db)

	var rateLimit gin.HandlerFunc
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to redis")
		}
		log.WithField("addr", cfg.RedisAddr).Info("Redis connection established.")

		lobbies = cache.NewLobbyRepository(lobbies, client, "", cfg.CacheTTL)
		if cfg.RateLimitMax > 0 {
			rateLimit = middleware.RateLimit(client, "lobbies:", cfg.RateLimitMax, cfg.RateLimitWindow)
		}
	}

	events := hub.NewHub()

	authService, err := service.NewAuthService(users, cfg.JWTSecret, cfg.JWTExpiry())
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	lobbyService := service.NewLobbyService(lobbies, users, events, service.LobbyConfig{
		MinPlayers:       cfg.LobbyMinPlayers,
		PrivateKeyLength: cfg.PrivateKeyLength,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		Logger:    log,
		Auth:      authService,
		Lobbies:   lobbyService,
		Hub:       events,
		RateLimit: rateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Server is running on %s", srv.Addr)
		log.Infof("Swagger UI is available at http://localhost:%s/swagger/index.html", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	events.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}

// setupLogger configures the standard logger, which every package logs
// through, and returns it for the request logger.
func setupLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
