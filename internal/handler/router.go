package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"playmatch/lobbies/internal/auth"
	"playmatch/lobbies/internal/hub"
	"playmatch/lobbies/internal/middleware"
	"playmatch/lobbies/internal/service"
)

// RouterDeps are the collaborators the HTTP surface is built from.
type RouterDeps struct {
	Logger  *logrus.Logger
	Auth    *service.AuthService
	Lobbies *service.LobbyService
	Hub     *hub.Hub
	// RateLimit guards the auth endpoints when set.
	RateLimit gin.HandlerFunc
}

// NewRouter wires every route under /api/v1 plus /ping and /swagger.
func NewRouter(d RouterDeps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(d.Logger))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authHandler := NewAuthHandler(d.Auth)
	lobbyHandler := NewLobbyHandler(d.Lobbies, d.Hub)
	required := auth.AuthMiddleware(d.Auth)
	optional := auth.OptionalAuthMiddleware(d.Auth)

	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		if d.RateLimit != nil {
			authRoutes.Use(d.RateLimit)
		}
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", required, authHandler.Logout)
		}

		lobbyRoutes := apiV1.Group("/lobbies")
		{
			lobbyRoutes.POST("", required, lobbyHandler.CreateLobby)
			lobbyRoutes.GET("", optional, lobbyHandler.ListLobbies)
			lobbyRoutes.GET("/:id", optional, lobbyHandler.GetLobby)
			lobbyRoutes.PUT("/:id", required, lobbyHandler.UpdateLobby)
			lobbyRoutes.DELETE("/:id", required, lobbyHandler.DeleteLobby)
			lobbyRoutes.POST("/:id/join", required, lobbyHandler.JoinLobby)
			lobbyRoutes.POST("/:id/leave", required, lobbyHandler.LeaveLobby)
			lobbyRoutes.GET("/:id/events", required, lobbyHandler.Events)
		}
	}

	return router
}
