// Package routesはroutingを行います。
package routes

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/config"
	"taskdesk/internal/handlers"
	"taskdesk/internal/services"
	"taskdesk/internal/validation"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(cfg *config.Config, client *apiclient.Client) *gin.Engine {
	if err := validation.Register(); err != nil {
		log.Fatalf("Failed to register validation rules: %v", err)
	}

	r := gin.Default()

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// サービス
	authService := services.NewAuthService(client)
	todoService := services.NewTodoService(client)
	sessionService := services.NewSessionService(cfg.SessionSecret, cfg.SessionTTL)

	// ハンドラー
	authHandler := handlers.NewAuthHandler(authService, sessionService)
	userHandler := handlers.NewUserHandler(todoService)
	adminHandler := handlers.NewAdminHandler(todoService)

	r.Use(RequestIDMiddleware())
	r.Use(SessionMiddleware(sessionService))

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/upstream-check", func(c *gin.Context) {
		if err := client.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Mock server is unreachable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Mock server is reachable"})
	})
	r.POST("/logout", authHandler.LogoutHandler)

	auth := r.Group("/")
	auth.Use(Guard(AreaAuth))
	{
		auth.GET("/login", authHandler.LoginPageHandler)
		auth.POST("/login", authHandler.LoginHandler)
		auth.GET("/register", authHandler.RegisterPageHandler)
		auth.POST("/register", authHandler.RegisterHandler)
	}

	user := r.Group("/")
	user.Use(Guard(AreaUser))
	{
		user.GET("/", userHandler.DashboardHandler)
		user.GET("/stream", userHandler.StreamHandler)
	}

	admin := r.Group("/")
	admin.Use(Guard(AreaAdmin))
	{
		admin.GET("/admin-dashboard", adminHandler.DashboardHandler)
		admin.GET("/manage-user-todos", adminHandler.ManageTodosHandler)
		admin.GET("/manage-user-todos/stream", adminHandler.StreamHandler)
		admin.DELETE("/manage-user-todos/:id", adminHandler.DeleteTodoHandler)
		admin.GET("/create-task", adminHandler.CreateTaskPageHandler)
		admin.POST("/create-task", adminHandler.CreateTaskHandler)
		admin.GET("/edit-user-todo", adminHandler.EditTaskPageHandler)
		admin.POST("/edit-user-todo", adminHandler.EditTaskHandler)
	}

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from taskdesk!"})
}
