// Package mockserver は json-server 互換のフィクスチャ REST サーバーです。
// /users, /todo, /auth を提供し、バリデーションや認証は行いません。
package mockserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskdesk/internal/repositories"
)

// NewRouter はストアに対するルーターを組み立てます。
func NewRouter(store repositories.Store, allowOrigins []string) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(config))

	h := NewHandler(store)

	r.GET("/users", h.ListUsersHandler)
	r.POST("/users", h.CreateUserHandler)
	r.GET("/auth", h.GetAdminHandler)

	r.GET("/todo", h.ListTodosHandler)
	r.GET("/todo/:id", h.GetTodoHandler)
	r.POST("/todo", h.CreateTodoHandler)
	r.PATCH("/todo/:id", h.PatchTodoHandler)
	r.DELETE("/todo/:id", h.DeleteTodoHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{})
	})
	return r
}
