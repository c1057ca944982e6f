package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/services"
)

// UserHandler は一般ユーザーのダッシュボードを管理します。
type UserHandler struct {
	todoService *services.TodoService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(todoService *services.TodoService) *UserHandler {
	return &UserHandler{todoService: todoService}
}

// DashboardHandler はログイン中のユーザーに割り当てられたタスクを返します。
func (h *UserHandler) DashboardHandler(c *gin.Context) {
	session := CurrentSession(c)
	name := session.Name
	if name == "" {
		name = "User"
	}

	todos, err := h.todoService.UserTodos(c.Request.Context(), session.ID)
	if err != nil {
		logf(c, "Failed to load dashboard for user %d: %v", session.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error loading tasks"})
		return
	}

	page := services.Paginate(
		services.NewTodoViews(todos, time.Now()),
		queryInt(c, "page", 0),
		queryInt(c, "rowsPerPage", services.DefaultRowsPerPage),
		services.UserRowsPerPageOptions,
	)
	resp := gin.H{"name": name, "todos": page}
	if len(todos) == 0 {
		resp["message"] = "No tasks assigned yet."
	}
	c.JSON(http.StatusOK, resp)
}

// StreamHandler は残り時間を1秒ごとに SSE で送ります。
func (h *UserHandler) StreamHandler(c *gin.Context) {
	session := CurrentSession(c)
	todos, err := h.todoService.UserTodos(c.Request.Context(), session.ID)
	if err != nil {
		logf(c, "Failed to load todos for stream: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error loading tasks"})
		return
	}
	streamRemaining(c, todos)
}

// queryInt は数値のクエリパラメータを読みます。無い・不正な場合は def です。
func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
