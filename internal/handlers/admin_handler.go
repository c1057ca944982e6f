package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/models"
	"taskdesk/internal/services"
	"taskdesk/internal/validation"
)

const (
	msgNoUserSelected = "No user selected"
	msgNoTaskSelected = "No task selected"
)

// AdminHandler は管理者画面 (ユーザー一覧・タスク管理・作成・編集) を管理します。
type AdminHandler struct {
	todoService *services.TodoService
}

// NewAdminHandler は新しいAdminHandlerを作成します。
func NewAdminHandler(todoService *services.TodoService) *AdminHandler {
	return &AdminHandler{todoService: todoService}
}

// DashboardHandler はユーザーごとの未完了タスク数の一覧です。
func (h *AdminHandler) DashboardHandler(c *gin.Context) {
	users, err := h.todoService.AdminOverview(c.Request.Context())
	if err != nil {
		logf(c, "Failed to load admin dashboard: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username": CurrentSession(c).Username,
		"users":    users,
	})
}

// ManageTodosHandler は選択したユーザーのタスクを絞り込み・並べ替え・ページングして返します。
func (h *AdminHandler) ManageTodosHandler(c *gin.Context) {
	userID, ok := selectedUser(c)
	if !ok {
		return
	}
	todos, err := h.todoService.UserTodos(c.Request.Context(), userID)
	if err != nil {
		logf(c, "Failed to load todos for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error loading todos"})
		return
	}

	status := c.DefaultQuery("status", "all")
	search := c.Query("search")
	sortOrder := c.Query("sort")

	filtered := services.SortByDueDate(services.FilterTodos(todos, status, search), sortOrder)
	page := services.Paginate(
		services.NewTodoViews(filtered, time.Now()),
		queryInt(c, "page", 0),
		queryInt(c, "rowsPerPage", services.DefaultRowsPerPage),
		services.AdminRowsPerPageOptions,
	)
	c.JSON(http.StatusOK, gin.H{
		"userId":   userID,
		"userName": c.Query("userName"),
		"status":   status,
		"search":   search,
		"sort":     sortOrder,
		"todos":    page,
	})
}

// StreamHandler は選択したユーザーのタスクの残り時間を SSE で送ります。
func (h *AdminHandler) StreamHandler(c *gin.Context) {
	userID, ok := selectedUser(c)
	if !ok {
		return
	}
	todos, err := h.todoService.UserTodos(c.Request.Context(), userID)
	if err != nil {
		logf(c, "Failed to load todos for stream: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error loading todos"})
		return
	}
	streamRemaining(c, todos)
}

// DeleteTodoHandler はタスクを削除します。
func (h *AdminHandler) DeleteTodoHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.todoService.DeleteTask(c.Request.Context(), id); err != nil {
		logf(c, "Failed to delete todo %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// CreateTaskPageHandler はタスク作成フォームの初期値を返します。
func (h *AdminHandler) CreateTaskPageHandler(c *gin.Context) {
	userID, ok := selectedUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":   userID,
		"userName": c.Query("userName"),
		"form":     models.NewTaskForm(),
	})
}

// CreateTaskHandler は選択したユーザーにタスクを作成します。成功後のフォームは初期値に戻します。
func (h *AdminHandler) CreateTaskHandler(c *gin.Context) {
	userID, ok := selectedUser(c)
	if !ok {
		return
	}
	var form models.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err, validation.TaskMessages)
		return
	}

	created, err := h.todoService.CreateTask(c.Request.Context(), userID, form)
	if err != nil {
		logf(c, "Failed to create task for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully!",
		"todo":    created,
		"form":    models.NewTaskForm(),
	})
}

// EditTaskPageHandler は既存タスクで埋めた編集フォームを返します。
func (h *AdminHandler) EditTaskPageHandler(c *gin.Context) {
	id, ok := selectedTask(c)
	if !ok {
		return
	}
	todo, err := h.todoService.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		logf(c, "Failed to load todo %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error loading todos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       todo.ID,
		"userId":   todo.AssignedUser,
		"userName": c.Query("userName"),
		"form":     models.TaskFormFromTodo(*todo),
	})
}

// EditTaskHandler はフォーム全体で既存タスクを更新し、管理画面への戻り先を返します。
func (h *AdminHandler) EditTaskHandler(c *gin.Context) {
	id, ok := selectedTask(c)
	if !ok {
		return
	}
	userID, ok := selectedUser(c)
	if !ok {
		return
	}
	var form models.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err, validation.TaskMessages)
		return
	}

	updated, err := h.todoService.UpdateTask(c.Request.Context(), id, userID, form)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		logf(c, "Failed to update todo %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update task"})
		return
	}

	back := url.Values{}
	back.Set("userId", strconv.Itoa(userID))
	back.Set("userName", c.Query("userName"))
	c.JSON(http.StatusOK, gin.H{
		"message":  "Task updated successfully!",
		"todo":     updated,
		"redirect": "/manage-user-todos?" + back.Encode(),
	})
}

// selectedUser は userId クエリを読みます。無い・不正な場合は 400 を返します。
func selectedUser(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("userId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoUserSelected})
		return 0, false
	}
	return id, true
}

// selectedTask は id クエリを読みます。無い・不正な場合は 400 を返します。
func selectedTask(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoTaskSelected})
		return 0, false
	}
	return id, true
}
