package mockserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
)

// Handler はモックサーバーのハンドラーを管理します。
type Handler struct {
	store repositories.Store
}

// NewHandler は新しい Handler を作成します。
func NewHandler(store repositories.Store) *Handler {
	return &Handler{store: store}
}

// ListUsersHandler は GET /users です。クエリはすべて完全一致のフィルターになります。
func (h *Handler) ListUsersHandler(c *gin.Context) {
	query := c.Request.URL.Query()
	var f repositories.UserFilter
	if v, ok := query["email"]; ok && len(v) > 0 {
		f.Email = &v[0]
	}

	users, err := h.store.ListUsers(c.Request.Context(), f)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, filterByQuery(users, query))
}

// CreateUserHandler は POST /users です。
func (h *Handler) CreateUserHandler(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	created, err := h.store.CreateUser(c.Request.Context(), &u)
	if err != nil {
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetAdminHandler は GET /auth です。
func (h *Handler) GetAdminHandler(c *gin.Context) {
	admin, err := h.store.GetAdmin(c.Request.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{})
			return
		}
		log.Printf("Failed to get admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin"})
		return
	}
	c.JSON(http.StatusOK, admin)
}

// ListTodosHandler は GET /todo です。
func (h *Handler) ListTodosHandler(c *gin.Context) {
	query := c.Request.URL.Query()
	var f repositories.TodoFilter
	if v := query.Get("assignedUser"); v != "" {
		// 数値でなければ絞り込みは filterByQuery に任せる (結果は空になる)
		if id, err := strconv.Atoi(v); err == nil {
			f.AssignedUser = &id
		}
	}

	todos, err := h.store.ListTodos(c.Request.Context(), f)
	if err != nil {
		log.Printf("Failed to list todos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todos"})
		return
	}
	c.JSON(http.StatusOK, filterByQuery(todos, query))
}

// GetTodoHandler は GET /todo/:id です。
func (h *Handler) GetTodoHandler(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	todo, err := h.store.FindTodoByID(c.Request.Context(), id)
	if err != nil {
		h.respondTodoError(c, "find", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// CreateTodoHandler は POST /todo です。
func (h *Handler) CreateTodoHandler(c *gin.Context) {
	var t models.Todo
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	created, err := h.store.CreateTodo(c.Request.Context(), &t)
	if err != nil {
		log.Printf("Failed to create todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PatchTodoHandler は PATCH /todo/:id です。送られたフィールドだけをマージします。
func (h *Handler) PatchTodoHandler(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	var patch models.TodoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	updated, err := h.store.UpdateTodo(c.Request.Context(), id, patch)
	if err != nil {
		h.respondTodoError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTodoHandler は DELETE /todo/:id です。成功時は空オブジェクトを返します。
func (h *Handler) DeleteTodoHandler(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteTodo(c.Request.Context(), id); err != nil {
		h.respondTodoError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) respondTodoError(c *gin.Context, op string, err error) {
	if errors.Is(err, repositories.ErrTodoNotFound) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	log.Printf("Failed to %s todo: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to %s todo", op)})
}

// todoID は :id を数値に変換します。数値でなければ存在しない ID として 404 を返します。
func todoID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{})
		return 0, false
	}
	return id, true
}

// filterByQuery は各要素の JSON 表現のフィールドとクエリ値を文字列として比較します。
// 存在しないフィールドを指定した場合は何も一致しません。
func filterByQuery[T any](items []T, query url.Values) []T {
	if len(query) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		fields, err := toFields(item)
		if err != nil {
			log.Printf("Failed to inspect record for filtering: %v", err)
			continue
		}
		if matchesQuery(fields, query) {
			out = append(out, item)
		}
	}
	return out
}

func toFields(item any) (map[string]any, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func matchesQuery(fields map[string]any, query url.Values) bool {
	for key, values := range query {
		v, ok := fields[key]
		if !ok {
			return false
		}
		got := fmt.Sprint(v)
		matched := false
		for _, want := range values {
			if got == want {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
