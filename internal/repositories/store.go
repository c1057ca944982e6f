// Package repositories はモックサーバーのデータ操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"errors"

	"taskdesk/internal/models"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrAdminNotFound = errors.New("admin not found")
)

// UserFilter は /users の検索条件です。nil は条件なし。
type UserFilter struct {
	Email *string
}

// TodoFilter は /todo の検索条件です。nil は条件なし。
type TodoFilter struct {
	AssignedUser *int
}

// UserRepository はユーザーの保存先です。
type UserRepository interface {
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
}

// TodoRepository はタスクの保存先です。
type TodoRepository interface {
	ListTodos(ctx context.Context, f TodoFilter) ([]models.Todo, error)
	FindTodoByID(ctx context.Context, id int) (*models.Todo, error)
	CreateTodo(ctx context.Context, t *models.Todo) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id int, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

// AdminRepository は GET /auth の管理者レコードを返します。
type AdminRepository interface {
	GetAdmin(ctx context.Context) (*models.Admin, error)
}

// Store はモックサーバーが必要とするすべての操作です。
type Store interface {
	UserRepository
	TodoRepository
	AdminRepository
	Close() error
}

func matchUser(u models.User, f UserFilter) bool {
	return f.Email == nil || u.Email == *f.Email
}

func matchTodo(t models.Todo, f TodoFilter) bool {
	return f.AssignedUser == nil || t.AssignedUser == *f.AssignedUser
}
