package repositories

import (
	"context"
	"sync"

	"taskdesk/internal/models"
)

// MemoryStore はプロセス内に保持するストアです。開発とテストの既定値です。
type MemoryStore struct {
	mu         sync.RWMutex
	users      []models.User
	todos      []models.Todo
	admin      *models.Admin
	nextUserID int
	nextTodoID int
}

// NewMemoryStore はフィクスチャを読み込んだ MemoryStore を作成します。
func NewMemoryStore(f *Fixture) *MemoryStore {
	s := &MemoryStore{nextUserID: 1, nextTodoID: 1}
	if f == nil {
		return s
	}
	if f.Auth != nil {
		admin := *f.Auth
		s.admin = &admin
	}
	for _, u := range f.Users {
		s.users = append(s.users, u)
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	for _, t := range f.Todo {
		s.todos = append(s.todos, cloneTodo(t))
		if t.ID >= s.nextTodoID {
			s.nextTodoID = t.ID + 1
		}
	}
	return s
}

func cloneTodo(t models.Todo) models.Todo {
	if t.Tags == nil {
		t.Tags = []string{}
	} else {
		t.Tags = append([]string{}, t.Tags...)
	}
	return t
}

func (s *MemoryStore) ListUsers(_ context.Context, f UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, u := range s.users {
		if matchUser(u, f) {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *u
	created.ID = s.nextUserID
	s.nextUserID++
	s.users = append(s.users, created)
	return &created, nil
}

func (s *MemoryStore) GetAdmin(_ context.Context) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return nil, ErrAdminNotFound
	}
	admin := *s.admin
	return &admin, nil
}

func (s *MemoryStore) ListTodos(_ context.Context, f TodoFilter) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todos := []models.Todo{}
	for _, t := range s.todos {
		if matchTodo(t, f) {
			todos = append(todos, cloneTodo(t))
		}
	}
	return todos, nil
}

func (s *MemoryStore) FindTodoByID(_ context.Context, id int) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrTodoNotFound
	}
	t := cloneTodo(s.todos[i])
	return &t, nil
}

func (s *MemoryStore) CreateTodo(_ context.Context, t *models.Todo) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := cloneTodo(*t)
	created.ID = s.nextTodoID
	s.nextTodoID++
	s.todos = append(s.todos, created)
	out := cloneTodo(created)
	return &out, nil
}

func (s *MemoryStore) UpdateTodo(_ context.Context, id int, patch models.TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrTodoNotFound
	}
	patch.Apply(&s.todos[i])
	out := cloneTodo(s.todos[i])
	return &out, nil
}

func (s *MemoryStore) DeleteTodo(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrTodoNotFound
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// indexOf は呼び出し側でロックを保持している前提です。
func (s *MemoryStore) indexOf(id int) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
