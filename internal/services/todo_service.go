package services

import (
	"context"
	"fmt"
	"log"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/models"
)

// TodoService はタスクの取得・作成・更新・削除をモックサーバー経由で行います。
type TodoService struct {
	client *apiclient.Client
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(client *apiclient.Client) *TodoService {
	return &TodoService{client: client}
}

// AdminOverview はユーザーごとの未完了タスク数を返します。ユーザーの並びはサーバーの順のままです。
func (s *TodoService) AdminOverview(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	todos, err := s.client.ListTodos(ctx)
	if err != nil {
		log.Printf("Failed to fetch todos: %v", err)
		return nil, fmt.Errorf("failed to fetch todos: %w", err)
	}

	open := make(map[int]int)
	for _, t := range todos {
		if t.Status != models.StatusDone {
			open[t.AssignedUser]++
		}
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, models.UserSummary{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			TotalTodos: open[u.ID],
		})
	}
	return summaries, nil
}

// UserTodos は担当ユーザーのタスクを返します。
func (s *TodoService) UserTodos(ctx context.Context, userID int) ([]models.Todo, error) {
	todos, err := s.client.ListTodosByUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to fetch todos for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch todos: %w", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// GetTask は編集画面用にタスクを1件取得します。存在しなければ apiclient.ErrNotFound にマッチします。
func (s *TodoService) GetTask(ctx context.Context, id int) (*models.Todo, error) {
	todo, err := s.client.GetTodo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todo %d: %w", id, err)
	}
	return todo, nil
}

// CreateTask はフォームの内容でユーザーにタスクを割り当てます。
func (s *TodoService) CreateTask(ctx context.Context, userID int, form models.TaskForm) (*models.Todo, error) {
	form.Tags = NormalizeTags(form.Tags)
	created, err := s.client.CreateTodo(ctx, form.ToTodo(userID))
	if err != nil {
		log.Printf("Failed to create todo: %v", err)
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return created, nil
}

// UpdateTask はフォーム全体を PATCH で送ります。
func (s *TodoService) UpdateTask(ctx context.Context, id, userID int, form models.TaskForm) (*models.Todo, error) {
	form.Tags = NormalizeTags(form.Tags)
	updated, err := s.client.PatchTodo(ctx, id, form.ToPatch(userID))
	if err != nil {
		log.Printf("Failed to update todo %d: %v", id, err)
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return updated, nil
}

// DeleteTask はタスクを削除します。
func (s *TodoService) DeleteTask(ctx context.Context, id int) error {
	if err := s.client.DeleteTodo(ctx, id); err != nil {
		log.Printf("Failed to delete todo %d: %v", id, err)
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
