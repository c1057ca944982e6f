package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"taskdesk/internal/models"
)

// MySQLStore は MySQL をバックエンドとするストアです。タグは JSON テキストで保存します。
type MySQLStore struct {
	DB *sql.DB
}

// NewMySQLStore は新しい MySQLStore を作成します。
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

func (r *MySQLStore) ListUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	query := "SELECT id, name, email, password FROM users"
	var args []any
	if f.Email != nil {
		query += " WHERE email = ?"
		args = append(args, *f.Email)
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to query users: %v", err)
		return nil, fmt.Errorf("could not query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
			return nil, fmt.Errorf("could not scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *MySQLStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		u.Name, u.Email, u.Password,
	)
	if err != nil {
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	created := *u
	created.ID = int(id)
	return &created, nil
}

func (r *MySQLStore) GetAdmin(ctx context.Context) (*models.Admin, error) {
	var a models.Admin
	err := r.DB.QueryRowContext(ctx, "SELECT username, password FROM admins ORDER BY id LIMIT 1").Scan(&a.Username, &a.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("could not query admin: %w", err)
	}
	return &a, nil
}

const mysqlTodoColumns = "id, title, description, status, priority, due_date, tags, assigned_user"

func scanMySQLTodo(scan func(...any) error) (models.Todo, error) {
	var t models.Todo
	var tags string
	if err := scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &tags, &t.AssignedUser); err != nil {
		return t, err
	}
	t.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			return t, fmt.Errorf("could not decode tags of todo %d: %w", t.ID, err)
		}
	}
	return t, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *MySQLStore) ListTodos(ctx context.Context, f TodoFilter) ([]models.Todo, error) {
	query := "SELECT " + mysqlTodoColumns + " FROM todos"
	var args []any
	if f.AssignedUser != nil {
		query += " WHERE assigned_user = ?"
		args = append(args, *f.AssignedUser)
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanMySQLTodo(rows.Scan)
		if err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

func (r *MySQLStore) FindTodoByID(ctx context.Context, id int) (*models.Todo, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+mysqlTodoColumns+" FROM todos WHERE id = ?", id)
	t, err := scanMySQLTodo(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return &t, nil
}

func (r *MySQLStore) CreateTodo(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return nil, fmt.Errorf("could not encode tags: %w", err)
	}
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (title, description, status, priority, due_date, tags, assigned_user) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, tags, t.AssignedUser,
	)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindTodoByID(ctx, int(id))
}

func (r *MySQLStore) UpdateTodo(ctx context.Context, id int, patch models.TodoPatch) (*models.Todo, error) {
	existing, err := r.FindTodoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(existing)

	tags, err := encodeTags(existing.Tags)
	if err != nil {
		return nil, fmt.Errorf("could not encode tags: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE todos SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, tags = ?, assigned_user = ? WHERE id = ?",
		existing.Title, existing.Description, existing.Status, existing.Priority, existing.DueDate, tags, existing.AssignedUser, id,
	)
	if err != nil {
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	return r.FindTodoByID(ctx, id)
}

func (r *MySQLStore) DeleteTodo(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		log.Printf("Failed to delete todo: %v", err)
		return fmt.Errorf("could not delete todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *MySQLStore) Close() error { return r.DB.Close() }
