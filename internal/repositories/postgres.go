package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"taskdesk/internal/models"
)

// PostgresStore は PostgreSQL をバックエンドとするストアです。タグは TEXT[] で保存します。
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore は新しい PostgresStore を作成します。
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (r *PostgresStore) ListUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	query := "SELECT id, name, email, password FROM users"
	var args []any
	if f.Email != nil {
		query += " WHERE email = $1"
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

func (r *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	created := *u
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id",
		u.Name, u.Email, u.Password,
	).Scan(&created.ID)
	if err != nil {
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	return &created, nil
}

func (r *PostgresStore) GetAdmin(ctx context.Context) (*models.Admin, error) {
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

const postgresTodoColumns = "id, title, description, status, priority, due_date, tags, assigned_user"

func scanPostgresTodo(scan func(...any) error) (models.Todo, error) {
	var t models.Todo
	var tags pq.StringArray
	if err := scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &tags, &t.AssignedUser); err != nil {
		return t, err
	}
	t.Tags = []string(tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

func (r *PostgresStore) ListTodos(ctx context.Context, f TodoFilter) ([]models.Todo, error) {
	query := "SELECT " + postgresTodoColumns + " FROM todos"
	var args []any
	if f.AssignedUser != nil {
		query += " WHERE assigned_user = $1"
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
		t, err := scanPostgresTodo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

func (r *PostgresStore) FindTodoByID(ctx context.Context, id int) (*models.Todo, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+postgresTodoColumns+" FROM todos WHERE id = $1", id)
	t, err := scanPostgresTodo(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return &t, nil
}

func (r *PostgresStore) CreateTodo(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO todos (title, description, status, priority, due_date, tags, assigned_user)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, pq.Array(nonNilTags(t.Tags)), t.AssignedUser,
	).Scan(&id)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}
	return r.FindTodoByID(ctx, id)
}

func (r *PostgresStore) UpdateTodo(ctx context.Context, id int, patch models.TodoPatch) (*models.Todo, error) {
	existing, err := r.FindTodoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(existing)

	_, err = r.DB.ExecContext(ctx,
		`UPDATE todos SET title = $1, description = $2, status = $3, priority = $4,
		 due_date = $5, tags = $6, assigned_user = $7 WHERE id = $8`,
		existing.Title, existing.Description, existing.Status, existing.Priority,
		existing.DueDate, pq.Array(nonNilTags(existing.Tags)), existing.AssignedUser, id,
	)
	if err != nil {
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	return r.FindTodoByID(ctx, id)
}

func (r *PostgresStore) DeleteTodo(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE id = $1", id)
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

func (r *PostgresStore) Close() error { return r.DB.Close() }

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
