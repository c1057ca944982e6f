package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
)

func newFixtureStore(t *testing.T) *repositories.MemoryStore {
	t.Helper()
	f, err := repositories.LoadFixture("")
	require.NoError(t, err)
	return repositories.NewMemoryStore(f)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newFixtureStore(t)

	users, err := s.ListUsers(ctx, repositories.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	email := "john@example.com"
	users, err = s.ListUsers(ctx, repositories.UserFilter{Email: &email})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, users[0].ID)

	created, err := s.CreateUser(ctx, &models.User{Name: "Kim", Email: "kim@example.com", Password: "Secret9"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID, "IDs continue after the fixture's highest ID")

	missing := "nobody@example.com"
	users, err = s.ListUsers(ctx, repositories.UserFilter{Email: &missing})
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestMemoryStore_Todos(t *testing.T) {
	ctx := context.Background()
	s := newFixtureStore(t)

	t.Run("filter by assigned user", func(t *testing.T) {
		uid := 2
		todos, err := s.ListTodos(ctx, repositories.TodoFilter{AssignedUser: &uid})
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, "Review budget", todos[0].Title)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		todo, err := s.FindTodoByID(ctx, 1)
		require.NoError(t, err)
		todo.Tags[0] = "mutated"

		again, err := s.FindTodoByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "demo", again.Tags[0])
	})

	t.Run("nil tags become empty", func(t *testing.T) {
		created, err := s.CreateTodo(ctx, &models.Todo{Title: "No tags", AssignedUser: 3})
		require.NoError(t, err)
		assert.Equal(t, 5, created.ID)
		assert.NotNil(t, created.Tags)
		assert.Empty(t, created.Tags)
	})

	t.Run("patch", func(t *testing.T) {
		status := models.StatusDone
		updated, err := s.UpdateTodo(ctx, 2, models.TodoPatch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.StatusDone, updated.Status)
		assert.Equal(t, "Update onboarding guide", updated.Title)
	})

	t.Run("unknown ID returns ErrTodoNotFound", func(t *testing.T) {
		_, err := s.FindTodoByID(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
		_, err = s.UpdateTodo(ctx, 999, models.TodoPatch{})
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
		assert.ErrorIs(t, s.DeleteTodo(ctx, 999), repositories.ErrTodoNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteTodo(ctx, 3))
		_, err := s.FindTodoByID(ctx, 3)
		assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
	})
}

func TestMemoryStore_Admin(t *testing.T) {
	ctx := context.Background()

	admin, err := newFixtureStore(t).GetAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	_, err = repositories.NewMemoryStore(nil).GetAdmin(ctx)
	assert.ErrorIs(t, err, repositories.ErrAdminNotFound)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	f := &repositories.Fixture{
		Users: []models.User{
			{ID: 10, Name: "A", Email: "a@example.com", Password: "Pass1"},
			{ID: 20, Name: "B", Email: "b@example.com", Password: "Pass2"},
		},
		Todo: []models.Todo{
			{ID: 7, Title: "for B", AssignedUser: 20},
		},
	}

	s := repositories.NewMemoryStore(nil)
	require.NoError(t, repositories.Seed(ctx, s, f))

	users, err := s.ListUsers(ctx, repositories.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 2, users[1].ID)

	todos, err := s.ListTodos(ctx, repositories.TodoFilter{})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, 2, todos[0].AssignedUser, "assignedUser is remapped to the new user ID")

	// 2回目は何もしない
	require.NoError(t, repositories.Seed(ctx, s, f))
	users, err = s.ListUsers(ctx, repositories.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestLoadFixture_MissingFile(t *testing.T) {
	_, err := repositories.LoadFixture("does-not-exist.json")
	assert.Error(t, err)
}
