package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/models"
	"taskdesk/internal/services"
	"taskdesk/testutil"
)

func TestAdminOverview(t *testing.T) {
	srv, _ := testutil.SetupMockServer(t)
	svc := services.NewTodoService(apiclient.New(srv.URL, 5*time.Second))

	summaries, err := svc.AdminOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{
		{ID: 1, Name: "John Doe", Email: "john@example.com", TotalTodos: 2},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", TotalTodos: 1},
		{ID: 3, Name: "Sam Lee", Email: "sam@example.com", TotalTodos: 0},
	}, summaries, "done todos are not counted")
}

func TestAdminOverview_UpstreamFailure(t *testing.T) {
	srv := testutil.SetupFailingServer(t)
	svc := services.NewTodoService(apiclient.New(srv.URL, 5*time.Second))

	_, err := svc.AdminOverview(context.Background())
	assert.Error(t, err)
}

func TestTaskLifecycle(t *testing.T) {
	srv, _ := testutil.SetupMockServer(t)
	svc := services.NewTodoService(apiclient.New(srv.URL, 5*time.Second))
	ctx := context.Background()

	todos, err := svc.UserTodos(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)

	form := models.NewTaskForm()
	form.Title = "Set up laptop"
	form.Description = "Install tools"
	form.DueDate = "2031-04-01"
	form.Tags = []string{"it"}

	created, err := svc.CreateTask(ctx, 3, form)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 3, created.AssignedUser)
	assert.Equal(t, models.StatusTodo, created.Status)
	assert.Equal(t, models.PriorityLow, created.Priority)

	form.Status = models.StatusInProgress
	form.Tags = []string{}
	updated, err := svc.UpdateTask(ctx, created.ID, 3, form)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Empty(t, updated.Tags)

	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Set up laptop", got.Title)

	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	_, err = svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)

	err = svc.DeleteTask(ctx, created.ID)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}
