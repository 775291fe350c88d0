package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func setupTaskService(t *testing.T) (*taskService, *mockTaskRepository) {
	t.Helper()
	repo := newMockTaskRepository()
	svc := NewTaskService(repo, testLogger()).(*taskService)
	return svc, repo
}

func TestTaskService_CreateAndList(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		task, err := svc.CreateTask(ctx, owner, TaskInput{Title: title})
		require.NoError(t, err)
		assert.Equal(t, owner.ID, task.OwnerID)
		assert.False(t, task.Status)
		assert.Nil(t, task.Description)
	}

	asc, err := svc.ListTasks(ctx, owner, domain.SortAsc)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "first", asc[0].Title)
	assert.Equal(t, "third", asc[2].Title)

	desc, err := svc.ListTasks(ctx, owner, domain.SortDesc)
	require.NoError(t, err)
	assert.Equal(t, "third", desc[0].Title)

	others, err := svc.ListTasks(ctx, &domain.User{ID: uuid.New()}, domain.SortAsc)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc, repo := setupTaskService(t)

	_, err := svc.CreateTask(context.Background(), &domain.User{ID: uuid.New()}, TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, repo.tasks)
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	svc, repo := setupTaskService(t)
	ctx := context.Background()
	alice := &domain.User{ID: uuid.New(), Email: "a@x.com"}
	bob := &domain.User{ID: uuid.New(), Email: "b@x.com"}

	task, err := svc.CreateTask(ctx, alice, TaskInput{Title: "buy milk", Description: strPtr("2%")})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, bob, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.UpdateTask(ctx, bob, task.ID, domain.TaskUpdate{Status: boolPtr(true)})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(ctx, bob, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.Zero(t, repo.updates)
	assert.Zero(t, repo.deletes)

	_, missingErr := svc.GetTask(ctx, bob, uuid.New())
	assert.Equal(t, missingErr, ErrTaskNotFound, "foreign and missing tasks are indistinguishable")

	got, err := svc.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Status)
}

func TestTaskService_UpdatePartial(t *testing.T) {
	svc, repo := setupTaskService(t)
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}

	task, err := svc.CreateTask(ctx, owner, TaskInput{Title: "buy milk", Description: strPtr("2%")})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, owner, task.ID, domain.TaskUpdate{Status: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Status)
	assert.Equal(t, "buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "2%", *updated.Description)

	unchanged, err := svc.UpdateTask(ctx, owner, task.ID, domain.TaskUpdate{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)
	assert.Equal(t, 1, repo.updates, "empty update must not reach the store")

	_, err = svc.UpdateTask(ctx, owner, task.ID, domain.TaskUpdate{Title: strPtr(" ")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_Delete(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}

	task, err := svc.CreateTask(ctx, owner, TaskInput{Title: "buy milk"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, owner, task.ID))

	_, err = svc.GetTask(ctx, owner, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(ctx, owner, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_StoreFailures(t *testing.T) {
	svc, repo := setupTaskService(t)
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}
	repo.err = errBoom

	_, err := svc.CreateTask(ctx, owner, TaskInput{Title: "x"})
	assert.ErrorIs(t, err, ErrStore)

	_, err = svc.ListTasks(ctx, owner, domain.SortAsc)
	assert.ErrorIs(t, err, ErrStore)

	_, err = svc.GetTask(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrStore)

	err = svc.DeleteTask(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrStore)
}
