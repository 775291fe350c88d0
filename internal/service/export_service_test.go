package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
)

func TestExportService_ExportTasks(t *testing.T) {
	tasks, _ := setupTaskService(t)
	store := newFakeStorage()
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New()}
	other := &domain.User{ID: uuid.New()}

	_, err := tasks.CreateTask(ctx, owner, TaskInput{Title: "buy milk", Description: strPtr("2%")})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, other, TaskInput{Title: "not mine"})
	require.NoError(t, err)

	svc := NewExportService(tasks, store, ExportConfig{Bucket: "b", KeyPrefix: "/exports/", URLTTL: time.Minute}, testLogger()).(*exportService)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC) }

	export, err := svc.ExportTasks(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "exports/"+owner.ID.String()+"/20261016T083000.000000000Z.json", export.Key)
	assert.Equal(t, "s3://b/"+export.Key, export.Location)
	assert.Contains(t, export.URL, export.Key)
	assert.Equal(t, 1, export.TaskCount)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(store.objects[export.Key], &doc))
	assert.Equal(t, owner.ID, doc.UserID)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "buy milk", doc.Tasks[0].Title)

	listed, err := svc.ListExports(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	foreign, err := svc.ListExports(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, foreign)
	for key := range store.objects {
		assert.True(t, strings.HasPrefix(key, "exports/"+owner.ID.String()+"/"))
	}
}

func TestExportService_Disabled(t *testing.T) {
	tasks, _ := setupTaskService(t)
	owner := &domain.User{ID: uuid.New()}

	tests := []struct {
		name string
		svc  ExportService
	}{
		{name: "no storage", svc: NewExportService(tasks, nil, ExportConfig{Bucket: "b"}, testLogger())},
		{name: "no bucket", svc: NewExportService(tasks, newFakeStorage(), ExportConfig{}, testLogger())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ExportTasks(context.Background(), owner)
			assert.ErrorIs(t, err, ErrExportsDisabled)
			_, err = tt.svc.ListExports(context.Background(), owner)
			assert.ErrorIs(t, err, ErrExportsDisabled)
		})
	}
}

func TestExportService_UploadFailure(t *testing.T) {
	tasks, _ := setupTaskService(t)
	store := newFakeStorage()
	store.putErr = errBoom
	svc := NewExportService(tasks, store, ExportConfig{Bucket: "b"}, testLogger())

	_, err := svc.ExportTasks(context.Background(), &domain.User{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrStore)
}
