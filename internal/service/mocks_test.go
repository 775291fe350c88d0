package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
	"task-tracker/internal/storage"
)

var errBoom = errors.New("disk on fire")

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// mockUserRepository is an in-memory UserRepository.
type mockUserRepository struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*domain.User
	createErr error
	getErr    error
	creates   int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{byID: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepository) delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// mockTaskRepository is an in-memory TaskRepository.
type mockTaskRepository struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]domain.Task
	err     error
	updates int
	deletes int
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[uuid.UUID]domain.Task)}
}

func (m *mockTaskRepository) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskRepository) Get(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	task, ok := m.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return &task, nil
}

func (m *mockTaskRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, order domain.SortOrder) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Task{}
	for _, task := range m.tasks {
		if task.OwnerID == ownerID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == domain.SortDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockTaskRepository) Update(_ context.Context, id uuid.UUID, upd domain.TaskUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.err != nil {
		return m.err
	}
	task, ok := m.tasks[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	m.tasks[id] = upd.Apply(task)
	return nil
}

func (m *mockTaskRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// fakeStorage keeps uploaded objects in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) PutObject(_ context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[opts.Key] = buf.Bytes()
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []storage.ObjectInfo{}
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeStorage) GetObjectURL(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
	return "https://" + bucket + ".example/" + key + "?expires=" + expires.String(), nil
}
