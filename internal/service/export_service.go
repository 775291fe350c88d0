package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/domain"
	"task-tracker/internal/storage"
)

// ExportConfig locates task exports in object storage.
type ExportConfig struct {
	Bucket    string
	KeyPrefix string
	URLTTL    time.Duration
}

// TaskExport describes one uploaded snapshot of a user's tasks.
type TaskExport struct {
	Key       string
	Location  string
	URL       string
	TaskCount int
	CreatedAt time.Time
}

// ExportService writes per-user task snapshots to object storage.
// Every key lives under the owner's own prefix.
type ExportService interface {
	ExportTasks(ctx context.Context, owner *domain.User) (*TaskExport, error)
	ListExports(ctx context.Context, owner *domain.User) ([]storage.ObjectInfo, error)
}

type exportService struct {
	tasks   TaskService
	storage storage.Service
	cfg     ExportConfig
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewExportService returns a service that fails with ErrExportsDisabled when
// store is nil or no bucket is configured.
func NewExportService(tasks TaskService, store storage.Service, cfg ExportConfig, log logrus.FieldLogger) ExportService {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &exportService{
		tasks:   tasks,
		storage: store,
		cfg:     cfg,
		log:     log.WithField("component", "export_service"),
		now:     time.Now,
	}
}

type exportDocument struct {
	UserID     uuid.UUID      `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Tasks      []exportedTask `json:"tasks"`
}

type exportedTask struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *exportService) enabled() bool {
	return s.storage != nil && s.cfg.Bucket != ""
}

func (s *exportService) ownerPrefix(owner *domain.User) string {
	return path.Join(s.cfg.KeyPrefix, owner.ID.String()) + "/"
}

func (s *exportService) ExportTasks(ctx context.Context, owner *domain.User) (*TaskExport, error) {
	if !s.enabled() {
		return nil, ErrExportsDisabled
	}

	tasks, err := s.tasks.ListTasks(ctx, owner, domain.SortAsc)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := exportDocument{
		UserID:     owner.ID,
		ExportedAt: now,
		Tasks:      make([]exportedTask, len(tasks)),
	}
	for i, task := range tasks {
		doc.Tasks[i] = exportedTask{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			CreatedAt:   task.CreatedAt,
		}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	key := s.ownerPrefix(owner) + now.Format("20060102T150405.000000000Z") + ".json"
	location, err := s.storage.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, storeFailure(s.log, "upload export", err)
	}

	url, err := s.storage.GetObjectURL(ctx, s.cfg.Bucket, key, s.cfg.URLTTL)
	if err != nil {
		return nil, storeFailure(s.log, "presign export", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": owner.ID, "key": key, "tasks": len(tasks)}).Info("tasks exported")

	return &TaskExport{
		Key:       key,
		Location:  location,
		URL:       url,
		TaskCount: len(tasks),
		CreatedAt: now,
	}, nil
}

func (s *exportService) ListExports(ctx context.Context, owner *domain.User) ([]storage.ObjectInfo, error) {
	if !s.enabled() {
		return nil, ErrExportsDisabled
	}

	objects, err := s.storage.ListObjects(ctx, s.cfg.Bucket, s.ownerPrefix(owner))
	if err != nil {
		return nil, storeFailure(s.log, "list exports", err)
	}
	return objects, nil
}
