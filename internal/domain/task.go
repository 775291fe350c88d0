package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a personal to-do record owned by exactly one user.
type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description *string
	Status      bool
	CreatedAt   time.Time
}

// TaskUpdate carries the fields of a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *bool
}

// IsEmpty reports whether the update sets no field at all.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil
}

// Apply returns a copy of task with the supplied fields replaced.
func (u TaskUpdate) Apply(task Task) Task {
	if u.Title != nil {
		task.Title = *u.Title
	}
	if u.Description != nil {
		d := *u.Description
		task.Description = &d
	}
	if u.Status != nil {
		task.Status = *u.Status
	}
	return task
}

// SortOrder is the created_at ordering used when listing tasks.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder accepts "asc"/"desc" in any case. An empty value means ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q", s)
	}
}
