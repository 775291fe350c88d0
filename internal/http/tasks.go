package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-tracker/internal/domain"
	"task-tracker/internal/service"
)

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Status      bool    `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Status      *bool   `json:"status"`
}

type TaskResponse struct {
	Num         int     `json:"num,omitempty"`
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      bool    `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		OwnerID:     task.OwnerID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), currentUser(c), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskToResponse(task))
}

func (h *Handler) listTasks(c *gin.Context) {
	order, err := domain.ParseSortOrder(c.Query("sorting"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), currentUser(c), order)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		item := taskToResponse(&tasks[i])
		item.Num = i + 1
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *Handler) updateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	// An empty body is an empty update.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), currentUser(c), id, domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), currentUser(c), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// taskID parses the path id. A malformed id is answered like a missing task.
func taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		taskNotFound(c)
		return uuid.Nil, false
	}
	return id, true
}
