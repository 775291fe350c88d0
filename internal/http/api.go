package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/service"
	"task-tracker/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users          service.UserService
	tasks          service.TaskService
	exports        service.ExportService
	log            logrus.FieldLogger
	allowedOrigins []string
}

func NewHandler(users service.UserService, tasks service.TaskService, exports service.ExportService, log logrus.FieldLogger, allowedOrigins []string) *Handler {
	return &Handler{
		users:          users,
		tasks:          tasks,
		exports:        exports,
		log:            log.WithField("component", "http"),
		allowedOrigins: allowedOrigins,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.log), corsMiddleware(h.allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.POST("/register", h.register)
	router.POST("/token", h.login)

	authed := router.Group("/", h.requireUser())
	{
		authed.GET("/users/me", h.me)

		authed.POST("/tasks", h.createTask)
		authed.GET("/tasks", h.listTasks)
		authed.GET("/tasks/:id", h.getTask)
		authed.PUT("/tasks/:id", h.updateTask)
		authed.DELETE("/tasks/:id", h.deleteTask)

		authed.POST("/exports", h.createExport)
		authed.GET("/exports", h.listExports)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				header := c.Writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
				header.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// writeError maps service errors onto status codes. Storage details never reach the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		unauthorized(c)
	case errors.Is(err, service.ErrTaskNotFound):
		taskNotFound(c)
	case errors.Is(err, service.ErrExportsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func taskNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
