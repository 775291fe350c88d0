package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ExportResponse struct {
	Key       string `json:"key"`
	Location  string `json:"location"`
	URL       string `json:"url"`
	TaskCount int    `json:"task_count"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) createExport(c *gin.Context) {
	export, err := h.exports.ExportTasks(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ExportResponse{
		Key:       export.Key,
		Location:  export.Location,
		URL:       export.URL,
		TaskCount: export.TaskCount,
		CreatedAt: export.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) listExports(c *gin.Context) {
	objects, err := h.exports.ListExports(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, 0, len(objects))
	for _, obj := range objects {
		resp = append(resp, objectToResponse(obj))
	}
	c.JSON(http.StatusOK, resp)
}
