package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ragapi/internal/app"
	"ragapi/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type TrainHandler struct {
	ingestService *app.IngestService
}

func NewTrainHandler(ingestService *app.IngestService) *TrainHandler {
	return &TrainHandler{ingestService: ingestService}
}

// Train accepts a multipart form with "user_id" and "file". Processing
// failures still return 200 with a failed-status body; only malformed
// requests get an error status.
func (h *TrainHandler) Train(c *gin.Context) {
	userID := strings.TrimSpace(c.PostForm("user_id"))
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "user_id is required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}

	readStart := time.Now()
	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	readTime := time.Since(readStart)

	result := h.ingestService.Train(c.Request.Context(), app.TrainInput{
		UserID:       userID,
		Filename:     file.Filename,
		Content:      content,
		ReadDuration: readTime,
	})
	c.JSON(http.StatusOK, result)
}
