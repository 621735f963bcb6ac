package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ragapi/internal/app"
	"ragapi/internal/transport/http/response"
)

type PredictHandler struct {
	queryService *app.QueryService
}

type PredictRequest struct {
	Query       string `json:"query" binding:"required"`
	SessionID   string `json:"session_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	CachingFlag *bool  `json:"caching_flag"`
}

func NewPredictHandler(queryService *app.QueryService) *PredictHandler {
	return &PredictHandler{queryService: queryService}
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	caching := true
	if req.CachingFlag != nil {
		caching = *req.CachingFlag
	}

	result, err := h.queryService.Predict(c.Request.Context(), app.PredictInput{
		Query:     req.Query,
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Caching:   caching,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		// Stage detail stays in the log; the client gets a generic error.
		log.Printf("predict failed | session=%s user=%s: %v", req.SessionID, req.UserID, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "prediction failed")
		return
	}
	c.JSON(http.StatusOK, result)
}
