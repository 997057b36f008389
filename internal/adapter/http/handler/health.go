package handler

import (
	"net/http"
	"time"

	. "serenity/internal/adapter/http/helper"
	"serenity/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(started time.Time) *HealthHandler {
	return &HealthHandler{started: started, now: time.Now}
}

func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()

	SendSuccess(c, http.StatusOK, response.HealthResponse{
		Status:    "OK",
		Timestamp: now,
		Uptime:    now.Sub(h.started).Seconds(),
	})
}
