package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gameinsight/internal/http-api/dto"
	"gameinsight/internal/http-api/middleware"
	"gameinsight/internal/http-api/service"
)

const windowDateLayout = "2006-01-02"

type IngestionHandler struct {
	svc service.IngestionService
}

func NewIngestionHandler(svc service.IngestionService) *IngestionHandler {
	return &IngestionHandler{svc: svc}
}

func (h *IngestionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/runs", h.ListRuns)
	rg.GET("/runs/:run_id", h.GetRun)
	rg.POST("/runs", middleware.RequireAdmin(), h.Trigger)
}

// Trigger handles POST /api/ingestion/runs: enqueue a pending run for the
// background sync service to claim.
func (h *IngestionHandler) Trigger(c *gin.Context) {
	var in dto.TriggerRunRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(windowDateLayout, in.WindowStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(windowDateLayout, in.WindowEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_end must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	run, err := h.svc.Trigger(ctx, strings.TrimSpace(in.Label), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, dto.FromRunToResponse(*run))
}

func (h *IngestionHandler) ListRuns(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	runs, total, err := h.svc.ListRuns(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		resp = append(resp, dto.FromRunToResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func (h *IngestionHandler) GetRun(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("run_id"))
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	run, err := h.svc.GetRun(ctx, runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromRunToResponse(*run))
}
