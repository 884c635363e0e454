package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gameinsight/internal/http-api/dto"
	"gameinsight/internal/http-api/repository"
	"gameinsight/internal/http-api/service"
)

type GameHandler struct {
	svc service.GameService
}

func NewGameHandler(svc service.GameService) *GameHandler {
	return &GameHandler{svc: svc}
}

func (h *GameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:slug", h.Get)
}

// List handles GET /api/games with optional search and filter parameters.
func (h *GameHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var filter repository.GameFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.GenreSlug = strings.TrimSpace(c.Query("genre"))
	filter.PlatformSlug = strings.TrimSpace(c.Query("platform"))

	if yearStr := strings.TrimSpace(c.Query("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1950 || year > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year parameter"})
			return
		}
		filter.Year = year
	}

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

	list, total, err := h.svc.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.GameBasicResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.FromGameToBasicResponse(g))
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

func (h *GameHandler) Get(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	game, err := h.svc.GetBySlug(ctx, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromGameToResponse(*game))
}
