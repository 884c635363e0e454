package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gameinsight/internal/http-api/dto"
	"gameinsight/internal/http-api/service"
)

// LookupHandler serves the shared catalog dimensions: genres, platforms,
// stores, and tags.
type LookupHandler struct {
	svc service.LookupService
}

func NewLookupHandler(svc service.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

func (h *LookupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genres", h.ListGenres)
	rg.GET("/platforms", h.ListPlatforms)
	rg.GET("/stores", h.ListStores)
	rg.GET("/tags", h.ListTags)
}

func (h *LookupHandler) ListGenres(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListGenres(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.LookupResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.LookupResponse{ID: g.ID, Slug: g.Slug, Name: g.Name})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

func (h *LookupHandler) ListPlatforms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListPlatforms(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.LookupResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, dto.LookupResponse{ID: p.ID, Slug: p.Slug, Name: p.Name})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

func (h *LookupHandler) ListStores(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListStores(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.LookupResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, dto.LookupResponse{ID: s.ID, Slug: s.Slug, Name: s.Name})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

func (h *LookupHandler) ListTags(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListTags(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.LookupResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, dto.LookupResponse{ID: t.ID, Slug: t.Slug, Name: t.Name})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}
