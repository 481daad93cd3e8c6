package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

// VisibilityHandler is the admin surface over the default gating table.
type VisibilityHandler struct {
  visibilityService services.VisibilityService
  log               *logger.Logger
}

func NewVisibilityHandler(visibilityService services.VisibilityService, log *logger.Logger) *VisibilityHandler {
  return &VisibilityHandler{
    visibilityService: visibilityService,
    log:               log.With("handler", "VisibilityHandler"),
  }
}

func (h *VisibilityHandler) ListDefaults(c *gin.Context) {
  rows, err := h.visibilityService.ListDefaults(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list visibility defaults"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"defaults": rows})
}

type updateDefaultsRequest struct {
  Defaults []services.VisibilityDefaultInput `json:"defaults" binding:"required"`
}

func (h *VisibilityHandler) UpdateDefaults(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req updateDefaultsRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  if err := h.visibilityService.UpdateDefaults(c.Request.Context(), rd.UserID, req.Defaults); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}

// RefreshCache forces a refetch instead of waiting for the TTL.
func (h *VisibilityHandler) RefreshCache(c *gin.Context) {
  if err := h.visibilityService.RefreshCache(c.Request.Context()); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh visibility cache"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}
