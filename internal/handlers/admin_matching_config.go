package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/matching"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

// MatchingConfigHandler is the admin surface over the scoring config
// lifecycle. Routes behind it require the admin role.
type MatchingConfigHandler struct {
  configService services.MatchingConfigService
  log           *logger.Logger
}

func NewMatchingConfigHandler(configService services.MatchingConfigService, log *logger.Logger) *MatchingConfigHandler {
  return &MatchingConfigHandler{
    configService: configService,
    log:           log.With("handler", "MatchingConfigHandler"),
  }
}

func (h *MatchingConfigHandler) List(c *gin.Context) {
  versions, err := h.configService.List(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list config versions"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"versions": versions})
}

func (h *MatchingConfigHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("versionID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version id"})
    return
  }
  version, err := h.configService.Get(c.Request.Context(), id)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load config version"})
    return
  }
  if version == nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "Config version not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"version": version})
}

type configDraftRequest struct {
  Config matching.Config `json:"config" binding:"required"`
  Notes  string          `json:"notes"`
}

func (h *MatchingConfigHandler) CreateDraft(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req configDraftRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  version, err := h.configService.CreateDraft(c.Request.Context(), rd.UserID, req.Config, req.Notes)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"version": version})
}

func (h *MatchingConfigHandler) UpdateDraft(c *gin.Context) {
  id, err := uuid.Parse(c.Param("versionID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version id"})
    return
  }
  var req configDraftRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  version, err := h.configService.UpdateDraft(c.Request.Context(), id, req.Config, req.Notes)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"version": version})
}

func (h *MatchingConfigHandler) Publish(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  id, err := uuid.Parse(c.Param("versionID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version id"})
    return
  }
  version, err := h.configService.Publish(c.Request.Context(), id, rd.UserID)
  if err != nil {
    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"version": version})
}

func (h *MatchingConfigHandler) Discard(c *gin.Context) {
  id, err := uuid.Parse(c.Param("versionID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version id"})
    return
  }
  if err := h.configService.DiscardDraft(c.Request.Context(), id); err != nil {
    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}
