package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

type PresenceHandler struct {
  presenceService services.PresenceService
  log             *logger.Logger
}

func NewPresenceHandler(presenceService services.PresenceService, log *logger.Logger) *PresenceHandler {
  return &PresenceHandler{
    presenceService: presenceService,
    log:             log.With("handler", "PresenceHandler"),
  }
}

// Join is idempotent; resending after a reconnect is safe.
func (h *PresenceHandler) Join(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  if err := h.presenceService.Join(c.Request.Context(), rd.UserID); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join presence"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PresenceHandler) Leave(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  if err := h.presenceService.Leave(c.Request.Context(), rd.UserID); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave presence"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PresenceHandler) Heartbeat(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  if err := h.presenceService.Heartbeat(c.Request.Context(), rd.UserID); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record heartbeat"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PresenceHandler) Online(c *gin.Context) {
  ids, err := h.presenceService.OnlineUserIDs(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list online users"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"online": ids})
}
