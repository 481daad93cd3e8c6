package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

type NotificationHandler struct {
  notificationService services.NotificationService
  log                 *logger.Logger
}

func NewNotificationHandler(notificationService services.NotificationService, log *logger.Logger) *NotificationHandler {
  return &NotificationHandler{
    notificationService: notificationService,
    log:                 log.With("handler", "NotificationHandler"),
  }
}

func (h *NotificationHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
  notifications, err := h.notificationService.ListForUser(c.Request.Context(), rd.UserID, limit)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

type markReadRequest struct {
  IDs []string `json:"ids" binding:"required"`
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req markReadRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  ids := make([]uuid.UUID, 0, len(req.IDs))
  for _, raw := range req.IDs {
    id, pErr := uuid.Parse(raw)
    if pErr != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
      return
    }
    ids = append(ids, id)
  }
  if err := h.notificationService.MarkRead(c.Request.Context(), rd.UserID, ids); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}
