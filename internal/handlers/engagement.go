package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

type EngagementHandler struct {
  engagementService services.EngagementService
  log               *logger.Logger
}

func NewEngagementHandler(engagementService services.EngagementService, log *logger.Logger) *EngagementHandler {
  return &EngagementHandler{
    engagementService: engagementService,
    log:               log.With("handler", "EngagementHandler"),
  }
}

type transitionRequest struct {
  To string `json:"to" binding:"required"`
}

// Transition moves the caller's engagement with a trainer to a new stage.
func (h *EngagementHandler) Transition(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  trainerID, err := uuid.Parse(c.Param("trainerID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer id"})
    return
  }
  var req transitionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  to, err := engagement.Parse(req.To)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  eng, err := h.engagementService.Transition(c.Request.Context(), rd.UserID, trainerID, to)
  if err != nil {
    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"engagement": eng})
}

// JourneyBoard returns the caller's funnel grouped by journey stage.
func (h *EngagementHandler) JourneyBoard(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  columns, err := h.engagementService.JourneyBoard(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build journey board"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"journey": columns})
}

func (h *EngagementHandler) Get(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  trainerID, err := uuid.Parse(c.Param("trainerID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer id"})
    return
  }
  eng, err := h.engagementService.Get(c.Request.Context(), rd.UserID, trainerID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load engagement"})
    return
  }
  if eng == nil {
    c.JSON(http.StatusOK, gin.H{"engagement": nil, "stage": string(engagement.StageBrowsing)})
    return
  }
  c.JSON(http.StatusOK, gin.H{"engagement": eng, "stage": eng.Stage})
}
