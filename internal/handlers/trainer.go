package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

type TrainerHandler struct {
  trainerService    services.TrainerService
  engagementService services.EngagementService
  log               *logger.Logger
}

func NewTrainerHandler(trainerService services.TrainerService, engagementService services.EngagementService, log *logger.Logger) *TrainerHandler {
  return &TrainerHandler{
    trainerService:    trainerService,
    engagementService: engagementService,
    log:               log.With("handler", "TrainerHandler"),
  }
}

// Browse returns the shaped trainer cards for the authenticated client.
func (h *TrainerHandler) Browse(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  cards, err := h.trainerService.Browse(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Error("Browse failed", "userID", rd.UserID, "error", err)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trainers"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"trainers": cards})
}

func (h *TrainerHandler) GetTrainer(c *gin.Context) {
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
  card, err := h.trainerService.GetCard(c.Request.Context(), rd.UserID, trainerID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"trainer": card})
}

func (h *TrainerHandler) GetMyProfile(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  profile, err := h.trainerService.GetMyProfile(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "Trainer profile not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *TrainerHandler) UpsertMyProfile(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req services.TrainerProfileInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  profile, err := h.trainerService.UpsertMyProfile(c.Request.Context(), rd.UserID, req)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ListMyEngagements shows a trainer which clients are engaging with them.
func (h *TrainerHandler) ListMyEngagements(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  engagements, err := h.engagementService.ListForTrainer(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list engagements"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"engagements": engagements})
}

type testimonialRequest struct {
  Rating int    `json:"rating" binding:"required"`
  Body   string `json:"body" binding:"required"`
}

func (h *TrainerHandler) CreateTestimonial(c *gin.Context) {
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
  var req testimonialRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  testimonial, err := h.trainerService.CreateTestimonial(c.Request.Context(), rd.UserID, trainerID, req.Rating, req.Body)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"testimonial": testimonial})
}
