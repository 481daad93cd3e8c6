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

type ConversationHandler struct {
  conversationService services.ConversationService
  log                 *logger.Logger
}

func NewConversationHandler(conversationService services.ConversationService, log *logger.Logger) *ConversationHandler {
  return &ConversationHandler{
    conversationService: conversationService,
    log:                 log.With("handler", "ConversationHandler"),
  }
}

type startConversationRequest struct {
  TrainerID string `json:"trainer_id" binding:"required"`
}

func (h *ConversationHandler) Start(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req startConversationRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  trainerID, err := uuid.Parse(req.TrainerID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer id"})
    return
  }
  conversation, err := h.conversationService.StartOrGet(c.Request.Context(), rd.UserID, trainerID)
  if err != nil {
    c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"conversation": conversation})
}

func (h *ConversationHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  conversations, err := h.conversationService.ListForUser(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *ConversationHandler) ListMessages(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  conversationID, err := uuid.Parse(c.Param("conversationID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
    return
  }
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
  messages, err := h.conversationService.ListMessages(c.Request.Context(), conversationID, rd.UserID, limit)
  if err != nil {
    c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type sendMessageRequest struct {
  Body string `json:"body" binding:"required"`
}

func (h *ConversationHandler) SendMessage(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  conversationID, err := uuid.Parse(c.Param("conversationID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
    return
  }
  var req sendMessageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  message, err := h.conversationService.SendMessage(c.Request.Context(), conversationID, rd.UserID, req.Body)
  if err != nil {
    c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"message": message})
}
