package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

type UserHandler struct {
  userService services.UserService
  log         *logger.Logger
}

func NewUserHandler(userService services.UserService, log *logger.Logger) *UserHandler {
  return &UserHandler{
    userService: userService,
    log:         log.With("handler", "UserHandler"),
  }
}

func (h *UserHandler) GetMe(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  user, err := h.userService.GetByID(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateMeRequest struct {
  FirstName string `json:"first_name" binding:"required"`
  LastName  string `json:"last_name" binding:"required"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req updateMeRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  user, err := h.userService.UpdateName(c.Request.Context(), rd.UserID, req.FirstName, req.LastName)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) GetClientProfile(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  profile, err := h.userService.GetClientProfile(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "Client profile not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *UserHandler) UpsertClientProfile(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  var req services.ClientProfileInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  profile, err := h.userService.UpsertClientProfile(c.Request.Context(), rd.UserID, req)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}
