package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type AuthHandler struct {
  authService services.AuthService
  log         *logger.Logger
}

func NewAuthHandler(authService services.AuthService, log *logger.Logger) *AuthHandler {
  return &AuthHandler{
    authService: authService,
    log:         log.With("handler", "AuthHandler"),
  }
}

type registerRequest struct {
  Email     string `json:"email" binding:"required"`
  Password  string `json:"password" binding:"required"`
  Role      string `json:"role" binding:"required"`
  FirstName string `json:"first_name" binding:"required"`
  LastName  string `json:"last_name" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
  var req registerRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  user := &types.User{
    Email:     req.Email,
    Password:  req.Password,
    Role:      types.Role(req.Role),
    FirstName: req.FirstName,
    LastName:  req.LastName,
  }
  if err := h.authService.RegisterUser(c.Request.Context(), user); err != nil {
    h.log.Debug("Registration rejected", "error", err)
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
  Email    string `json:"email" binding:"required"`
  Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
  var req loginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  accessToken, refreshToken, err := h.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "access_token":  accessToken,
    "refresh_token": refreshToken,
    "expires_in":    int(h.authService.GetAccessTTL().Seconds()),
  })
}

func (h *AuthHandler) Refresh(c *gin.Context) {
  accessToken, refreshToken, err := h.authService.RefreshUser(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to refresh session"})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "access_token":  accessToken,
    "refresh_token": refreshToken,
    "expires_in":    int(h.authService.GetAccessTTL().Seconds()),
  })
}

func (h *AuthHandler) Logout(c *gin.Context) {
  if err := h.authService.LogoutUser(c.Request.Context()); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}
