package middleware

import (
  "crypto/subtle"
  "net/http"
  "os"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

// RequireAuth validates the bearer token and loads request data into the
// request context for downstream handlers.
func RequireAuth(authService services.AuthService, log *logger.Logger) gin.HandlerFunc {
  mwLog := log.With("middleware", "RequireAuth")
  return func(c *gin.Context) {
    header := c.GetHeader("Authorization")
    if header == "" || !strings.HasPrefix(header, "Bearer ") {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
      return
    }
    tokenString := strings.TrimPrefix(header, "Bearer ")

    ctx, err := authService.SetContextFromToken(c.Request.Context(), tokenString)
    if err != nil {
      mwLog.Debug("Token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
      return
    }
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

// RequireRole gates a route group to the given roles. Must run after
// RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
  allowed := make(map[string]bool, len(roles))
  for _, role := range roles {
    allowed[role] = true
  }
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
      return
    }
    if !allowed[rd.Role] {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
      return
    }
    c.Next()
  }
}

// RequireOpsSecret gates the ops endpoints behind a shared secret so the
// scheduler can call them without a user account. With no secret configured
// the endpoints are disabled outright.
func RequireOpsSecret(log *logger.Logger) gin.HandlerFunc {
  mwLog := log.With("middleware", "RequireOpsSecret")
  secret := strings.TrimSpace(os.Getenv("OPS_SHARED_SECRET"))
  if secret == "" {
    mwLog.Warn("OPS_SHARED_SECRET not set; ops endpoints disabled")
  }
  return func(c *gin.Context) {
    if secret == "" {
      c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Ops endpoints are not configured"})
      return
    }
    given := c.GetHeader("X-Ops-Secret")
    if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid ops secret"})
      return
    }
    c.Next()
  }
}
