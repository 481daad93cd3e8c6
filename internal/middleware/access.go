package middleware

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

// RequirePlatformAccess blocks limited and lapsed members from gated
// surfaces. The underlying check fails open on infrastructure errors; only a
// definite limited/lapsed status lands here.
func RequirePlatformAccess(membershipService services.MembershipService) gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
      return
    }
    if !membershipService.HasPlatformAccess(c.Request.Context(), rd.UserID) {
      c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Membership is not active"})
      return
    }
    c.Next()
  }
}
