package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

type MembershipHandler struct {
  membershipService services.MembershipService
  log               *logger.Logger
}

func NewMembershipHandler(membershipService services.MembershipService, log *logger.Logger) *MembershipHandler {
  return &MembershipHandler{
    membershipService: membershipService,
    log:               log.With("handler", "MembershipHandler"),
  }
}

func (h *MembershipHandler) GetMine(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  membership, err := h.membershipService.GetForUser(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"membership": membership})
}

// Reactivate brings a limited or lapsed plan back. Succeeds only on
// provider-confirmed payment.
func (h *MembershipHandler) Reactivate(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }
  membership, err := h.membershipService.Reactivate(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Warn("Reactivation failed", "userID", rd.UserID, "error", err)
    c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"membership": membership})
}
