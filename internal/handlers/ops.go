package handlers

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/db"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
)

// OpsHandler exposes the scheduled maintenance jobs as endpoints for an
// external scheduler. All routes behind it require the shared ops secret.
type OpsHandler struct {
  membershipService services.MembershipService
  visibilityService services.VisibilityService
  maintenance       *db.Maintenance
  log               *logger.Logger
}

func NewOpsHandler(
  membershipService services.MembershipService,
  visibilityService services.VisibilityService,
  maintenance *db.Maintenance,
  log *logger.Logger,
) *OpsHandler {
  return &OpsHandler{
    membershipService: membershipService,
    visibilityService: visibilityService,
    maintenance:       maintenance,
    log:               log.With("handler", "OpsHandler"),
  }
}

func (h *OpsHandler) RetryPayments(c *gin.Context) {
  report, err := h.membershipService.RetryFailedPayments(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *OpsHandler) SendGraceReminders(c *gin.Context) {
  report, err := h.membershipService.SendGraceReminders(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *OpsHandler) ExpireWaitlists(c *gin.Context) {
  moved, err := h.membershipService.ExpireWaitlists(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"expired": moved})
}

// SelfTest verifies the dependencies a sweep needs before the scheduler
// trusts this instance.
func (h *OpsHandler) SelfTest(c *gin.Context) {
  checks := gin.H{}
  healthy := true

  if h.maintenance != nil {
    if err := h.maintenance.Ping(c.Request.Context()); err != nil {
      checks["postgres"] = err.Error()
      healthy = false
    } else {
      checks["postgres"] = "ok"
    }
  } else {
    checks["postgres"] = "not configured"
    healthy = false
  }

  if err := h.visibilityService.RefreshCache(c.Request.Context()); err != nil {
    checks["visibility_cache"] = err.Error()
    healthy = false
  } else {
    checks["visibility_cache"] = "ok"
  }

  status := http.StatusOK
  if !healthy {
    status = http.StatusServiceUnavailable
  }
  c.JSON(status, gin.H{"healthy": healthy, "checks": checks, "checked_at": time.Now().UTC()})
}
