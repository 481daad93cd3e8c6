package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/clients/payments"
  "github.com/Not-Another-Coach/nac-backend/internal/db"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

const graceReminderWorkers = 8

// SweepReport summarizes one ops sweep (payment retries, reminders, waitlist
// expiry).
type SweepReport struct {
  Processed int `json:"processed"`
  Succeeded int `json:"succeeded"`
  Failed    int `json:"failed"`
}

type MembershipService interface {
  GetForUser(ctx context.Context, userID uuid.UUID) (*types.Membership, error)
  // HasPlatformAccess reports whether the user may use gated surfaces. It
  // fails open: an infrastructure error grants access and logs loudly,
  // because locking paying users out over a flaky read is the worse failure.
  HasPlatformAccess(ctx context.Context, userID uuid.UUID) bool
  // Reactivate fails closed: the plan comes back only on provider-confirmed
  // success.
  Reactivate(ctx context.Context, userID uuid.UUID) (*types.Membership, error)
  RetryFailedPayments(ctx context.Context) (SweepReport, error)
  SendGraceReminders(ctx context.Context) (SweepReport, error)
  ExpireWaitlists(ctx context.Context) (int64, error)
}

type membershipService struct {
  dbConn          *gorm.DB
  log             *logger.Logger
  membershipRepo  repos.MembershipRepo
  notificationSvc NotificationService
  paymentsClient  payments.Client
  maintenance     *db.Maintenance
}

func NewMembershipService(
  dbConn *gorm.DB,
  log *logger.Logger,
  membershipRepo repos.MembershipRepo,
  notificationSvc NotificationService,
  paymentsClient payments.Client,
  maintenance *db.Maintenance,
) MembershipService {
  return &membershipService{
    dbConn:          dbConn,
    log:             log.With("service", "MembershipService"),
    membershipRepo:  membershipRepo,
    notificationSvc: notificationSvc,
    paymentsClient:  paymentsClient,
    maintenance:     maintenance,
  }
}

func (ms *membershipService) GetForUser(ctx context.Context, userID uuid.UUID) (*types.Membership, error) {
  membership, err := ms.membershipRepo.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load membership: %w", err)
  }
  if membership == nil {
    return nil, fmt.Errorf("membership not found")
  }
  return membership, nil
}

func (ms *membershipService) HasPlatformAccess(ctx context.Context, userID uuid.UUID) bool {
  membership, err := ms.membershipRepo.GetByUserID(ctx, nil, userID)
  if err != nil {
    ms.log.Error("Membership check failed, granting access fail-open", "userID", userID, "error", err)
    return true
  }
  if membership == nil {
    // Accounts predating the membership table keep working.
    return true
  }
  switch membership.Status {
  case types.MembershipActive, types.MembershipGracePeriod:
    return true
  }
  return false
}

func (ms *membershipService) Reactivate(ctx context.Context, userID uuid.UUID) (*types.Membership, error) {
  membership, err := ms.GetForUser(ctx, userID)
  if err != nil {
    return nil, err
  }
  if membership.Status == types.MembershipActive {
    return membership, nil
  }
  if ms.paymentsClient == nil {
    return nil, fmt.Errorf("payment provider unavailable")
  }
  if membership.ProviderCustomer == "" || membership.PlanID == "" {
    return nil, fmt.Errorf("membership has no payment plan on file")
  }
  result, err := ms.paymentsClient.ReactivatePlan(ctx, membership.ProviderCustomer, membership.PlanID)
  if err != nil {
    return nil, fmt.Errorf("Failed to reactivate plan with provider: %w", err)
  }
  if result.Status != "active" {
    return nil, fmt.Errorf("provider reported plan status %q", result.Status)
  }

  membership.Status = types.MembershipActive
  membership.GraceUntil = nil
  membership.RemindedAt = nil
  membership.LastPaymentError = ""
  if err := ms.membershipRepo.Update(ctx, nil, membership); err != nil {
    return nil, fmt.Errorf("Failed to persist reactivated membership: %w", err)
  }
  ms.log.Info("Membership reactivated", "userID", userID, "planID", membership.PlanID)
  return membership, nil
}

// RetryFailedPayments sweeps every grace-period membership and retries the
// outstanding charge. One bad customer never aborts the sweep.
func (ms *membershipService) RetryFailedPayments(ctx context.Context) (SweepReport, error) {
  var report SweepReport
  if ms.paymentsClient == nil {
    return report, fmt.Errorf("payment provider unavailable")
  }
  memberships, err := ms.membershipRepo.ListByStatus(ctx, nil, types.MembershipGracePeriod)
  if err != nil {
    return report, fmt.Errorf("Failed to list grace-period memberships: %w", err)
  }
  for _, membership := range memberships {
    if membership.ProviderCustomer == "" {
      continue
    }
    report.Processed++
    result, rErr := ms.paymentsClient.RetryCharge(ctx, membership.ProviderCustomer)
    if rErr != nil || result.Status != "succeeded" {
      report.Failed++
      if rErr != nil {
        membership.LastPaymentError = rErr.Error()
      } else {
        membership.LastPaymentError = fmt.Sprintf("charge status %s", result.Status)
      }
      if uErr := ms.membershipRepo.Update(ctx, nil, membership); uErr != nil {
        ms.log.Warn("Failed to record payment retry failure", "userID", membership.UserID, "error", uErr)
      }
      continue
    }
    membership.Status = types.MembershipActive
    membership.GraceUntil = nil
    membership.RemindedAt = nil
    membership.LastPaymentError = ""
    if uErr := ms.membershipRepo.Update(ctx, nil, membership); uErr != nil {
      report.Failed++
      ms.log.Error("Charge succeeded but membership update failed", "userID", membership.UserID, "error", uErr)
      continue
    }
    report.Succeeded++
  }
  ms.log.Info("Payment retry sweep finished", "processed", report.Processed, "succeeded", report.Succeeded, "failed", report.Failed)
  return report, nil
}

// SendGraceReminders notifies members inside their grace window who have not
// been reminded yet. Fan-out is bounded so a big backlog cannot stampede the
// database.
func (ms *membershipService) SendGraceReminders(ctx context.Context) (SweepReport, error) {
  var report SweepReport
  memberships, err := ms.membershipRepo.ListInGraceNotReminded(ctx, nil, time.Now())
  if err != nil {
    return report, fmt.Errorf("Failed to list memberships needing reminders: %w", err)
  }
  report.Processed = len(memberships)

  g, gctx := errgroup.WithContext(ctx)
  g.SetLimit(graceReminderWorkers)
  results := make([]error, len(memberships))
  for i, membership := range memberships {
    g.Go(func() error {
      results[i] = ms.remindOne(gctx, membership)
      return nil
    })
  }
  _ = g.Wait()

  for _, rErr := range results {
    if rErr != nil {
      report.Failed++
    } else {
      report.Succeeded++
    }
  }
  ms.log.Info("Grace reminder sweep finished", "processed", report.Processed, "succeeded", report.Succeeded, "failed", report.Failed)
  return report, nil
}

func (ms *membershipService) remindOne(ctx context.Context, membership *types.Membership) error {
  err := ms.dbConn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if nErr := ms.notificationSvc.Notify(ctx, tx, membership.UserID, types.NotificationGraceReminder, map[string]any{
      "grace_until": membership.GraceUntil,
    }); nErr != nil {
      return nErr
    }
    now := time.Now()
    membership.RemindedAt = &now
    return ms.membershipRepo.Update(ctx, tx, membership)
  })
  if err != nil {
    ms.log.Warn("Failed to send grace reminder", "userID", membership.UserID, "error", err)
  }
  return err
}

// ExpireWaitlists releases lapsed waitlist holds and tells the affected
// clients. The pairs are read before the bulk update, which clears the rows
// the query matches.
func (ms *membershipService) ExpireWaitlists(ctx context.Context) (int64, error) {
  if ms.maintenance == nil {
    return 0, fmt.Errorf("maintenance pool unavailable")
  }
  now := time.Now()
  pairs, err := ms.maintenance.ListExpiredWaitlistClients(ctx, now)
  if err != nil {
    return 0, err
  }
  moved, err := ms.maintenance.ExpireWaitlistExclusivity(ctx, now)
  if err != nil {
    return 0, err
  }
  for _, pair := range pairs {
    clientID, pErr := uuid.Parse(pair[0])
    if pErr != nil {
      continue
    }
    if nErr := ms.notificationSvc.Notify(ctx, nil, clientID, types.NotificationWaitlistExpired, map[string]any{
      "trainer_id": pair[1],
    }); nErr != nil {
      ms.log.Warn("Failed to notify client of waitlist expiry", "clientID", clientID, "error", nErr)
    }
  }
  if moved > 0 {
    ms.log.Info("Expired waitlist holds", "count", moved)
  }
  return moved, nil
}
