package services

import (
  "context"
  "fmt"
  "testing"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/clients/payments"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type fakeMembershipRepo struct {
  byUser map[uuid.UUID]*types.Membership
  getErr error
}

func (f *fakeMembershipRepo) Create(ctx context.Context, tx *gorm.DB, memberships []*types.Membership) ([]*types.Membership, error) {
  for _, m := range memberships {
    f.byUser[m.UserID] = m
  }
  return memberships, nil
}

func (f *fakeMembershipRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Membership, error) {
  if f.getErr != nil {
    return nil, f.getErr
  }
  return f.byUser[userID], nil
}

func (f *fakeMembershipRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status types.MembershipStatus) ([]*types.Membership, error) {
  var out []*types.Membership
  for _, m := range f.byUser {
    if m.Status == status {
      out = append(out, m)
    }
  }
  return out, nil
}

func (f *fakeMembershipRepo) ListInGraceNotReminded(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Membership, error) {
  var out []*types.Membership
  for _, m := range f.byUser {
    if m.Status == types.MembershipGracePeriod && m.GraceUntil != nil && m.GraceUntil.After(now) && m.RemindedAt == nil {
      out = append(out, m)
    }
  }
  return out, nil
}

func (f *fakeMembershipRepo) Update(ctx context.Context, tx *gorm.DB, membership *types.Membership) error {
  f.byUser[membership.UserID] = membership
  return nil
}

type fakePaymentsClient struct {
  chargeStatus string
  chargeErr    error
  planStatus   string
  planErr      error
}

func (f *fakePaymentsClient) RetryCharge(ctx context.Context, customerRef string) (*payments.ChargeResult, error) {
  if f.chargeErr != nil {
    return nil, f.chargeErr
  }
  return &payments.ChargeResult{ChargeID: "ch_1", Status: f.chargeStatus}, nil
}

func (f *fakePaymentsClient) ReactivatePlan(ctx context.Context, customerRef, planID string) (*payments.PlanResult, error) {
  if f.planErr != nil {
    return nil, f.planErr
  }
  return &payments.PlanResult{PlanID: planID, Status: f.planStatus}, nil
}

func TestHasPlatformAccess(t *testing.T) {
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{}}
  svc := NewMembershipService(nil, testLogger(t), repo, nil, nil, nil)
  ctx := context.Background()

  statuses := map[types.MembershipStatus]bool{
    types.MembershipActive:      true,
    types.MembershipGracePeriod: true,
    types.MembershipLimited:     false,
    types.MembershipLapsed:      false,
  }
  for status, want := range statuses {
    userID := uuid.New()
    repo.byUser[userID] = &types.Membership{ID: uuid.New(), UserID: userID, Status: status}
    if got := svc.HasPlatformAccess(ctx, userID); got != want {
      t.Errorf("status %s: access = %v, want %v", status, got, want)
    }
  }

  // No membership row at all keeps working.
  if !svc.HasPlatformAccess(ctx, uuid.New()) {
    t.Error("user without a membership row should keep access")
  }
}

func TestHasPlatformAccessFailsOpenOnRepoError(t *testing.T) {
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{}, getErr: fmt.Errorf("connection refused")}
  svc := NewMembershipService(nil, testLogger(t), repo, nil, nil, nil)

  if !svc.HasPlatformAccess(context.Background(), uuid.New()) {
    t.Fatal("infrastructure error must grant access, not lock users out")
  }
}

func TestReactivateRequiresProviderConfirmation(t *testing.T) {
  userID := uuid.New()
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{
    userID: {
      ID:               uuid.New(),
      UserID:           userID,
      Status:           types.MembershipLapsed,
      PlanID:           "plan_monthly",
      ProviderCustomer: "cus_123",
      LastPaymentError: "card declined",
    },
  }}
  provider := &fakePaymentsClient{planStatus: "pending"}
  svc := NewMembershipService(nil, testLogger(t), repo, nil, provider, nil)
  ctx := context.Background()

  if _, err := svc.Reactivate(ctx, userID); err == nil {
    t.Fatal("non-active provider status must not reactivate")
  }
  if repo.byUser[userID].Status != types.MembershipLapsed {
    t.Fatal("membership changed without provider confirmation")
  }

  provider.planStatus = "active"
  got, err := svc.Reactivate(ctx, userID)
  if err != nil {
    t.Fatalf("Reactivate: %v", err)
  }
  if got.Status != types.MembershipActive {
    t.Fatalf("status = %s, want active", got.Status)
  }
  if got.LastPaymentError != "" || got.GraceUntil != nil || got.RemindedAt != nil {
    t.Error("reactivation should clear grace state and the payment error")
  }
}

func TestReactivateAlreadyActiveShortCircuits(t *testing.T) {
  userID := uuid.New()
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{
    userID: {ID: uuid.New(), UserID: userID, Status: types.MembershipActive},
  }}
  // No payments client wired: already-active must not need one.
  svc := NewMembershipService(nil, testLogger(t), repo, nil, nil, nil)

  got, err := svc.Reactivate(context.Background(), userID)
  if err != nil {
    t.Fatalf("Reactivate: %v", err)
  }
  if got.Status != types.MembershipActive {
    t.Fatalf("status = %s, want active", got.Status)
  }
}

func TestReactivateWithoutPlanOnFile(t *testing.T) {
  userID := uuid.New()
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{
    userID: {ID: uuid.New(), UserID: userID, Status: types.MembershipLapsed},
  }}
  svc := NewMembershipService(nil, testLogger(t), repo, nil, &fakePaymentsClient{planStatus: "active"}, nil)

  if _, err := svc.Reactivate(context.Background(), userID); err == nil {
    t.Fatal("membership without provider references cannot reactivate")
  }
}

func TestRetryFailedPayments(t *testing.T) {
  okUser := uuid.New()
  badUser := uuid.New()
  noRefUser := uuid.New()
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{
    okUser: {ID: uuid.New(), UserID: okUser, Status: types.MembershipGracePeriod, ProviderCustomer: "cus_ok"},
    badUser: {ID: uuid.New(), UserID: badUser, Status: types.MembershipGracePeriod, ProviderCustomer: "cus_bad"},
    noRefUser: {ID: uuid.New(), UserID: noRefUser, Status: types.MembershipGracePeriod},
  }}

  // Every charge succeeds.
  svc := NewMembershipService(nil, testLogger(t), repo, nil, &fakePaymentsClient{chargeStatus: "succeeded"}, nil)
  report, err := svc.RetryFailedPayments(context.Background())
  if err != nil {
    t.Fatalf("RetryFailedPayments: %v", err)
  }
  if report.Processed != 2 || report.Succeeded != 2 || report.Failed != 0 {
    t.Fatalf("report = %+v, want 2 processed (no provider ref skipped), 2 succeeded", report)
  }
  if repo.byUser[okUser].Status != types.MembershipActive {
    t.Error("successful retry should activate the membership")
  }
  if repo.byUser[noRefUser].Status != types.MembershipGracePeriod {
    t.Error("membership without a provider ref must be left alone")
  }
}

func TestRetryFailedPaymentsRecordsFailures(t *testing.T) {
  userID := uuid.New()
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{
    userID: {ID: uuid.New(), UserID: userID, Status: types.MembershipGracePeriod, ProviderCustomer: "cus_1"},
  }}
  svc := NewMembershipService(nil, testLogger(t), repo, nil, &fakePaymentsClient{chargeStatus: "declined"}, nil)

  report, err := svc.RetryFailedPayments(context.Background())
  if err != nil {
    t.Fatalf("RetryFailedPayments: %v", err)
  }
  if report.Failed != 1 || report.Succeeded != 0 {
    t.Fatalf("report = %+v, want 1 failure", report)
  }
  m := repo.byUser[userID]
  if m.Status != types.MembershipGracePeriod {
    t.Error("declined charge must not activate the membership")
  }
  if m.LastPaymentError == "" {
    t.Error("failure should be recorded in last_payment_error")
  }
}

func TestRetryFailedPaymentsWithoutProvider(t *testing.T) {
  repo := &fakeMembershipRepo{byUser: map[uuid.UUID]*types.Membership{}}
  svc := NewMembershipService(nil, testLogger(t), repo, nil, nil, nil)

  if _, err := svc.RetryFailedPayments(context.Background()); err == nil {
    t.Fatal("sweep without a payments client should error")
  }
}
