package services

import (
  "context"
  "testing"
  "time"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

func newEngagementService(t *testing.T) (EngagementService, NotificationService) {
  t.Helper()
  database := newTestDB(t, &types.Engagement{}, &types.Notification{})
  log := testLogger(t)
  broadcaster := NewBroadcaster(log, sse.NewHub(log), nil)
  notificationSvc := NewNotificationService(log, repos.NewNotificationRepo(database, log), broadcaster)
  return NewEngagementService(database, log, repos.NewEngagementRepo(database, log), notificationSvc, broadcaster), notificationSvc
}

func TestTransitionCreatesFirstEngagement(t *testing.T) {
  svc, notificationSvc := newEngagementService(t)
  ctx := context.Background()
  clientID := uuid.New()
  trainerID := uuid.New()

  eng, err := svc.Transition(ctx, clientID, trainerID, engagement.StageSaved)
  if err != nil {
    t.Fatalf("Transition: %v", err)
  }
  if eng.Stage != string(engagement.StageSaved) {
    t.Fatalf("stage = %s, want saved", eng.Stage)
  }
  if eng.WaitlistUntil != nil {
    t.Error("non-waitlist stages must not carry an exclusivity deadline")
  }

  // The trainer gets a durable notification about the change.
  notifications, err := notificationSvc.ListForUser(ctx, trainerID, 10)
  if err != nil {
    t.Fatalf("ListForUser: %v", err)
  }
  if len(notifications) != 1 || notifications[0].Kind != types.NotificationStageChanged {
    t.Fatalf("trainer notifications = %+v, want one stage change", notifications)
  }
}

func TestTransitionRejectsIllegalEdges(t *testing.T) {
  svc, _ := newEngagementService(t)
  ctx := context.Background()
  clientID := uuid.New()
  trainerID := uuid.New()

  // browsing cannot jump straight to chosen.
  if _, err := svc.Transition(ctx, clientID, trainerID, engagement.StageChosen); err == nil {
    t.Fatal("browsing -> chosen should be rejected")
  }
  if eng, err := svc.Get(ctx, clientID, trainerID); err != nil || eng != nil {
    t.Fatalf("rejected transition left a row: %+v, %v", eng, err)
  }
}

func TestTransitionRejectsSelfEngagement(t *testing.T) {
  svc, _ := newEngagementService(t)
  userID := uuid.New()

  if _, err := svc.Transition(context.Background(), userID, userID, engagement.StageSaved); err == nil {
    t.Fatal("engaging with yourself should be rejected")
  }
}

func TestTransitionWaitlistWindow(t *testing.T) {
  svc, _ := newEngagementService(t)
  ctx := context.Background()
  clientID := uuid.New()
  trainerID := uuid.New()

  steps := []engagement.Stage{
    engagement.StageSaved,
    engagement.StageShortlisted,
    engagement.StageDiscoveryInProgress,
    engagement.StageDiscoveryCompleted,
    engagement.StageWaitlist,
  }
  var eng *types.Engagement
  var err error
  for _, step := range steps {
    eng, err = svc.Transition(ctx, clientID, trainerID, step)
    if err != nil {
      t.Fatalf("Transition to %s: %v", step, err)
    }
  }
  if eng.WaitlistUntil == nil {
    t.Fatal("waitlist stage must carry an exclusivity deadline")
  }
  if until := time.Until(*eng.WaitlistUntil); until < 6*24*time.Hour || until > 8*24*time.Hour {
    t.Errorf("waitlist window = %v from now, want about 7 days", until)
  }

  // Leaving the waitlist clears the deadline.
  eng, err = svc.Transition(ctx, clientID, trainerID, engagement.StageAgreed)
  if err != nil {
    t.Fatalf("Transition to agreed: %v", err)
  }
  if eng.WaitlistUntil != nil {
    t.Error("leaving the waitlist must clear the deadline")
  }
}

func TestJourneyBoard(t *testing.T) {
  svc, _ := newEngagementService(t)
  ctx := context.Background()
  clientID := uuid.New()

  savedTrainer := uuid.New()
  if _, err := svc.Transition(ctx, clientID, savedTrainer, engagement.StageSaved); err != nil {
    t.Fatalf("Transition: %v", err)
  }
  dismissedTrainer := uuid.New()
  for _, step := range []engagement.Stage{engagement.StageLiked, engagement.StageDeclined, engagement.StageDeclinedDismissed} {
    if _, err := svc.Transition(ctx, clientID, dismissedTrainer, step); err != nil {
      t.Fatalf("Transition to %s: %v", step, err)
    }
  }

  columns, err := svc.JourneyBoard(ctx, clientID)
  if err != nil {
    t.Fatalf("JourneyBoard: %v", err)
  }
  if len(columns) != len(engagement.AllGroups()) {
    t.Fatalf("board has %d columns, want every group (%d)", len(columns), len(engagement.AllGroups()))
  }
  total := 0
  for _, col := range columns {
    if col.Engagements == nil {
      t.Errorf("column %s has nil engagements, want empty slice", col.Group)
    }
    total += len(col.Engagements)
    if col.Group == engagement.GroupSaved && len(col.Engagements) != 1 {
      t.Errorf("saved column has %d rows, want 1", len(col.Engagements))
    }
  }
  if total != 1 {
    t.Errorf("board shows %d engagements, want 1 (dismissed declines drop off)", total)
  }
}
