package services

import (
  "context"
  "strings"
  "testing"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

func newConversationService(t *testing.T) (ConversationService, repos.EngagementRepo) {
  t.Helper()
  database := newTestDB(t, &types.Engagement{}, &types.Conversation{}, &types.Message{}, &types.Notification{})
  log := testLogger(t)
  broadcaster := NewBroadcaster(log, sse.NewHub(log), nil)
  notificationSvc := NewNotificationService(log, repos.NewNotificationRepo(database, log), broadcaster)
  engagementRepo := repos.NewEngagementRepo(database, log)
  svc := NewConversationService(database, log, repos.NewConversationRepo(database, log), engagementRepo, notificationSvc, broadcaster)
  return svc, engagementRepo
}

func engageAt(t *testing.T, repo repos.EngagementRepo, clientID, trainerID uuid.UUID, stage engagement.Stage) {
  t.Helper()
  if _, err := repo.Create(context.Background(), nil, []*types.Engagement{{
    ID:        uuid.New(),
    ClientID:  clientID,
    TrainerID: trainerID,
    Stage:     string(stage),
  }}); err != nil {
    t.Fatalf("Create engagement: %v", err)
  }
}

func TestStartOrGetLocksBeforeShortlist(t *testing.T) {
  svc, engagementRepo := newConversationService(t)
  ctx := context.Background()
  clientID := uuid.New()

  // No engagement at all.
  if _, err := svc.StartOrGet(ctx, clientID, uuid.New()); err == nil {
    t.Fatal("messaging without any engagement should be locked")
  }

  // Saved is still before the shortlist.
  savedTrainer := uuid.New()
  engageAt(t, engagementRepo, clientID, savedTrainer, engagement.StageSaved)
  if _, err := svc.StartOrGet(ctx, clientID, savedTrainer); err == nil {
    t.Fatal("messaging at saved should be locked")
  }

  shortlistedTrainer := uuid.New()
  engageAt(t, engagementRepo, clientID, shortlistedTrainer, engagement.StageShortlisted)
  conversation, err := svc.StartOrGet(ctx, clientID, shortlistedTrainer)
  if err != nil {
    t.Fatalf("StartOrGet at shortlisted: %v", err)
  }

  // Idempotent: a second call returns the same conversation.
  again, err := svc.StartOrGet(ctx, clientID, shortlistedTrainer)
  if err != nil {
    t.Fatalf("StartOrGet again: %v", err)
  }
  if again.ID != conversation.ID {
    t.Fatalf("second call created a new conversation: %s vs %s", again.ID, conversation.ID)
  }
}

func TestSendMessage(t *testing.T) {
  svc, engagementRepo := newConversationService(t)
  ctx := context.Background()
  clientID := uuid.New()
  trainerID := uuid.New()
  engageAt(t, engagementRepo, clientID, trainerID, engagement.StageWaitlist)

  conversation, err := svc.StartOrGet(ctx, clientID, trainerID)
  if err != nil {
    t.Fatalf("StartOrGet: %v", err)
  }

  sent, err := svc.SendMessage(ctx, conversation.ID, clientID, "  When can we start?  ")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  if sent.Body != "When can we start?" {
    t.Errorf("body = %q, want trimmed", sent.Body)
  }

  // The trainer can read and reply; an outsider can do neither.
  if _, err := svc.SendMessage(ctx, conversation.ID, trainerID, "Monday works"); err != nil {
    t.Fatalf("trainer reply: %v", err)
  }
  if _, err := svc.SendMessage(ctx, conversation.ID, uuid.New(), "let me in"); err == nil {
    t.Error("non-participant send should be rejected")
  }

  messages, err := svc.ListMessages(ctx, conversation.ID, trainerID, 50)
  if err != nil {
    t.Fatalf("ListMessages: %v", err)
  }
  if len(messages) != 2 {
    t.Fatalf("conversation holds %d messages, want 2", len(messages))
  }
  if _, err := svc.ListMessages(ctx, conversation.ID, uuid.New(), 50); err == nil {
    t.Error("non-participant read should be rejected")
  }
}

func TestSendMessageValidatesBody(t *testing.T) {
  svc, engagementRepo := newConversationService(t)
  ctx := context.Background()
  clientID := uuid.New()
  trainerID := uuid.New()
  engageAt(t, engagementRepo, clientID, trainerID, engagement.StageChosen)

  conversation, err := svc.StartOrGet(ctx, clientID, trainerID)
  if err != nil {
    t.Fatalf("StartOrGet: %v", err)
  }

  if _, err := svc.SendMessage(ctx, conversation.ID, clientID, "   "); err == nil {
    t.Error("blank body should be rejected")
  }
  if _, err := svc.SendMessage(ctx, conversation.ID, clientID, strings.Repeat("a", maxMessageLength+1)); err == nil {
    t.Error("oversized body should be rejected")
  }
  if _, err := svc.SendMessage(ctx, uuid.New(), clientID, "hello"); err == nil {
    t.Error("unknown conversation should be rejected")
  }
}
