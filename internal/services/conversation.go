package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

const maxMessageLength = 4000

type ConversationService interface {
  StartOrGet(ctx context.Context, clientID, trainerID uuid.UUID) (*types.Conversation, error)
  SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*types.Message, error)
  ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Conversation, error)
  ListMessages(ctx context.Context, conversationID, userID uuid.UUID, limit int) ([]*types.Message, error)
}

type conversationService struct {
  db              *gorm.DB
  log             *logger.Logger
  conversationRepo repos.ConversationRepo
  engagementRepo  repos.EngagementRepo
  notificationSvc NotificationService
  broadcaster     *Broadcaster
}

func NewConversationService(
  db *gorm.DB,
  log *logger.Logger,
  conversationRepo repos.ConversationRepo,
  engagementRepo repos.EngagementRepo,
  notificationSvc NotificationService,
  broadcaster *Broadcaster,
) ConversationService {
  return &conversationService{
    db:               db,
    log:              log.With("service", "ConversationService"),
    conversationRepo: conversationRepo,
    engagementRepo:   engagementRepo,
    notificationSvc:  notificationSvc,
    broadcaster:      broadcaster,
  }
}

// StartOrGet opens the messaging channel for a pair. Messaging unlocks once
// the client has shortlisted the trainer; before that the pair has no
// conversation at all.
func (cs *conversationService) StartOrGet(ctx context.Context, clientID, trainerID uuid.UUID) (*types.Conversation, error) {
  eng, err := cs.engagementRepo.GetByPair(ctx, nil, clientID, trainerID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load engagement: %w", err)
  }
  if eng == nil || !messagingUnlocked(engagement.Stage(eng.Stage)) {
    return nil, fmt.Errorf("messaging unlocks after shortlisting this trainer")
  }

  existing, err := cs.conversationRepo.GetByPair(ctx, nil, clientID, trainerID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load conversation: %w", err)
  }
  if existing != nil {
    return existing, nil
  }
  conversation := &types.Conversation{
    ID:        uuid.New(),
    ClientID:  clientID,
    TrainerID: trainerID,
  }
  if err := cs.conversationRepo.Create(ctx, nil, conversation); err != nil {
    return nil, fmt.Errorf("Failed to create conversation: %w", err)
  }
  return conversation, nil
}

func messagingUnlocked(stage engagement.Stage) bool {
  switch engagement.GroupOf(stage) {
  case engagement.GroupShortlisted, engagement.GroupWaitlist, engagement.GroupChosen:
    return true
  }
  return false
}

func (cs *conversationService) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*types.Message, error) {
  body = strings.TrimSpace(body)
  if body == "" {
    return nil, fmt.Errorf("message body is required")
  }
  if len(body) > maxMessageLength {
    return nil, fmt.Errorf("message body exceeds %d characters", maxMessageLength)
  }
  conversation, err := cs.conversationRepo.GetByID(ctx, nil, conversationID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load conversation: %w", err)
  }
  if conversation == nil {
    return nil, fmt.Errorf("conversation not found")
  }
  if conversation.ClientID != senderID && conversation.TrainerID != senderID {
    return nil, fmt.Errorf("not a participant in this conversation")
  }
  recipient := conversation.ClientID
  if recipient == senderID {
    recipient = conversation.TrainerID
  }

  message := &types.Message{
    ID:             uuid.New(),
    ConversationID: conversationID,
    SenderID:       senderID,
    Body:           body,
    CreatedAt:      time.Now(),
  }
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if cErr := cs.conversationRepo.CreateMessage(ctx, tx, message); cErr != nil {
      return fmt.Errorf("Failed to create message: %w", cErr)
    }
    if nErr := cs.notificationSvc.Notify(ctx, tx, recipient, types.NotificationNewMessage, map[string]any{
      "conversation_id": conversationID,
      "sender_id":       senderID,
    }); nErr != nil {
      cs.log.Warn("Failed to notify message recipient", "recipient", recipient, "error", nErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  cs.broadcaster.Broadcast(ctx, sse.Message{
    Channel: sse.ConversationChannel(conversationID),
    Event:   sse.EventMessageCreated,
    Data:    message,
  })
  return message, nil
}

func (cs *conversationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Conversation, error) {
  return cs.conversationRepo.ListByUser(ctx, nil, userID)
}

func (cs *conversationService) ListMessages(ctx context.Context, conversationID, userID uuid.UUID, limit int) ([]*types.Message, error) {
  conversation, err := cs.conversationRepo.GetByID(ctx, nil, conversationID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load conversation: %w", err)
  }
  if conversation == nil {
    return nil, fmt.Errorf("conversation not found")
  }
  if conversation.ClientID != userID && conversation.TrainerID != userID {
    return nil, fmt.Errorf("not a participant in this conversation")
  }
  return cs.conversationRepo.ListMessages(ctx, nil, conversationID, limit)
}
