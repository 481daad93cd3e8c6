package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type NotificationService interface {
  Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.NotificationKind, payload any) error
  ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error)
  MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type notificationService struct {
  log         *logger.Logger
  repo        repos.NotificationRepo
  broadcaster *Broadcaster
}

func NewNotificationService(log *logger.Logger, repo repos.NotificationRepo, broadcaster *Broadcaster) NotificationService {
  return &notificationService{
    log:         log.With("service", "NotificationService"),
    repo:        repo,
    broadcaster: broadcaster,
  }
}

// Notify persists the notification and pushes it to the user's SSE channel.
// The push is best-effort; the row is the durable record.
func (ns *notificationService) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.NotificationKind, payload any) error {
  var raw datatypes.JSON
  if payload != nil {
    encoded, err := json.Marshal(payload)
    if err != nil {
      return fmt.Errorf("Failed to encode notification payload: %w", err)
    }
    raw = datatypes.JSON(encoded)
  }
  notification := &types.Notification{
    ID:        uuid.New(),
    UserID:    userID,
    Kind:      kind,
    Payload:   raw,
    CreatedAt: time.Now(),
  }
  if _, err := ns.repo.Create(ctx, tx, []*types.Notification{notification}); err != nil {
    return fmt.Errorf("Failed to create notification: %w", err)
  }
  ns.broadcaster.Broadcast(ctx, sse.Message{
    Channel: sse.UserChannel(userID),
    Event:   sse.EventNotification,
    Data:    notification,
  })
  return nil
}

func (ns *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error) {
  return ns.repo.ListByUser(ctx, nil, userID, limit)
}

// MarkRead only touches rows owned by the caller.
func (ns *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
  if len(ids) == 0 {
    return nil
  }
  owned, err := ns.repo.ListByUser(ctx, nil, userID, 500)
  if err != nil {
    return fmt.Errorf("Failed to load notifications: %w", err)
  }
  ownedSet := make(map[uuid.UUID]bool, len(owned))
  for _, n := range owned {
    ownedSet[n.ID] = true
  }
  filtered := make([]uuid.UUID, 0, len(ids))
  for _, id := range ids {
    if ownedSet[id] {
      filtered = append(filtered, id)
    }
  }
  if len(filtered) == 0 {
    return nil
  }
  return ns.repo.MarkRead(ctx, nil, filtered)
}
