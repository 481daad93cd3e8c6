package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  redisclient "github.com/Not-Another-Coach/nac-backend/internal/clients/redis"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
)

// PresenceService fronts the Redis presence set and pushes join/leave events
// to everyone watching the presence channel. Join is idempotent end to end:
// a duplicate join neither changes the set nor re-announces the user.
type PresenceService interface {
  Join(ctx context.Context, userID uuid.UUID) error
  Leave(ctx context.Context, userID uuid.UUID) error
  Heartbeat(ctx context.Context, userID uuid.UUID) error
  OnlineUserIDs(ctx context.Context) ([]uuid.UUID, error)
  IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

type presenceService struct {
  log         *logger.Logger
  tracker     redisclient.PresenceTracker
  broadcaster *Broadcaster
}

func NewPresenceService(log *logger.Logger, tracker redisclient.PresenceTracker, broadcaster *Broadcaster) PresenceService {
  return &presenceService{
    log:         log.With("service", "PresenceService"),
    tracker:     tracker,
    broadcaster: broadcaster,
  }
}

func (ps *presenceService) Join(ctx context.Context, userID uuid.UUID) error {
  if ps.tracker == nil {
    return fmt.Errorf("presence tracking unavailable")
  }
  wasOnline, err := ps.tracker.IsOnline(ctx, userID.String())
  if err != nil {
    ps.log.Warn("Failed to check presence before join", "userID", userID, "error", err)
  }
  if err := ps.tracker.Join(ctx, userID.String()); err != nil {
    return err
  }
  if !wasOnline {
    ps.broadcaster.Broadcast(ctx, sse.Message{
      Channel: sse.PresenceChannel,
      Event:   sse.EventPresenceJoined,
      Data:    map[string]any{"user_id": userID},
    })
  }
  return nil
}

func (ps *presenceService) Leave(ctx context.Context, userID uuid.UUID) error {
  if ps.tracker == nil {
    return fmt.Errorf("presence tracking unavailable")
  }
  if err := ps.tracker.Leave(ctx, userID.String()); err != nil {
    return err
  }
  ps.broadcaster.Broadcast(ctx, sse.Message{
    Channel: sse.PresenceChannel,
    Event:   sse.EventPresenceLeft,
    Data:    map[string]any{"user_id": userID},
  })
  return nil
}

func (ps *presenceService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
  if ps.tracker == nil {
    return fmt.Errorf("presence tracking unavailable")
  }
  return ps.tracker.Heartbeat(ctx, userID.String())
}

func (ps *presenceService) OnlineUserIDs(ctx context.Context) ([]uuid.UUID, error) {
  if ps.tracker == nil {
    return nil, fmt.Errorf("presence tracking unavailable")
  }
  raw, err := ps.tracker.OnlineUserIDs(ctx)
  if err != nil {
    return nil, err
  }
  ids := make([]uuid.UUID, 0, len(raw))
  for _, member := range raw {
    id, pErr := uuid.Parse(member)
    if pErr != nil {
      ps.log.Warn("Skipping malformed presence member", "member", member)
      continue
    }
    ids = append(ids, id)
  }
  return ids, nil
}

func (ps *presenceService) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
  if ps.tracker == nil {
    return false, fmt.Errorf("presence tracking unavailable")
  }
  return ps.tracker.IsOnline(ctx, userID.String())
}
