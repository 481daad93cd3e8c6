package services

import (
  "context"
  redisclient "github.com/Not-Another-Coach/nac-backend/internal/clients/redis"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
)

// Broadcaster routes realtime events. With a Redis bus attached, messages go
// through pub/sub and come back via the forwarder so every instance (this one
// included) delivers them exactly once; without one, they go straight to the
// local hub.
type Broadcaster struct {
  log *logger.Logger
  hub *sse.Hub
  bus redisclient.EventBus
}

func NewBroadcaster(log *logger.Logger, hub *sse.Hub, bus redisclient.EventBus) *Broadcaster {
  return &Broadcaster{
    log: log.With("component", "Broadcaster"),
    hub: hub,
    bus: bus,
  }
}

func (b *Broadcaster) Broadcast(ctx context.Context, msg sse.Message) {
  if b == nil {
    return
  }
  if b.bus != nil {
    if err := b.bus.Publish(ctx, msg); err == nil {
      return
    } else {
      b.log.Warn("Event bus publish failed, falling back to local hub", "channel", msg.Channel, "error", err)
    }
  }
  if b.hub != nil {
    b.hub.Broadcast(msg)
  }
}
