package sse

import (
  "testing"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
)

func testHub(t *testing.T) *Hub {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  return NewHub(log)
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
  hub := testHub(t)
  userID := uuid.New()
  client := hub.NewClient(userID)
  other := hub.NewClient(uuid.New())
  hub.AddChannel(client, UserChannel(userID))
  hub.AddChannel(other, PresenceChannel)

  hub.Broadcast(Message{Channel: UserChannel(userID), Event: EventNotification, Data: "hello"})

  select {
  case msg := <-client.Outbound:
    if msg.Event != EventNotification || msg.Data != "hello" {
      t.Fatalf("received %+v, want the notification", msg)
    }
  default:
    t.Fatal("subscribed client received nothing")
  }
  select {
  case msg := <-other.Outbound:
    t.Fatalf("unsubscribed client received %+v", msg)
  default:
  }
}

func TestHubBroadcastIgnoresEmptyChannel(t *testing.T) {
  hub := testHub(t)
  client := hub.NewClient(uuid.New())
  hub.AddChannel(client, PresenceChannel)

  hub.Broadcast(Message{Channel: "", Event: EventPresenceJoined})

  select {
  case msg := <-client.Outbound:
    t.Fatalf("empty-channel broadcast delivered %+v", msg)
  default:
  }
}

func TestHubRemoveChannelStopsDelivery(t *testing.T) {
  hub := testHub(t)
  client := hub.NewClient(uuid.New())
  hub.AddChannel(client, PresenceChannel)
  hub.RemoveChannel(client, PresenceChannel)

  hub.Broadcast(Message{Channel: PresenceChannel, Event: EventPresenceJoined})

  select {
  case msg := <-client.Outbound:
    t.Fatalf("unsubscribed client received %+v", msg)
  default:
  }
}

func TestHubDropsWhenOutboundFull(t *testing.T) {
  hub := testHub(t)
  client := hub.NewClient(uuid.New())
  hub.AddChannel(client, PresenceChannel)

  // One more than the buffer; the overflow message is dropped, not blocked on.
  for i := 0; i < cap(client.Outbound)+1; i++ {
    hub.Broadcast(Message{Channel: PresenceChannel, Event: EventPresenceJoined, Data: i})
  }

  if got := len(client.Outbound); got != cap(client.Outbound) {
    t.Fatalf("outbound holds %d messages, want full buffer %d", got, cap(client.Outbound))
  }
}

func TestHubCloseClientCleansSubscriptions(t *testing.T) {
  hub := testHub(t)
  client := hub.NewClient(uuid.New())
  hub.AddChannel(client, PresenceChannel)
  hub.CloseClient(client)

  // Broadcasting after close must not panic on the closed channel.
  hub.Broadcast(Message{Channel: PresenceChannel, Event: EventPresenceLeft})

  if len(hub.subscriptions) != 0 {
    t.Fatalf("subscriptions after close = %d, want 0", len(hub.subscriptions))
  }
}
