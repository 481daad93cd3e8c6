package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
)

type SSEHandler struct {
  hub                 *sse.Hub
  conversationService services.ConversationService
  log                 *logger.Logger
}

func NewSSEHandler(hub *sse.Hub, conversationService services.ConversationService, log *logger.Logger) *SSEHandler {
  return &SSEHandler{
    hub:                 hub,
    conversationService: conversationService,
    log:                 log.With("handler", "SSEHandler"),
  }
}

// Stream opens the event stream for the authenticated user: their personal
// channel, the presence channel, and every conversation they are part of.
func (h *SSEHandler) Stream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
    return
  }

  client := h.hub.NewClient(rd.UserID)
  h.hub.AddChannel(client, sse.UserChannel(rd.UserID))
  h.hub.AddChannel(client, sse.PresenceChannel)

  conversations, err := h.conversationService.ListForUser(c.Request.Context(), rd.UserID)
  if err != nil {
    h.log.Warn("Failed to subscribe SSE client to conversations", "userID", rd.UserID, "error", err)
  } else {
    for _, conversation := range conversations {
      h.hub.AddChannel(client, sse.ConversationChannel(conversation.ID))
    }
  }

  defer h.hub.CloseClient(client)
  h.hub.ServeHTTP(c.Writer, c.Request, client)
}
