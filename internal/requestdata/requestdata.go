package requestdata

import (
  "context"
  "github.com/google/uuid"
)

type ctxKey struct{}

var requestDataKey = ctxKey{}

type RequestData struct {
  TokenString    string
  RefreshToken   string
  UserID         uuid.UUID
  Role           string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
    return rd
  }
  return nil
}
