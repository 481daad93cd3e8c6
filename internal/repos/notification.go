package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type NotificationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Notification, error)
  MarkRead(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type notificationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
  return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error) {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }
  if len(notifications) == 0 {
    return []*types.Notification{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&notifications).Error; err != nil {
    return nil, err
  }
  return notifications, nil
}

func (nr *notificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Notification, error) {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }
  if limit <= 0 {
    limit = 50
  }
  var results []*types.Notification
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }
  if len(ids) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.Notification{}).
    Where("id IN ?", ids).
    Update("read_at", time.Now()).Error
}
