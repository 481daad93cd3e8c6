package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type NotificationKind string

const (
  NotificationGraceReminder   NotificationKind = "grace_period_reminder"
  NotificationWaitlistExpired NotificationKind = "waitlist_expired"
  NotificationNewMessage      NotificationKind = "new_message"
  NotificationStageChanged    NotificationKind = "stage_changed"
)

type Notification struct {
  ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
  Kind        NotificationKind   `gorm:"not null;column:kind;index" json:"kind"`
  Payload     datatypes.JSON     `gorm:"type:jsonb;column:payload" json:"payload"`
  ReadAt      *time.Time         `gorm:"column:read_at" json:"read_at,omitempty"`
  CreatedAt   time.Time          `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string {
  return "notification"
}
