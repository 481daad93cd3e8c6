package types

import (
  "time"
  "github.com/google/uuid"
)

// Engagement is one client's relationship with one trainer. Stage values come
// from the engagement package; the pair is unique.
type Engagement struct {
  ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
  ClientID         uuid.UUID     `gorm:"type:uuid;not null;index:idx_engagement_pair,unique" json:"client_id"`
  TrainerID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_engagement_pair,unique" json:"trainer_id"`
  Stage            string        `gorm:"not null;column:stage;index" json:"stage"`
  WaitlistUntil    *time.Time    `gorm:"column:waitlist_until" json:"waitlist_until,omitempty"`
  CreatedAt        time.Time     `gorm:"not null" json:"created_at"`
  UpdatedAt        time.Time     `gorm:"not null" json:"updated_at"`
}

func (Engagement) TableName() string {
  return "engagement"
}
