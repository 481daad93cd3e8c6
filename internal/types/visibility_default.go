package types

import (
  "time"
  "github.com/google/uuid"
)

// VisibilityDefault is one row of the default gating table:
// (content_type, stage_group) -> visibility_state. Admin-editable; missing
// pairs fail closed in the cache layer.
type VisibilityDefault struct {
  ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
  ContentType      string       `gorm:"not null;column:content_type;index:idx_visibility_pair,unique" json:"content_type"`
  StageGroup       string       `gorm:"not null;column:stage_group;index:idx_visibility_pair,unique" json:"stage_group"`
  VisibilityState  string       `gorm:"not null;column:visibility_state" json:"visibility_state"`
  UpdatedBy        *uuid.UUID   `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
  CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
  UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

func (VisibilityDefault) TableName() string {
  return "visibility_default"
}
