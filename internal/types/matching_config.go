package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type MatchingConfigStatus string

const (
  MatchingConfigDraft    MatchingConfigStatus = "draft"
  MatchingConfigLive     MatchingConfigStatus = "live"
  MatchingConfigArchived MatchingConfigStatus = "archived"
)

// MatchingConfigVersion is one admin-editable revision of the scoring
// configuration. Versions are never physically deleted; at most one row is
// live (is_active) at a time, enforced by the publish transaction.
type MatchingConfigVersion struct {
  ID            uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
  Version       int                    `gorm:"not null;uniqueIndex;column:version" json:"version"`
  Status        MatchingConfigStatus   `gorm:"not null;column:status;index" json:"status"`
  IsActive      bool                   `gorm:"not null;column:is_active;index" json:"is_active"`
  Payload       datatypes.JSON         `gorm:"type:jsonb;not null;column:payload" json:"payload"`
  Notes         string                 `gorm:"column:notes" json:"notes"`
  CreatedBy     uuid.UUID              `gorm:"type:uuid;column:created_by" json:"created_by"`
  PublishedBy   *uuid.UUID             `gorm:"type:uuid;column:published_by" json:"published_by,omitempty"`
  PublishedAt   *time.Time             `gorm:"column:published_at" json:"published_at,omitempty"`
  ArchivedAt    *time.Time             `gorm:"column:archived_at" json:"archived_at,omitempty"`
  CreatedAt     time.Time              `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time              `gorm:"not null" json:"updated_at"`
}

func (MatchingConfigVersion) TableName() string {
  return "matching_config_version"
}
