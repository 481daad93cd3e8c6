package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type ClientProfile struct {
  ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
  UserID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  User               *User            `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
  Goals              datatypes.JSON   `gorm:"type:jsonb;column:goals" json:"goals"`
  PreferredStyles    datatypes.JSON   `gorm:"type:jsonb;column:preferred_styles" json:"preferred_styles"`
  AvailableDays      datatypes.JSON   `gorm:"type:jsonb;column:available_days" json:"available_days"`
  City               string           `gorm:"column:city" json:"city"`
  BudgetPerSession   float64          `gorm:"column:budget_per_session" json:"budget_per_session"`
  DesiredWeeks       int              `gorm:"column:desired_weeks" json:"desired_weeks"`
  Notes              string           `gorm:"column:notes" json:"notes"`
  CreatedAt          time.Time        `gorm:"not null" json:"created_at"`
  UpdatedAt          time.Time        `gorm:"not null" json:"updated_at"`
}

func (ClientProfile) TableName() string {
  return "client_profile"
}
