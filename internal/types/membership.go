package types

import (
  "time"
  "github.com/google/uuid"
)

type MembershipStatus string

const (
  MembershipActive      MembershipStatus = "active"
  MembershipGracePeriod MembershipStatus = "grace_period"
  MembershipLimited     MembershipStatus = "limited"
  MembershipLapsed      MembershipStatus = "lapsed"
)

type Membership struct {
  ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
  UserID             uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  User               *User              `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
  Status             MembershipStatus   `gorm:"not null;column:status;index" json:"status"`
  PlanID             string             `gorm:"column:plan_id" json:"plan_id"`
  ProviderCustomer   string             `gorm:"column:provider_customer" json:"-"`
  GraceUntil         *time.Time         `gorm:"column:grace_until" json:"grace_until,omitempty"`
  LastPaymentError   string             `gorm:"column:last_payment_error" json:"last_payment_error,omitempty"`
  RemindedAt         *time.Time         `gorm:"column:reminded_at" json:"reminded_at,omitempty"`
  CreatedAt          time.Time          `gorm:"not null" json:"created_at"`
  UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

func (Membership) TableName() string {
  return "membership"
}
