package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// TrainerProfile holds everything a trainer exposes to browsing clients.
// Array-ish attributes are jsonb so admins can extend vocabularies without
// schema churn.
type TrainerProfile struct {
  ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
  UserID            uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  User              *User             `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
  Handle            string            `gorm:"not null;uniqueIndex;column:handle" json:"handle"`
  Headline          string            `gorm:"column:headline" json:"headline"`
  Bio               string            `gorm:"column:bio" json:"bio"`
  City              string            `gorm:"column:city;index" json:"city"`
  OffersRemote      bool              `gorm:"column:offers_remote" json:"offers_remote"`
  Specialties       datatypes.JSON    `gorm:"type:jsonb;column:specialties" json:"specialties"`
  CoachingStyles    datatypes.JSON    `gorm:"type:jsonb;column:coaching_styles" json:"coaching_styles"`
  AvailableDays     datatypes.JSON    `gorm:"type:jsonb;column:available_days" json:"available_days"`
  PackageWeeks      datatypes.JSON    `gorm:"type:jsonb;column:package_weeks" json:"package_weeks"`
  PricePerSession   float64           `gorm:"column:price_per_session" json:"price_per_session"`
  Rating            float64           `gorm:"column:rating" json:"rating"`
  RatingCount       int               `gorm:"column:rating_count" json:"rating_count"`
  ContactEmail      string            `gorm:"column:contact_email" json:"contact_email"`
  ContactPhone      string            `gorm:"column:contact_phone" json:"contact_phone"`
  PhotoBucketKey    string            `gorm:"column:photo_bucket_key" json:"photo_bucket_key"`
  PhotoURL          string            `gorm:"column:photo_url" json:"photo_url"`
  Accepting         bool              `gorm:"column:accepting;default:true" json:"accepting"`
  CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time         `gorm:"not null" json:"updated_at"`
}

func (TrainerProfile) TableName() string {
  return "trainer_profile"
}
