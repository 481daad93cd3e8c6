package types

import (
  "time"
  "github.com/google/uuid"
)

type Testimonial struct {
  ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
  TrainerID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"trainer_id"`
  AuthorID    uuid.UUID    `gorm:"type:uuid;not null" json:"author_id"`
  Rating      int          `gorm:"not null;column:rating" json:"rating"`
  Body        string       `gorm:"not null;column:body" json:"body"`
  Published   bool         `gorm:"not null;column:published;default:false" json:"published"`
  CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Testimonial) TableName() string {
  return "testimonial"
}
