package types

import (
  "time"
  "github.com/google/uuid"
)

type Role string

const (
  RoleClient  Role = "client"
  RoleTrainer Role = "trainer"
  RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
  switch r {
  case RoleClient, RoleTrainer, RoleAdmin:
    return true
  }
  return false
}

type User struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email             string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password          string          `gorm:"not null;column:password" json:"-"`
  Role              Role            `gorm:"not null;column:role;index" json:"role"`
  FirstName         string          `gorm:"not null;column:first_name" json:"first_name"`
  LastName          string          `gorm:"not null;column:last_name" json:"last_name"`
  AvatarBucketKey   string          `gorm:"column:avatar_bucket_key" json:"avatar_bucket_key"`
  AvatarURL         string          `gorm:"column:avatar_url" json:"avatar_url"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
