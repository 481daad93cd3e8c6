package types

import (
  "time"
  "github.com/google/uuid"
)

type Conversation struct {
  ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
  ClientID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_conversation_pair,unique" json:"client_id"`
  TrainerID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_conversation_pair,unique" json:"trainer_id"`
  CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Conversation) TableName() string {
  return "conversation"
}

type Message struct {
  ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  ConversationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"conversation_id"`
  Conversation     *Conversation   `gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE" json:"conversation,omitempty"`
  SenderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"sender_id"`
  Body             string          `gorm:"not null;column:body" json:"body"`
  ReadAt           *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
  CreatedAt        time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string {
  return "message"
}
