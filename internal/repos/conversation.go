package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type ConversationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, conversation *types.Conversation) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Conversation, error)
  GetByPair(ctx context.Context, tx *gorm.DB, clientID, trainerID uuid.UUID) (*types.Conversation, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Conversation, error)
  CreateMessage(ctx context.Context, tx *gorm.DB, message *types.Message) error
  ListMessages(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, limit int) ([]*types.Message, error)
}

type conversationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
  return &conversationRepo{db: db, log: baseLog.With("repo", "ConversationRepo")}
}

func (cr *conversationRepo) Create(ctx context.Context, tx *gorm.DB, conversation *types.Conversation) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Create(conversation).Error
}

func (cr *conversationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var result types.Conversation
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *conversationRepo) GetByPair(ctx context.Context, tx *gorm.DB, clientID, trainerID uuid.UUID) (*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var result types.Conversation
  err := transaction.WithContext(ctx).
    Where("client_id = ? AND trainer_id = ?", clientID, trainerID).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (cr *conversationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Conversation
  if err := transaction.WithContext(ctx).
    Where("client_id = ? OR trainer_id = ?", userID, userID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *conversationRepo) CreateMessage(ctx context.Context, tx *gorm.DB, message *types.Message) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Create(message).Error
}

func (cr *conversationRepo) ListMessages(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, limit int) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if limit <= 0 {
    limit = 50
  }
  var results []*types.Message
  if err := transaction.WithContext(ctx).
    Where("conversation_id = ?", conversationID).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
