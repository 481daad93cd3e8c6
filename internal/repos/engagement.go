package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type EngagementRepo interface {
  Create(ctx context.Context, tx *gorm.DB, engagements []*types.Engagement) ([]*types.Engagement, error)
  GetByPair(ctx context.Context, tx *gorm.DB, clientID, trainerID uuid.UUID) (*types.Engagement, error)
  ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Engagement, error)
  ListByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.Engagement, error)
  Update(ctx context.Context, tx *gorm.DB, engagement *types.Engagement) error
}

type engagementRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEngagementRepo(db *gorm.DB, baseLog *logger.Logger) EngagementRepo {
  return &engagementRepo{db: db, log: baseLog.With("repo", "EngagementRepo")}
}

func (er *engagementRepo) Create(ctx context.Context, tx *gorm.DB, engagements []*types.Engagement) ([]*types.Engagement, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  if len(engagements) == 0 {
    return []*types.Engagement{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&engagements).Error; err != nil {
    return nil, err
  }
  return engagements, nil
}

// GetByPair returns nil without error when no engagement exists yet; the
// caller treats that as the browsing stage.
func (er *engagementRepo) GetByPair(ctx context.Context, tx *gorm.DB, clientID, trainerID uuid.UUID) (*types.Engagement, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  var result types.Engagement
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

func (er *engagementRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Engagement, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  var results []*types.Engagement
  if err := transaction.WithContext(ctx).
    Where("client_id = ?", clientID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (er *engagementRepo) ListByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.Engagement, error) {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  var results []*types.Engagement
  if err := transaction.WithContext(ctx).
    Where("trainer_id = ?", trainerID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (er *engagementRepo) Update(ctx context.Context, tx *gorm.DB, engagement *types.Engagement) error {
  transaction := tx
  if transaction == nil {
    transaction = er.db
  }
  return transaction.WithContext(ctx).Save(engagement).Error
}
