package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type ClientProfileRepo interface {
  Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ClientProfile, error)
  Update(ctx context.Context, tx *gorm.DB, profile *types.ClientProfile) error
}

type clientProfileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClientProfileRepo(db *gorm.DB, baseLog *logger.Logger) ClientProfileRepo {
  return &clientProfileRepo{db: db, log: baseLog.With("repo", "ClientProfileRepo")}
}

func (cr *clientProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(profiles) == 0 {
    return []*types.ClientProfile{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
    return nil, err
  }
  return profiles, nil
}

func (cr *clientProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ClientProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.ClientProfile
  if len(userIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *clientProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.ClientProfile) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  return transaction.WithContext(ctx).Save(profile).Error
}
