package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type TrainerProfileRepo interface {
  Create(ctx context.Context, tx *gorm.DB, profiles []*types.TrainerProfile) ([]*types.TrainerProfile, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TrainerProfile, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TrainerProfile, error)
  ListAccepting(ctx context.Context, tx *gorm.DB) ([]*types.TrainerProfile, error)
  Update(ctx context.Context, tx *gorm.DB, profile *types.TrainerProfile) error
}

type trainerProfileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTrainerProfileRepo(db *gorm.DB, baseLog *logger.Logger) TrainerProfileRepo {
  return &trainerProfileRepo{db: db, log: baseLog.With("repo", "TrainerProfileRepo")}
}

func (tr *trainerProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.TrainerProfile) ([]*types.TrainerProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  if len(profiles) == 0 {
    return []*types.TrainerProfile{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
    return nil, err
  }
  return profiles, nil
}

func (tr *trainerProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TrainerProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.TrainerProfile
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *trainerProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TrainerProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.TrainerProfile
  if len(userIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *trainerProfileRepo) ListAccepting(ctx context.Context, tx *gorm.DB) ([]*types.TrainerProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.TrainerProfile
  if err := transaction.WithContext(ctx).
    Preload("User").
    Where("accepting = ?", true).
    Order("rating DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *trainerProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.TrainerProfile) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  return transaction.WithContext(ctx).Save(profile).Error
}
