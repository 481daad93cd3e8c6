package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type MatchingConfigRepo interface {
  Create(ctx context.Context, tx *gorm.DB, version *types.MatchingConfigVersion) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MatchingConfigVersion, error)
  GetActive(ctx context.Context, tx *gorm.DB) (*types.MatchingConfigVersion, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.MatchingConfigVersion, error)
  MaxVersion(ctx context.Context, tx *gorm.DB) (int, error)
  Update(ctx context.Context, tx *gorm.DB, version *types.MatchingConfigVersion) error
  DeactivateAll(ctx context.Context, tx *gorm.DB) error
}

type matchingConfigRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMatchingConfigRepo(db *gorm.DB, baseLog *logger.Logger) MatchingConfigRepo {
  return &matchingConfigRepo{db: db, log: baseLog.With("repo", "MatchingConfigRepo")}
}

func (mr *matchingConfigRepo) Create(ctx context.Context, tx *gorm.DB, version *types.MatchingConfigVersion) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Create(version).Error
}

func (mr *matchingConfigRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MatchingConfigVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var result types.MatchingConfigVersion
  err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (mr *matchingConfigRepo) GetActive(ctx context.Context, tx *gorm.DB) (*types.MatchingConfigVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var result types.MatchingConfigVersion
  err := transaction.WithContext(ctx).
    Where("is_active = ?", true).
    Order("version DESC").
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (mr *matchingConfigRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.MatchingConfigVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.MatchingConfigVersion
  if err := transaction.WithContext(ctx).
    Order("version DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *matchingConfigRepo) MaxVersion(ctx context.Context, tx *gorm.DB) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.MatchingConfigVersion{}).
    Select("MAX(version)").
    Scan(&max).Error; err != nil {
    return 0, err
  }
  if max == nil {
    return 0, nil
  }
  return *max, nil
}

func (mr *matchingConfigRepo) Update(ctx context.Context, tx *gorm.DB, version *types.MatchingConfigVersion) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(version).Error
}

func (mr *matchingConfigRepo) DeactivateAll(ctx context.Context, tx *gorm.DB) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.MatchingConfigVersion{}).
    Where("is_active = ?", true).
    Update("is_active", false).Error
}
