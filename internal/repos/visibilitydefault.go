package repos

import (
  "context"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type VisibilityDefaultRepo interface {
  ListAll(ctx context.Context, tx *gorm.DB) ([]*types.VisibilityDefault, error)
  Upsert(ctx context.Context, tx *gorm.DB, rows []*types.VisibilityDefault) error
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type visibilityDefaultRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewVisibilityDefaultRepo(db *gorm.DB, baseLog *logger.Logger) VisibilityDefaultRepo {
  return &visibilityDefaultRepo{db: db, log: baseLog.With("repo", "VisibilityDefaultRepo")}
}

func (vr *visibilityDefaultRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.VisibilityDefault, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  var results []*types.VisibilityDefault
  if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (vr *visibilityDefaultRepo) Upsert(ctx context.Context, tx *gorm.DB, rows []*types.VisibilityDefault) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  if len(rows) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "content_type"}, {Name: "stage_group"}},
      DoUpdates: clause.AssignmentColumns([]string{"visibility_state", "updated_by", "updated_at"}),
    }).
    Create(&rows).Error
}

func (vr *visibilityDefaultRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.VisibilityDefault{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
