package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type MembershipRepo interface {
  Create(ctx context.Context, tx *gorm.DB, memberships []*types.Membership) ([]*types.Membership, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Membership, error)
  ListByStatus(ctx context.Context, tx *gorm.DB, status types.MembershipStatus) ([]*types.Membership, error)
  ListInGraceNotReminded(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Membership, error)
  Update(ctx context.Context, tx *gorm.DB, membership *types.Membership) error
}

type membershipRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
  return &membershipRepo{db: db, log: baseLog.With("repo", "MembershipRepo")}
}

func (mr *membershipRepo) Create(ctx context.Context, tx *gorm.DB, memberships []*types.Membership) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(memberships) == 0 {
    return []*types.Membership{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&memberships).Error; err != nil {
    return nil, err
  }
  return memberships, nil
}

func (mr *membershipRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var result types.Membership
  err := transaction.WithContext(ctx).Where("user_id = ?", userID).First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (mr *membershipRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status types.MembershipStatus) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Membership
  if err := transaction.WithContext(ctx).
    Where("status = ?", status).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// ListInGraceNotReminded returns grace-period memberships still inside their
// window that have not received a reminder since entering it.
func (mr *membershipRepo) ListInGraceNotReminded(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Membership, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var results []*types.Membership
  if err := transaction.WithContext(ctx).
    Where("status = ?", types.MembershipGracePeriod).
    Where("grace_until IS NOT NULL AND grace_until > ?", now).
    Where("reminded_at IS NULL").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *membershipRepo) Update(ctx context.Context, tx *gorm.DB, membership *types.Membership) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(membership).Error
}
