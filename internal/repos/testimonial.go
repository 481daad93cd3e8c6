package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type TestimonialRepo interface {
  Create(ctx context.Context, tx *gorm.DB, testimonials []*types.Testimonial) ([]*types.Testimonial, error)
  ListPublishedByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.Testimonial, error)
}

type testimonialRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTestimonialRepo(db *gorm.DB, baseLog *logger.Logger) TestimonialRepo {
  return &testimonialRepo{db: db, log: baseLog.With("repo", "TestimonialRepo")}
}

func (tr *testimonialRepo) Create(ctx context.Context, tx *gorm.DB, testimonials []*types.Testimonial) ([]*types.Testimonial, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  if len(testimonials) == 0 {
    return []*types.Testimonial{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&testimonials).Error; err != nil {
    return nil, err
  }
  return testimonials, nil
}

func (tr *testimonialRepo) ListPublishedByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.Testimonial, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.Testimonial
  if err := transaction.WithContext(ctx).
    Where("trainer_id = ? AND published = ?", trainerID, true).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
