package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
  "github.com/Not-Another-Coach/nac-backend/internal/visibility"
)

// VisibilityDefaultInput is one admin edit to the default gating table.
type VisibilityDefaultInput struct {
  ContentType     string `json:"content_type" binding:"required"`
  StageGroup      string `json:"stage_group" binding:"required"`
  VisibilityState string `json:"visibility_state" binding:"required"`
}

type VisibilityService interface {
  EnsureSeeded(ctx context.Context) error
  Snapshot(ctx context.Context) visibility.Matrix
  StateFor(ctx context.Context, ct visibility.ContentType, stage engagement.Stage) visibility.State
  ListDefaults(ctx context.Context) ([]*types.VisibilityDefault, error)
  UpdateDefaults(ctx context.Context, updatedBy uuid.UUID, inputs []VisibilityDefaultInput) error
  RefreshCache(ctx context.Context) error
}

type visibilityService struct {
  db    *gorm.DB
  log   *logger.Logger
  repo  repos.VisibilityDefaultRepo
  cache *visibility.Cache
}

func NewVisibilityService(db *gorm.DB, log *logger.Logger, repo repos.VisibilityDefaultRepo, ttl time.Duration) VisibilityService {
  vs := &visibilityService{
    db:   db,
    log:  log.With("service", "VisibilityService"),
    repo: repo,
  }
  vs.cache = visibility.NewCache(log, vs.fetchMatrix, ttl)
  return vs
}

// fetchMatrix loads the table into an immutable snapshot. Rows that no longer
// parse are skipped rather than failing the whole load; a skipped pair fails
// closed on lookup.
func (vs *visibilityService) fetchMatrix(ctx context.Context) (visibility.Matrix, error) {
  rows, err := vs.repo.ListAll(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to load visibility defaults: %w", err)
  }
  m := make(visibility.Matrix, len(rows))
  for _, row := range rows {
    state, ok := visibility.ParseState(row.VisibilityState)
    if !ok {
      vs.log.Warn("Skipping visibility default with unknown state", "contentType", row.ContentType, "stageGroup", row.StageGroup, "state", row.VisibilityState)
      continue
    }
    if !visibility.IsContentType(row.ContentType) {
      vs.log.Warn("Skipping visibility default with unknown content type", "contentType", row.ContentType)
      continue
    }
    m[visibility.Key{
      Content: visibility.ContentType(row.ContentType),
      Group:   engagement.StageGroup(row.StageGroup),
    }] = state
  }
  return m, nil
}

// EnsureSeeded populates an empty table from the packaged defaults so a fresh
// environment gates sensibly before any admin edit.
func (vs *visibilityService) EnsureSeeded(ctx context.Context) error {
  count, err := vs.repo.Count(ctx, nil)
  if err != nil {
    return fmt.Errorf("Failed to count visibility defaults: %w", err)
  }
  if count > 0 {
    return nil
  }
  seed, err := visibility.SeedMatrix()
  if err != nil {
    return err
  }
  rows := make([]*types.VisibilityDefault, 0, len(seed))
  now := time.Now()
  for key, state := range seed {
    rows = append(rows, &types.VisibilityDefault{
      ID:              uuid.New(),
      ContentType:     string(key.Content),
      StageGroup:      string(key.Group),
      VisibilityState: string(state),
      CreatedAt:       now,
      UpdatedAt:       now,
    })
  }
  if err := vs.repo.Upsert(ctx, nil, rows); err != nil {
    return fmt.Errorf("Failed to seed visibility defaults: %w", err)
  }
  vs.log.Info("Seeded visibility defaults", "rows", len(rows))
  vs.cache.Invalidate()
  return nil
}

func (vs *visibilityService) Snapshot(ctx context.Context) visibility.Matrix {
  return vs.cache.Snapshot(ctx)
}

func (vs *visibilityService) StateFor(ctx context.Context, ct visibility.ContentType, stage engagement.Stage) visibility.State {
  return vs.cache.GetForStage(ctx, ct, stage)
}

func (vs *visibilityService) ListDefaults(ctx context.Context) ([]*types.VisibilityDefault, error) {
  return vs.repo.ListAll(ctx, nil)
}

// UpdateDefaults validates and upserts the given pairs, then invalidates the
// cache so the change is live within one lookup instead of one TTL.
func (vs *visibilityService) UpdateDefaults(ctx context.Context, updatedBy uuid.UUID, inputs []VisibilityDefaultInput) error {
  if len(inputs) == 0 {
    return fmt.Errorf("no visibility defaults given")
  }
  rows := make([]*types.VisibilityDefault, 0, len(inputs))
  now := time.Now()
  for _, in := range inputs {
    if !visibility.IsContentType(in.ContentType) {
      return fmt.Errorf("unknown content type %q", in.ContentType)
    }
    if _, ok := visibility.ParseState(in.VisibilityState); !ok {
      return fmt.Errorf("unknown visibility state %q", in.VisibilityState)
    }
    validGroup := false
    for _, g := range engagement.AllGroups() {
      if g == engagement.StageGroup(in.StageGroup) {
        validGroup = true
        break
      }
    }
    if !validGroup {
      return fmt.Errorf("unknown stage group %q", in.StageGroup)
    }
    by := updatedBy
    rows = append(rows, &types.VisibilityDefault{
      ID:              uuid.New(),
      ContentType:     in.ContentType,
      StageGroup:      in.StageGroup,
      VisibilityState: in.VisibilityState,
      UpdatedBy:       &by,
      CreatedAt:       now,
      UpdatedAt:       now,
    })
  }
  if err := vs.repo.Upsert(ctx, nil, rows); err != nil {
    return fmt.Errorf("Failed to update visibility defaults: %w", err)
  }
  vs.cache.Invalidate()
  return nil
}

func (vs *visibilityService) RefreshCache(ctx context.Context) error {
  return vs.cache.Refresh(ctx)
}
