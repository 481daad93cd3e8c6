package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/matching"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

// MatchingConfigService owns the scoring-config lifecycle: drafts are
// editable, publishing archives the previous live version in the same
// transaction, and nothing is ever physically deleted.
type MatchingConfigService interface {
  EnsureSeeded(ctx context.Context) error
  CreateDraft(ctx context.Context, createdBy uuid.UUID, cfg matching.Config, notes string) (*types.MatchingConfigVersion, error)
  UpdateDraft(ctx context.Context, id uuid.UUID, cfg matching.Config, notes string) (*types.MatchingConfigVersion, error)
  Publish(ctx context.Context, id, publishedBy uuid.UUID) (*types.MatchingConfigVersion, error)
  DiscardDraft(ctx context.Context, id uuid.UUID) error
  Get(ctx context.Context, id uuid.UUID) (*types.MatchingConfigVersion, error)
  List(ctx context.Context) ([]*types.MatchingConfigVersion, error)
  ActiveConfig(ctx context.Context) (matching.Config, int, error)
}

type matchingConfigService struct {
  db   *gorm.DB
  log  *logger.Logger
  repo repos.MatchingConfigRepo
}

func NewMatchingConfigService(db *gorm.DB, log *logger.Logger, repo repos.MatchingConfigRepo) MatchingConfigService {
  return &matchingConfigService{
    db:   db,
    log:  log.With("service", "MatchingConfigService"),
    repo: repo,
  }
}

// EnsureSeeded publishes the packaged default config as version 1 when no
// live version exists, so scoring works on a fresh database.
func (ms *matchingConfigService) EnsureSeeded(ctx context.Context) error {
  active, err := ms.repo.GetActive(ctx, nil)
  if err != nil {
    return fmt.Errorf("Failed to check active matching config: %w", err)
  }
  if active != nil {
    return nil
  }
  payload, err := json.Marshal(matching.DefaultConfig())
  if err != nil {
    return err
  }
  now := time.Now()
  version := &types.MatchingConfigVersion{
    ID:          uuid.New(),
    Version:     1,
    Status:      types.MatchingConfigLive,
    IsActive:    true,
    Payload:     datatypes.JSON(payload),
    Notes:       "packaged defaults",
    PublishedAt: &now,
  }
  return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    maxVersion, mvErr := ms.repo.MaxVersion(ctx, tx)
    if mvErr != nil {
      return mvErr
    }
    if maxVersion > 0 {
      version.Version = maxVersion + 1
    }
    if cErr := ms.repo.Create(ctx, tx, version); cErr != nil {
      return fmt.Errorf("Failed to seed matching config: %w", cErr)
    }
    ms.log.Info("Seeded matching config", "version", version.Version)
    return nil
  })
}

func (ms *matchingConfigService) CreateDraft(ctx context.Context, createdBy uuid.UUID, cfg matching.Config, notes string) (*types.MatchingConfigVersion, error) {
  if err := cfg.Validate(); err != nil {
    return nil, err
  }
  payload, err := json.Marshal(cfg)
  if err != nil {
    return nil, err
  }
  var version *types.MatchingConfigVersion
  err = ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    maxVersion, mvErr := ms.repo.MaxVersion(ctx, tx)
    if mvErr != nil {
      return fmt.Errorf("Failed to determine next config version: %w", mvErr)
    }
    version = &types.MatchingConfigVersion{
      ID:        uuid.New(),
      Version:   maxVersion + 1,
      Status:    types.MatchingConfigDraft,
      IsActive:  false,
      Payload:   datatypes.JSON(payload),
      Notes:     notes,
      CreatedBy: createdBy,
    }
    if cErr := ms.repo.Create(ctx, tx, version); cErr != nil {
      return fmt.Errorf("Failed to create config draft: %w", cErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return version, nil
}

func (ms *matchingConfigService) UpdateDraft(ctx context.Context, id uuid.UUID, cfg matching.Config, notes string) (*types.MatchingConfigVersion, error) {
  if err := cfg.Validate(); err != nil {
    return nil, err
  }
  payload, err := json.Marshal(cfg)
  if err != nil {
    return nil, err
  }
  version, err := ms.repo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, fmt.Errorf("Failed to load config version: %w", err)
  }
  if version == nil {
    return nil, fmt.Errorf("config version not found")
  }
  if version.Status != types.MatchingConfigDraft {
    return nil, fmt.Errorf("only draft versions can be edited")
  }
  version.Payload = datatypes.JSON(payload)
  if notes != "" {
    version.Notes = notes
  }
  if err := ms.repo.Update(ctx, nil, version); err != nil {
    return nil, fmt.Errorf("Failed to update config draft: %w", err)
  }
  return version, nil
}

// Publish promotes a draft to live. The previous live version is archived in
// the same transaction, so at most one row is ever active.
func (ms *matchingConfigService) Publish(ctx context.Context, id, publishedBy uuid.UUID) (*types.MatchingConfigVersion, error) {
  var published *types.MatchingConfigVersion
  err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    version, vErr := ms.repo.GetByID(ctx, tx, id)
    if vErr != nil {
      return fmt.Errorf("Failed to load config version: %w", vErr)
    }
    if version == nil {
      return fmt.Errorf("config version not found")
    }
    if version.Status != types.MatchingConfigDraft {
      return fmt.Errorf("only draft versions can be published")
    }
    var cfg matching.Config
    if uErr := json.Unmarshal(version.Payload, &cfg); uErr != nil {
      return fmt.Errorf("Failed to decode config payload: %w", uErr)
    }
    if vErr := cfg.Validate(); vErr != nil {
      return vErr
    }

    now := time.Now()
    previous, pErr := ms.repo.GetActive(ctx, tx)
    if pErr != nil {
      return fmt.Errorf("Failed to load active config: %w", pErr)
    }
    if previous != nil {
      previous.Status = types.MatchingConfigArchived
      previous.IsActive = false
      previous.ArchivedAt = &now
      if uErr := ms.repo.Update(ctx, tx, previous); uErr != nil {
        return fmt.Errorf("Failed to archive previous config: %w", uErr)
      }
    }
    if dErr := ms.repo.DeactivateAll(ctx, tx); dErr != nil {
      return fmt.Errorf("Failed to deactivate config versions: %w", dErr)
    }

    by := publishedBy
    version.Status = types.MatchingConfigLive
    version.IsActive = true
    version.PublishedBy = &by
    version.PublishedAt = &now
    if uErr := ms.repo.Update(ctx, tx, version); uErr != nil {
      return fmt.Errorf("Failed to publish config version: %w", uErr)
    }
    published = version
    ms.log.Info("Published matching config", "version", version.Version, "publishedBy", publishedBy)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return published, nil
}

func (ms *matchingConfigService) DiscardDraft(ctx context.Context, id uuid.UUID) error {
  version, err := ms.repo.GetByID(ctx, nil, id)
  if err != nil {
    return fmt.Errorf("Failed to load config version: %w", err)
  }
  if version == nil {
    return fmt.Errorf("config version not found")
  }
  if version.Status != types.MatchingConfigDraft {
    return fmt.Errorf("only draft versions can be discarded")
  }
  now := time.Now()
  version.Status = types.MatchingConfigArchived
  version.ArchivedAt = &now
  return ms.repo.Update(ctx, nil, version)
}

func (ms *matchingConfigService) Get(ctx context.Context, id uuid.UUID) (*types.MatchingConfigVersion, error) {
  return ms.repo.GetByID(ctx, nil, id)
}

func (ms *matchingConfigService) List(ctx context.Context) ([]*types.MatchingConfigVersion, error) {
  return ms.repo.List(ctx, nil)
}

// ActiveConfig returns the live config, falling back to the packaged defaults
// when none is published. Returns the version number alongside for logging.
func (ms *matchingConfigService) ActiveConfig(ctx context.Context) (matching.Config, int, error) {
  active, err := ms.repo.GetActive(ctx, nil)
  if err != nil {
    return matching.Config{}, 0, fmt.Errorf("Failed to load active config: %w", err)
  }
  if active == nil {
    return matching.DefaultConfig(), 0, nil
  }
  var cfg matching.Config
  if err := json.Unmarshal(active.Payload, &cfg); err != nil {
    ms.log.Error("Active matching config payload is corrupt, using defaults", "version", active.Version, "error", err)
    return matching.DefaultConfig(), 0, nil
  }
  return cfg, active.Version, nil
}
