package services

import (
  "context"
  "testing"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/matching"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

func newMatchingConfigService(t *testing.T) MatchingConfigService {
  t.Helper()
  database := newTestDB(t, &types.MatchingConfigVersion{})
  log := testLogger(t)
  return NewMatchingConfigService(database, log, repos.NewMatchingConfigRepo(database, log))
}

func TestMatchingConfigEnsureSeeded(t *testing.T) {
  svc := newMatchingConfigService(t)
  ctx := context.Background()

  if err := svc.EnsureSeeded(ctx); err != nil {
    t.Fatalf("EnsureSeeded: %v", err)
  }
  cfg, version, err := svc.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("ActiveConfig: %v", err)
  }
  if version != 1 {
    t.Fatalf("seeded version = %d, want 1", version)
  }
  if cfg.Thresholds.MinMatchToShow != matching.DefaultConfig().Thresholds.MinMatchToShow {
    t.Fatal("seeded config should carry the packaged defaults")
  }

  // Second run must be a no-op.
  if err := svc.EnsureSeeded(ctx); err != nil {
    t.Fatalf("EnsureSeeded again: %v", err)
  }
  versions, err := svc.List(ctx)
  if err != nil {
    t.Fatalf("List: %v", err)
  }
  if len(versions) != 1 {
    t.Fatalf("%d versions after reseed, want 1", len(versions))
  }
}

func TestMatchingConfigActiveFallsBackToDefaults(t *testing.T) {
  svc := newMatchingConfigService(t)

  cfg, version, err := svc.ActiveConfig(context.Background())
  if err != nil {
    t.Fatalf("ActiveConfig: %v", err)
  }
  if version != 0 {
    t.Fatalf("version without any published config = %d, want 0", version)
  }
  if cfg.Weights.Goals.Value != matching.DefaultConfig().Weights.Goals.Value {
    t.Fatal("expected packaged defaults when nothing is published")
  }
}

func TestMatchingConfigDraftLifecycle(t *testing.T) {
  svc := newMatchingConfigService(t)
  ctx := context.Background()
  admin := uuid.New()

  if err := svc.EnsureSeeded(ctx); err != nil {
    t.Fatalf("EnsureSeeded: %v", err)
  }

  edited := matching.DefaultConfig()
  edited.Thresholds.MinMatchToShow = 40
  edited.Thresholds.GoodMatchLabel = 65
  draft, err := svc.CreateDraft(ctx, admin, edited, "raise the floor")
  if err != nil {
    t.Fatalf("CreateDraft: %v", err)
  }
  if draft.Version != 2 {
    t.Fatalf("draft version = %d, want 2", draft.Version)
  }
  if draft.Status != types.MatchingConfigDraft || draft.IsActive {
    t.Fatalf("draft status/active = %s/%v, want draft/false", draft.Status, draft.IsActive)
  }

  // Drafts do not affect what the scorer sees.
  _, version, err := svc.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("ActiveConfig: %v", err)
  }
  if version != 1 {
    t.Fatalf("active version with pending draft = %d, want 1", version)
  }

  published, err := svc.Publish(ctx, draft.ID, admin)
  if err != nil {
    t.Fatalf("Publish: %v", err)
  }
  if published.Status != types.MatchingConfigLive || !published.IsActive {
    t.Fatalf("published status/active = %s/%v, want live/true", published.Status, published.IsActive)
  }
  if published.PublishedBy == nil || *published.PublishedBy != admin {
    t.Fatal("published version should record who published it")
  }

  cfg, version, err := svc.ActiveConfig(ctx)
  if err != nil {
    t.Fatalf("ActiveConfig after publish: %v", err)
  }
  if version != 2 || cfg.Thresholds.MinMatchToShow != 40 {
    t.Fatalf("active = v%d min_match %d, want v2/40", version, cfg.Thresholds.MinMatchToShow)
  }

  versions, err := svc.List(ctx)
  if err != nil {
    t.Fatalf("List: %v", err)
  }
  activeCount := 0
  for _, v := range versions {
    if v.IsActive {
      activeCount++
    }
    if v.Version == 1 {
      if v.Status != types.MatchingConfigArchived || v.ArchivedAt == nil {
        t.Errorf("previous live version = %s archived_at %v, want archived with timestamp", v.Status, v.ArchivedAt)
      }
    }
  }
  if activeCount != 1 {
    t.Fatalf("%d active versions after publish, want exactly 1", activeCount)
  }
}

func TestMatchingConfigPublishRejectsNonDraft(t *testing.T) {
  svc := newMatchingConfigService(t)
  ctx := context.Background()
  admin := uuid.New()

  if err := svc.EnsureSeeded(ctx); err != nil {
    t.Fatalf("EnsureSeeded: %v", err)
  }
  versions, err := svc.List(ctx)
  if err != nil {
    t.Fatalf("List: %v", err)
  }
  if _, err := svc.Publish(ctx, versions[0].ID, admin); err == nil {
    t.Fatal("publishing the live version should error")
  }
  if _, err := svc.UpdateDraft(ctx, versions[0].ID, matching.DefaultConfig(), ""); err == nil {
    t.Fatal("editing the live version should error")
  }
}

func TestMatchingConfigCreateDraftRejectsInvalid(t *testing.T) {
  svc := newMatchingConfigService(t)

  bad := matching.DefaultConfig()
  bad.Thresholds.TopMatchLabel = 200
  if _, err := svc.CreateDraft(context.Background(), uuid.New(), bad, ""); err == nil {
    t.Fatal("invalid config should never reach the table")
  }
}

func TestMatchingConfigDiscardDraft(t *testing.T) {
  svc := newMatchingConfigService(t)
  ctx := context.Background()

  draft, err := svc.CreateDraft(ctx, uuid.New(), matching.DefaultConfig(), "")
  if err != nil {
    t.Fatalf("CreateDraft: %v", err)
  }
  if err := svc.DiscardDraft(ctx, draft.ID); err != nil {
    t.Fatalf("DiscardDraft: %v", err)
  }
  got, err := svc.Get(ctx, draft.ID)
  if err != nil {
    t.Fatalf("Get: %v", err)
  }
  if got.Status != types.MatchingConfigArchived || got.ArchivedAt == nil {
    t.Fatalf("discarded draft = %s, want archived with timestamp", got.Status)
  }
  if err := svc.DiscardDraft(ctx, draft.ID); err == nil {
    t.Fatal("discarding twice should error")
  }
}
