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
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
  "github.com/Not-Another-Coach/nac-backend/internal/utils"
)

// JourneyColumn is one column of the client's funnel board: a journey group
// and the engagements currently in it.
type JourneyColumn struct {
  Group       engagement.StageGroup `json:"group"`
  Engagements []*types.Engagement   `json:"engagements"`
}

type EngagementService interface {
  Transition(ctx context.Context, clientID, trainerID uuid.UUID, to engagement.Stage) (*types.Engagement, error)
  Get(ctx context.Context, clientID, trainerID uuid.UUID) (*types.Engagement, error)
  JourneyBoard(ctx context.Context, clientID uuid.UUID) ([]JourneyColumn, error)
  ListForTrainer(ctx context.Context, trainerID uuid.UUID) ([]*types.Engagement, error)
}

type engagementService struct {
  db              *gorm.DB
  log             *logger.Logger
  engagementRepo  repos.EngagementRepo
  notificationSvc NotificationService
  broadcaster     *Broadcaster
  waitlistWindow  time.Duration
}

func NewEngagementService(
  db *gorm.DB,
  log *logger.Logger,
  engagementRepo repos.EngagementRepo,
  notificationSvc NotificationService,
  broadcaster *Broadcaster,
) EngagementService {
  serviceLog := log.With("service", "EngagementService")
  waitlistDays := utils.GetEnvAsInt("WAITLIST_EXCLUSIVITY_DAYS", 7, log)
  return &engagementService{
    db:              db,
    log:             serviceLog,
    engagementRepo:  engagementRepo,
    notificationSvc: notificationSvc,
    broadcaster:     broadcaster,
    waitlistWindow:  time.Duration(waitlistDays) * 24 * time.Hour,
  }
}

// Transition moves the client's relationship with a trainer along the allowed
// edges. A missing row counts as browsing, so the first action creates it.
func (es *engagementService) Transition(ctx context.Context, clientID, trainerID uuid.UUID, to engagement.Stage) (*types.Engagement, error) {
  if clientID == trainerID {
    return nil, fmt.Errorf("cannot engage with yourself")
  }

  var result *types.Engagement
  err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    eng, gErr := es.engagementRepo.GetByPair(ctx, tx, clientID, trainerID)
    if gErr != nil {
      return fmt.Errorf("Failed to load engagement: %w", gErr)
    }
    from := engagement.StageBrowsing
    if eng != nil {
      from = engagement.Stage(eng.Stage)
    }
    if vErr := engagement.ValidateTransition(from, to); vErr != nil {
      return vErr
    }

    if eng == nil {
      eng = &types.Engagement{
        ID:        uuid.New(),
        ClientID:  clientID,
        TrainerID: trainerID,
        Stage:     string(to),
      }
      es.applyWaitlistWindow(eng, to)
      if _, cErr := es.engagementRepo.Create(ctx, tx, []*types.Engagement{eng}); cErr != nil {
        return fmt.Errorf("Failed to create engagement: %w", cErr)
      }
    } else {
      eng.Stage = string(to)
      es.applyWaitlistWindow(eng, to)
      if uErr := es.engagementRepo.Update(ctx, tx, eng); uErr != nil {
        return fmt.Errorf("Failed to update engagement: %w", uErr)
      }
    }

    if notifyErr := es.notificationSvc.Notify(ctx, tx, trainerID, types.NotificationStageChanged, map[string]any{
      "client_id": clientID,
      "from":      string(from),
      "to":        string(to),
    }); notifyErr != nil {
      es.log.Warn("Failed to notify trainer of stage change", "trainerID", trainerID, "error", notifyErr)
    }
    result = eng
    return nil
  })
  if err != nil {
    return nil, err
  }

  es.broadcaster.Broadcast(ctx, sse.Message{
    Channel: sse.UserChannel(clientID),
    Event:   sse.EventStageChanged,
    Data:    result,
  })
  return result, nil
}

// applyWaitlistWindow sets or clears the exclusivity deadline so only rows
// actually in waitlist carry one.
func (es *engagementService) applyWaitlistWindow(eng *types.Engagement, to engagement.Stage) {
  if to == engagement.StageWaitlist {
    until := time.Now().Add(es.waitlistWindow)
    eng.WaitlistUntil = &until
    return
  }
  eng.WaitlistUntil = nil
}

func (es *engagementService) Get(ctx context.Context, clientID, trainerID uuid.UUID) (*types.Engagement, error) {
  return es.engagementRepo.GetByPair(ctx, nil, clientID, trainerID)
}

// JourneyBoard groups the client's engagements by journey stage. Every group
// is present even when empty so the board renders a stable set of columns;
// dismissed declines drop off entirely.
func (es *engagementService) JourneyBoard(ctx context.Context, clientID uuid.UUID) ([]JourneyColumn, error) {
  engagements, err := es.engagementRepo.ListByClient(ctx, nil, clientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list engagements: %w", err)
  }
  byGroup := make(map[engagement.StageGroup][]*types.Engagement)
  for _, eng := range engagements {
    stage := engagement.Stage(eng.Stage)
    if stage == engagement.StageDeclinedDismissed {
      continue
    }
    group := engagement.GroupOf(stage)
    byGroup[group] = append(byGroup[group], eng)
  }
  columns := make([]JourneyColumn, 0, len(engagement.AllGroups()))
  for _, group := range engagement.AllGroups() {
    list := byGroup[group]
    if list == nil {
      list = []*types.Engagement{}
    }
    columns = append(columns, JourneyColumn{Group: group, Engagements: list})
  }
  return columns, nil
}

func (es *engagementService) ListForTrainer(ctx context.Context, trainerID uuid.UUID) ([]*types.Engagement, error) {
  return es.engagementRepo.ListByTrainer(ctx, nil, trainerID)
}
