package services

import (
  "context"
  "encoding/json"
  "gorm.io/datatypes"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/matching"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

// MatchService evaluates the pure scorer against stored profiles under the
// live admin config.
type MatchService interface {
  ScoreTrainer(ctx context.Context, client *types.ClientProfile, trainer *types.TrainerProfile) matching.Result
  ScoreTrainers(ctx context.Context, client *types.ClientProfile, trainers []*types.TrainerProfile) map[string]matching.Result
}

type matchService struct {
  log       *logger.Logger
  configSvc MatchingConfigService
}

func NewMatchService(log *logger.Logger, configSvc MatchingConfigService) MatchService {
  return &matchService{
    log:       log.With("service", "MatchService"),
    configSvc: configSvc,
  }
}

func (ms *matchService) ScoreTrainer(ctx context.Context, client *types.ClientProfile, trainer *types.TrainerProfile) matching.Result {
  cfg, _, err := ms.configSvc.ActiveConfig(ctx)
  if err != nil {
    ms.log.Warn("Falling back to default matching config", "error", err)
    cfg = matching.DefaultConfig()
  }
  return matching.Score(clientInputFrom(client), trainerInputFrom(trainer), cfg)
}

// ScoreTrainers loads the config once and scores the whole candidate set,
// keyed by trainer profile id.
func (ms *matchService) ScoreTrainers(ctx context.Context, client *types.ClientProfile, trainers []*types.TrainerProfile) map[string]matching.Result {
  cfg, _, err := ms.configSvc.ActiveConfig(ctx)
  if err != nil {
    ms.log.Warn("Falling back to default matching config", "error", err)
    cfg = matching.DefaultConfig()
  }
  in := clientInputFrom(client)
  out := make(map[string]matching.Result, len(trainers))
  for _, trainer := range trainers {
    if trainer == nil {
      continue
    }
    out[trainer.ID.String()] = matching.Score(in, trainerInputFrom(trainer), cfg)
  }
  return out
}

func clientInputFrom(profile *types.ClientProfile) matching.ClientInput {
  if profile == nil {
    return matching.ClientInput{}
  }
  return matching.ClientInput{
    Goals:            stringsFromJSON(profile.Goals),
    City:             profile.City,
    PreferredStyles:  stringsFromJSON(profile.PreferredStyles),
    AvailableDays:    stringsFromJSON(profile.AvailableDays),
    BudgetPerSession: profile.BudgetPerSession,
    DesiredWeeks:     profile.DesiredWeeks,
  }
}

func trainerInputFrom(profile *types.TrainerProfile) matching.TrainerInput {
  if profile == nil {
    return matching.TrainerInput{}
  }
  return matching.TrainerInput{
    Specialties:     stringsFromJSON(profile.Specialties),
    City:            profile.City,
    OffersRemote:    profile.OffersRemote,
    CoachingStyles:  stringsFromJSON(profile.CoachingStyles),
    AvailableDays:   stringsFromJSON(profile.AvailableDays),
    PricePerSession: profile.PricePerSession,
    PackageWeeks:    intsFromJSON(profile.PackageWeeks),
  }
}

func stringsFromJSON(raw datatypes.JSON) []string {
  if len(raw) == 0 {
    return nil
  }
  var out []string
  if err := json.Unmarshal(raw, &out); err != nil {
    return nil
  }
  return out
}

func intsFromJSON(raw datatypes.JSON) []int {
  if len(raw) == 0 {
    return nil
  }
  var out []int
  if err := json.Unmarshal(raw, &out); err != nil {
    return nil
  }
  return out
}

func jsonFromStrings(values []string) datatypes.JSON {
  if values == nil {
    values = []string{}
  }
  raw, err := json.Marshal(values)
  if err != nil {
    return datatypes.JSON("[]")
  }
  return datatypes.JSON(raw)
}

func jsonFromInts(values []int) datatypes.JSON {
  if values == nil {
    values = []int{}
  }
  raw, err := json.Marshal(values)
  if err != nil {
    return datatypes.JSON("[]")
  }
  return datatypes.JSON(raw)
}
