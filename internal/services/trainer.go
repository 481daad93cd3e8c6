package services

import (
  "context"
  "fmt"
  "sort"
  "strings"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/matching"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
  "github.com/Not-Another-Coach/nac-backend/internal/visibility"
)

// GatedField carries a gated profile value to the viewer. Hidden fields are
// never present at all; blurred fields keep the value but mark it so the
// client obscures it.
type GatedField struct {
  State string `json:"state"`
  Value any    `json:"value"`
}

// TrainerCard is the viewer-specific rendering of one trainer. Identity and
// gated fields depend on the viewer's engagement stage; two clients can see
// very different cards for the same trainer.
type TrainerCard struct {
  TrainerUserID  uuid.UUID        `json:"trainer_user_id"`
  ProfileID      uuid.UUID        `json:"profile_id"`
  DisplayName    string           `json:"display_name"`
  Stage          string           `json:"stage"`
  StageGroup     string           `json:"stage_group"`
  Headline       string           `json:"headline"`
  City           string           `json:"city"`
  OffersRemote   bool             `json:"offers_remote"`
  Specialties    []string         `json:"specialties"`
  CoachingStyles []string         `json:"coaching_styles"`
  AvailableDays  []string         `json:"available_days"`
  Accepting      bool             `json:"accepting"`
  Photo          *GatedField      `json:"photo,omitempty"`
  Rating         *GatedField      `json:"rating,omitempty"`
  Pricing        *GatedField      `json:"pricing,omitempty"`
  Bio            *GatedField      `json:"bio,omitempty"`
  Contact        *GatedField      `json:"contact,omitempty"`
  Testimonials   *GatedField      `json:"testimonials,omitempty"`
  Match          *matching.Result `json:"match,omitempty"`
}

// TrainerProfileInput is the trainer-editable slice of their own profile.
type TrainerProfileInput struct {
  Handle          string   `json:"handle" binding:"required"`
  Headline        string   `json:"headline"`
  Bio             string   `json:"bio"`
  City            string   `json:"city"`
  OffersRemote    bool     `json:"offers_remote"`
  Specialties     []string `json:"specialties"`
  CoachingStyles  []string `json:"coaching_styles"`
  AvailableDays   []string `json:"available_days"`
  PackageWeeks    []int    `json:"package_weeks"`
  PricePerSession float64  `json:"price_per_session"`
  ContactEmail    string   `json:"contact_email"`
  ContactPhone    string   `json:"contact_phone"`
  Accepting       bool     `json:"accepting"`
}

type TrainerService interface {
  UpsertMyProfile(ctx context.Context, trainerUserID uuid.UUID, input TrainerProfileInput) (*types.TrainerProfile, error)
  GetMyProfile(ctx context.Context, trainerUserID uuid.UUID) (*types.TrainerProfile, error)
  Browse(ctx context.Context, clientID uuid.UUID) ([]*TrainerCard, error)
  GetCard(ctx context.Context, clientID, trainerUserID uuid.UUID) (*TrainerCard, error)
  CreateTestimonial(ctx context.Context, authorID, trainerUserID uuid.UUID, rating int, body string) (*types.Testimonial, error)
}

type trainerService struct {
  log             *logger.Logger
  trainerRepo     repos.TrainerProfileRepo
  clientRepo      repos.ClientProfileRepo
  engagementRepo  repos.EngagementRepo
  testimonialRepo repos.TestimonialRepo
  visibilitySvc   VisibilityService
  matchSvc        MatchService
}

func NewTrainerService(
  log *logger.Logger,
  trainerRepo repos.TrainerProfileRepo,
  clientRepo repos.ClientProfileRepo,
  engagementRepo repos.EngagementRepo,
  testimonialRepo repos.TestimonialRepo,
  visibilitySvc VisibilityService,
  matchSvc MatchService,
) TrainerService {
  return &trainerService{
    log:             log.With("service", "TrainerService"),
    trainerRepo:     trainerRepo,
    clientRepo:      clientRepo,
    engagementRepo:  engagementRepo,
    testimonialRepo: testimonialRepo,
    visibilitySvc:   visibilitySvc,
    matchSvc:        matchSvc,
  }
}

func (ts *trainerService) UpsertMyProfile(ctx context.Context, trainerUserID uuid.UUID, input TrainerProfileInput) (*types.TrainerProfile, error) {
  handle := strings.TrimSpace(input.Handle)
  if handle == "" {
    return nil, fmt.Errorf("handle is required")
  }
  existing, err := ts.trainerRepo.GetByUserIDs(ctx, nil, []uuid.UUID{trainerUserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load trainer profile: %w", err)
  }

  var profile *types.TrainerProfile
  if len(existing) > 0 {
    profile = existing[0]
  } else {
    profile = &types.TrainerProfile{
      ID:     uuid.New(),
      UserID: trainerUserID,
    }
  }
  profile.Handle = handle
  profile.Headline = strings.TrimSpace(input.Headline)
  profile.Bio = input.Bio
  profile.City = strings.TrimSpace(input.City)
  profile.OffersRemote = input.OffersRemote
  profile.Specialties = jsonFromStrings(input.Specialties)
  profile.CoachingStyles = jsonFromStrings(input.CoachingStyles)
  profile.AvailableDays = jsonFromStrings(input.AvailableDays)
  profile.PackageWeeks = jsonFromInts(input.PackageWeeks)
  profile.PricePerSession = input.PricePerSession
  profile.ContactEmail = strings.TrimSpace(input.ContactEmail)
  profile.ContactPhone = strings.TrimSpace(input.ContactPhone)
  profile.Accepting = input.Accepting

  if len(existing) > 0 {
    if err := ts.trainerRepo.Update(ctx, nil, profile); err != nil {
      return nil, fmt.Errorf("Failed to update trainer profile: %w", err)
    }
    return profile, nil
  }
  if _, err := ts.trainerRepo.Create(ctx, nil, []*types.TrainerProfile{profile}); err != nil {
    return nil, fmt.Errorf("Failed to create trainer profile: %w", err)
  }
  return profile, nil
}

func (ts *trainerService) GetMyProfile(ctx context.Context, trainerUserID uuid.UUID) (*types.TrainerProfile, error) {
  profiles, err := ts.trainerRepo.GetByUserIDs(ctx, nil, []uuid.UUID{trainerUserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load trainer profile: %w", err)
  }
  if len(profiles) == 0 {
    return nil, fmt.Errorf("trainer profile not found")
  }
  return profiles[0], nil
}

// Browse returns the accepting trainers the client is allowed to see, each
// shaped through the visibility gate for that client's stage with the trainer
// and carrying the match score. Undiscovered trainers under min_match_to_show
// (or hard-excluded) are dropped; trainers the client already engaged with
// past discovery always stay on the board.
func (ts *trainerService) Browse(ctx context.Context, clientID uuid.UUID) ([]*TrainerCard, error) {
  trainers, err := ts.trainerRepo.ListAccepting(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("Failed to list trainers: %w", err)
  }
  clientProfile, err := ts.clientProfileFor(ctx, clientID)
  if err != nil {
    return nil, err
  }
  stages, err := ts.stagesByTrainer(ctx, clientID)
  if err != nil {
    return nil, err
  }
  scores := ts.matchSvc.ScoreTrainers(ctx, clientProfile, trainers)
  matrix := ts.visibilitySvc.Snapshot(ctx)

  cards := make([]*TrainerCard, 0, len(trainers))
  for _, trainer := range trainers {
    if trainer.UserID == clientID {
      continue
    }
    stage := stages[trainer.UserID]
    match := scores[trainer.ID.String()]
    if engagement.GroupOf(stage) == engagement.GroupDiscovery && !match.Show {
      continue
    }
    cards = append(cards, ts.buildCard(trainer, stage, matrix, &match, nil))
  }
  sort.SliceStable(cards, func(i, j int) bool {
    if cards[i].Match == nil || cards[j].Match == nil {
      return cards[i].Match != nil
    }
    return cards[i].Match.Score > cards[j].Match.Score
  })
  return cards, nil
}

func (ts *trainerService) GetCard(ctx context.Context, clientID, trainerUserID uuid.UUID) (*TrainerCard, error) {
  profiles, err := ts.trainerRepo.GetByUserIDs(ctx, nil, []uuid.UUID{trainerUserID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load trainer profile: %w", err)
  }
  if len(profiles) == 0 {
    return nil, fmt.Errorf("trainer not found")
  }
  trainer := profiles[0]

  eng, err := ts.engagementRepo.GetByPair(ctx, nil, clientID, trainerUserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load engagement: %w", err)
  }
  stage := engagement.StageBrowsing
  if eng != nil {
    stage = engagement.Stage(eng.Stage)
  }

  clientProfile, err := ts.clientProfileFor(ctx, clientID)
  if err != nil {
    return nil, err
  }
  match := ts.matchSvc.ScoreTrainer(ctx, clientProfile, trainer)
  matrix := ts.visibilitySvc.Snapshot(ctx)

  var testimonials []*types.Testimonial
  if matrix.ForStage(visibility.ContentTestimonials, stage) != visibility.StateHidden {
    testimonials, err = ts.testimonialRepo.ListPublishedByTrainer(ctx, nil, trainerUserID)
    if err != nil {
      return nil, fmt.Errorf("Failed to load testimonials: %w", err)
    }
  }
  return ts.buildCard(trainer, stage, matrix, &match, testimonials), nil
}

// CreateTestimonial is limited to clients who actually worked with the
// trainer, meaning their engagement reached the chosen group.
func (ts *trainerService) CreateTestimonial(ctx context.Context, authorID, trainerUserID uuid.UUID, rating int, body string) (*types.Testimonial, error) {
  if rating < 1 || rating > 5 {
    return nil, fmt.Errorf("rating must be between 1 and 5")
  }
  if strings.TrimSpace(body) == "" {
    return nil, fmt.Errorf("testimonial body is required")
  }
  eng, err := ts.engagementRepo.GetByPair(ctx, nil, authorID, trainerUserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load engagement: %w", err)
  }
  if eng == nil || engagement.GroupOf(engagement.Stage(eng.Stage)) != engagement.GroupChosen {
    return nil, fmt.Errorf("only active or past clients can leave a testimonial")
  }
  testimonial := &types.Testimonial{
    ID:        uuid.New(),
    TrainerID: trainerUserID,
    AuthorID:  authorID,
    Rating:    rating,
    Body:      strings.TrimSpace(body),
    Published: true,
  }
  if _, err := ts.testimonialRepo.Create(ctx, nil, []*types.Testimonial{testimonial}); err != nil {
    return nil, fmt.Errorf("Failed to create testimonial: %w", err)
  }
  ts.recomputeRating(ctx, trainerUserID)
  return testimonial, nil
}

// recomputeRating is best-effort; browse ordering self-heals on the next
// testimonial either way.
func (ts *trainerService) recomputeRating(ctx context.Context, trainerUserID uuid.UUID) {
  published, err := ts.testimonialRepo.ListPublishedByTrainer(ctx, nil, trainerUserID)
  if err != nil || len(published) == 0 {
    return
  }
  total := 0
  for _, t := range published {
    total += t.Rating
  }
  profiles, err := ts.trainerRepo.GetByUserIDs(ctx, nil, []uuid.UUID{trainerUserID})
  if err != nil || len(profiles) == 0 {
    return
  }
  profile := profiles[0]
  profile.Rating = float64(total) / float64(len(published))
  profile.RatingCount = len(published)
  if err := ts.trainerRepo.Update(ctx, nil, profile); err != nil {
    ts.log.Warn("Failed to update trainer rating", "trainerUserID", trainerUserID, "error", err)
  }
}

func (ts *trainerService) clientProfileFor(ctx context.Context, clientID uuid.UUID) (*types.ClientProfile, error) {
  profiles, err := ts.clientRepo.GetByUserIDs(ctx, nil, []uuid.UUID{clientID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load client profile: %w", err)
  }
  if len(profiles) == 0 {
    return nil, nil
  }
  return profiles[0], nil
}

func (ts *trainerService) stagesByTrainer(ctx context.Context, clientID uuid.UUID) (map[uuid.UUID]engagement.Stage, error) {
  engagements, err := ts.engagementRepo.ListByClient(ctx, nil, clientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list engagements: %w", err)
  }
  stages := make(map[uuid.UUID]engagement.Stage, len(engagements))
  for _, eng := range engagements {
    stages[eng.TrainerID] = engagement.Stage(eng.Stage)
  }
  return stages, nil
}

// buildCard applies the visibility gate. A hidden field never leaves the
// server; a blurred field keeps its value with a marker.
func (ts *trainerService) buildCard(trainer *types.TrainerProfile, stage engagement.Stage, matrix visibility.Matrix, match *matching.Result, testimonials []*types.Testimonial) *TrainerCard {
  if stage == "" {
    stage = engagement.StageBrowsing
  }
  names := visibility.NameFields{Handle: trainer.Handle}
  if trainer.User != nil {
    names.FirstName = trainer.User.FirstName
    names.LastName = trainer.User.LastName
  }
  nameState := matrix.ForStage(visibility.ContentName, stage)

  card := &TrainerCard{
    TrainerUserID:  trainer.UserID,
    ProfileID:      trainer.ID,
    DisplayName:    visibility.DisplayName(names, stage, nameState),
    Stage:          string(stage),
    StageGroup:     string(engagement.GroupOf(stage)),
    Headline:       trainer.Headline,
    City:           trainer.City,
    OffersRemote:   trainer.OffersRemote,
    Specialties:    stringsFromJSON(trainer.Specialties),
    CoachingStyles: stringsFromJSON(trainer.CoachingStyles),
    AvailableDays:  stringsFromJSON(trainer.AvailableDays),
    Accepting:      trainer.Accepting,
    Match:          match,
  }

  photoValue := ""
  if trainer.User != nil {
    photoValue = trainer.User.AvatarURL
  }
  if trainer.PhotoURL != "" {
    photoValue = trainer.PhotoURL
  }
  card.Photo = gatedField(matrix.ForStage(visibility.ContentPhoto, stage), photoValue)
  card.Rating = gatedField(matrix.ForStage(visibility.ContentRating, stage), map[string]any{
    "rating": trainer.Rating,
    "count":  trainer.RatingCount,
  })
  card.Pricing = gatedField(matrix.ForStage(visibility.ContentPricing, stage), map[string]any{
    "price_per_session": trainer.PricePerSession,
    "package_weeks":     intsFromJSON(trainer.PackageWeeks),
  })
  card.Bio = gatedField(matrix.ForStage(visibility.ContentBio, stage), trainer.Bio)
  card.Contact = gatedField(matrix.ForStage(visibility.ContentContact, stage), map[string]any{
    "email": trainer.ContactEmail,
    "phone": trainer.ContactPhone,
  })
  if testimonials != nil {
    card.Testimonials = gatedField(matrix.ForStage(visibility.ContentTestimonials, stage), testimonials)
  }
  return card
}

func gatedField(state visibility.State, value any) *GatedField {
  if state == visibility.StateHidden {
    return nil
  }
  return &GatedField{State: string(state), Value: value}
}
