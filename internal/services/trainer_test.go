package services

import (
  "context"
  "testing"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/engagement"
  "github.com/Not-Another-Coach/nac-backend/internal/matching"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
  "github.com/Not-Another-Coach/nac-backend/internal/visibility"
)

func gateTestMatrix() visibility.Matrix {
  m := make(visibility.Matrix)
  for _, group := range []engagement.StageGroup{
    engagement.GroupDiscovery, engagement.GroupSaved, engagement.GroupShortlisted,
    engagement.GroupWaitlist, engagement.GroupChosen,
  } {
    m[visibility.Key{Content: visibility.ContentName, Group: group}] = visibility.StateVisible
    m[visibility.Key{Content: visibility.ContentRating, Group: group}] = visibility.StateVisible
  }
  m[visibility.Key{Content: visibility.ContentPricing, Group: engagement.GroupDiscovery}] = visibility.StateHidden
  m[visibility.Key{Content: visibility.ContentPricing, Group: engagement.GroupSaved}] = visibility.StateBlurred
  m[visibility.Key{Content: visibility.ContentPricing, Group: engagement.GroupChosen}] = visibility.StateVisible
  m[visibility.Key{Content: visibility.ContentBio, Group: engagement.GroupChosen}] = visibility.StateVisible
  return m
}

func gateTestTrainer() *types.TrainerProfile {
  return &types.TrainerProfile{
    ID:              uuid.New(),
    UserID:          uuid.New(),
    Handle:          "coach_sam",
    Headline:        "Strength coach",
    Bio:             "Fifteen years under the bar.",
    City:            "Portland",
    PricePerSession: 90,
    Rating:          4.6,
    RatingCount:     12,
    Accepting:       true,
    User: &types.User{
      ID:        uuid.New(),
      FirstName: "Sam",
      LastName:  "Rivera",
      AvatarURL: "https://cdn.example.com/avatars/sam.png",
    },
  }
}

func TestBuildCardHidesAndBlurs(t *testing.T) {
  ts := &trainerService{log: testLogger(t)}
  matrix := gateTestMatrix()
  trainer := gateTestTrainer()

  // Browsing: pricing hidden, bio unlisted in the matrix so it fails closed.
  card := ts.buildCard(trainer, engagement.StageBrowsing, matrix, nil, nil)
  if card.Pricing != nil {
    t.Error("hidden pricing must not leave the server")
  }
  if card.Bio != nil {
    t.Error("bio with no matrix entry must fail closed")
  }
  if card.Rating == nil || card.Rating.State != "visible" {
    t.Error("rating should be visible while browsing")
  }

  // Saved: pricing blurred, value still present with the marker.
  card = ts.buildCard(trainer, engagement.StageSaved, matrix, nil, nil)
  if card.Pricing == nil {
    t.Fatal("blurred pricing should be present")
  }
  if card.Pricing.State != "blurred" {
    t.Errorf("pricing state = %s, want blurred", card.Pricing.State)
  }
  value, ok := card.Pricing.Value.(map[string]any)
  if !ok || value["price_per_session"] != 90.0 {
    t.Errorf("blurred pricing value = %v, want the real price for client-side obscuring", card.Pricing.Value)
  }

  // Chosen: everything listed as visible comes through.
  card = ts.buildCard(trainer, engagement.StageActiveClient, matrix, nil, nil)
  if card.Pricing == nil || card.Pricing.State != "visible" {
    t.Error("pricing should be visible for an active client")
  }
  if card.Bio == nil || card.Bio.Value != trainer.Bio {
    t.Error("bio should be visible for an active client")
  }
}

func TestBuildCardDisplayNameFollowsStage(t *testing.T) {
  ts := &trainerService{log: testLogger(t)}
  matrix := gateTestMatrix()
  trainer := gateTestTrainer()

  browsing := ts.buildCard(trainer, engagement.StageBrowsing, matrix, nil, nil)
  if browsing.DisplayName != "Sam R." {
    t.Errorf("browsing display name = %q, want Sam R.", browsing.DisplayName)
  }

  chosen := ts.buildCard(trainer, engagement.StageActiveClient, matrix, nil, nil)
  if chosen.DisplayName != "Sam Rivera" {
    t.Errorf("chosen display name = %q, want Sam Rivera", chosen.DisplayName)
  }

  // No matrix entry for name at all fails closed to the handle.
  anon := ts.buildCard(trainer, engagement.StageBrowsing, visibility.Matrix{}, nil, nil)
  if anon.DisplayName != "coach_sam" {
    t.Errorf("ungated display name = %q, want the handle", anon.DisplayName)
  }
}

func TestBuildCardDefaultsEmptyStageToBrowsing(t *testing.T) {
  ts := &trainerService{log: testLogger(t)}
  card := ts.buildCard(gateTestTrainer(), "", gateTestMatrix(), nil, nil)
  if card.Stage != string(engagement.StageBrowsing) {
    t.Errorf("stage = %s, want browsing", card.Stage)
  }
  if card.StageGroup != string(engagement.GroupDiscovery) {
    t.Errorf("stage group = %s, want discovery", card.StageGroup)
  }
}

func TestBuildCardPrefersProfilePhoto(t *testing.T) {
  ts := &trainerService{log: testLogger(t)}
  matrix := visibility.Matrix{
    {Content: visibility.ContentPhoto, Group: engagement.GroupDiscovery}: visibility.StateVisible,
  }

  trainer := gateTestTrainer()
  card := ts.buildCard(trainer, engagement.StageBrowsing, matrix, nil, nil)
  if card.Photo == nil || card.Photo.Value != trainer.User.AvatarURL {
    t.Error("avatar should back the photo when no profile photo is set")
  }

  trainer.PhotoURL = "https://cdn.example.com/photos/sam.jpg"
  card = ts.buildCard(trainer, engagement.StageBrowsing, matrix, nil, nil)
  if card.Photo == nil || card.Photo.Value != trainer.PhotoURL {
    t.Error("profile photo should win over the account avatar")
  }
}

func TestBuildCardCarriesMatchResult(t *testing.T) {
  ts := &trainerService{log: testLogger(t)}
  match := &matching.Result{Score: 72, Label: matching.LabelGood, Show: true}
  card := ts.buildCard(gateTestTrainer(), engagement.StageBrowsing, gateTestMatrix(), match, nil)
  if card.Match == nil || card.Match.Score != 72 {
    t.Errorf("card match = %+v, want score 72", card.Match)
  }
}

func newTestimonialService(t *testing.T) (TrainerService, repos.EngagementRepo) {
  t.Helper()
  database := newTestDB(t, &types.User{}, &types.TrainerProfile{}, &types.ClientProfile{}, &types.Engagement{}, &types.Testimonial{})
  log := testLogger(t)
  trainerRepo := repos.NewTrainerProfileRepo(database, log)
  clientRepo := repos.NewClientProfileRepo(database, log)
  engagementRepo := repos.NewEngagementRepo(database, log)
  testimonialRepo := repos.NewTestimonialRepo(database, log)
  return NewTrainerService(log, trainerRepo, clientRepo, engagementRepo, testimonialRepo, nil, nil), engagementRepo
}

func TestCreateTestimonialRequiresChosenEngagement(t *testing.T) {
  svc, engagementRepo := newTestimonialService(t)
  ctx := context.Background()
  clientID := uuid.New()
  trainerUserID := uuid.New()

  if _, err := svc.CreateTestimonial(ctx, clientID, trainerUserID, 5, "Great coach"); err == nil {
    t.Fatal("testimonial without any engagement should be rejected")
  }

  if _, err := engagementRepo.Create(ctx, nil, []*types.Engagement{{
    ID:        uuid.New(),
    ClientID:  clientID,
    TrainerID: trainerUserID,
    Stage:     string(engagement.StageShortlisted),
  }}); err != nil {
    t.Fatalf("Create engagement: %v", err)
  }
  if _, err := svc.CreateTestimonial(ctx, clientID, trainerUserID, 5, "Great coach"); err == nil {
    t.Fatal("testimonial before the chosen group should be rejected")
  }

  eng, err := engagementRepo.GetByPair(ctx, nil, clientID, trainerUserID)
  if err != nil {
    t.Fatalf("GetByPair: %v", err)
  }
  eng.Stage = string(engagement.StageActiveClient)
  if err := engagementRepo.Update(ctx, nil, eng); err != nil {
    t.Fatalf("Update engagement: %v", err)
  }

  got, err := svc.CreateTestimonial(ctx, clientID, trainerUserID, 5, "Great coach")
  if err != nil {
    t.Fatalf("CreateTestimonial: %v", err)
  }
  if !got.Published || got.Rating != 5 {
    t.Fatalf("testimonial = %+v, want published with rating 5", got)
  }

  if _, err := svc.CreateTestimonial(ctx, clientID, trainerUserID, 6, "Great coach"); err == nil {
    t.Error("rating above 5 should be rejected")
  }
  if _, err := svc.CreateTestimonial(ctx, clientID, trainerUserID, 5, "   "); err == nil {
    t.Error("blank body should be rejected")
  }
}
