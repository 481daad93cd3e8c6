package services

import (
  "context"
  "fmt"
  "strings"
  "github.com/google/uuid"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

// ClientProfileInput is the client-editable slice of their own preferences,
// feeding the matcher directly.
type ClientProfileInput struct {
  Goals            []string `json:"goals"`
  PreferredStyles  []string `json:"preferred_styles"`
  AvailableDays    []string `json:"available_days"`
  City             string   `json:"city"`
  BudgetPerSession float64  `json:"budget_per_session"`
  DesiredWeeks     int      `json:"desired_weeks"`
  Notes            string   `json:"notes"`
}

type UserService interface {
  GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
  UpdateName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error)
  GetClientProfile(ctx context.Context, userID uuid.UUID) (*types.ClientProfile, error)
  UpsertClientProfile(ctx context.Context, userID uuid.UUID, input ClientProfileInput) (*types.ClientProfile, error)
}

type userService struct {
  log        *logger.Logger
  userRepo   repos.UserRepo
  clientRepo repos.ClientProfileRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, clientRepo repos.ClientProfileRepo) UserService {
  return &userService{
    log:        log.With("service", "UserService"),
    userRepo:   userRepo,
    clientRepo: clientRepo,
  }
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("user not found")
  }
  return users[0], nil
}

func (us *userService) UpdateName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error) {
  firstName = strings.TrimSpace(firstName)
  lastName = strings.TrimSpace(lastName)
  if firstName == "" || lastName == "" {
    return nil, fmt.Errorf("first and last name are required")
  }
  user, err := us.GetByID(ctx, userID)
  if err != nil {
    return nil, err
  }
  user.FirstName = firstName
  user.LastName = lastName
  if err := us.userRepo.Update(ctx, nil, user); err != nil {
    return nil, fmt.Errorf("Failed to update user: %w", err)
  }
  return user, nil
}

func (us *userService) GetClientProfile(ctx context.Context, userID uuid.UUID) (*types.ClientProfile, error) {
  profiles, err := us.clientRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load client profile: %w", err)
  }
  if len(profiles) == 0 {
    return nil, fmt.Errorf("client profile not found")
  }
  return profiles[0], nil
}

func (us *userService) UpsertClientProfile(ctx context.Context, userID uuid.UUID, input ClientProfileInput) (*types.ClientProfile, error) {
  existing, err := us.clientRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load client profile: %w", err)
  }

  var profile *types.ClientProfile
  if len(existing) > 0 {
    profile = existing[0]
  } else {
    profile = &types.ClientProfile{
      ID:     uuid.New(),
      UserID: userID,
    }
  }
  profile.Goals = jsonFromStrings(input.Goals)
  profile.PreferredStyles = jsonFromStrings(input.PreferredStyles)
  profile.AvailableDays = jsonFromStrings(input.AvailableDays)
  profile.City = strings.TrimSpace(input.City)
  profile.BudgetPerSession = input.BudgetPerSession
  profile.DesiredWeeks = input.DesiredWeeks
  profile.Notes = input.Notes

  if len(existing) > 0 {
    if err := us.clientRepo.Update(ctx, nil, profile); err != nil {
      return nil, fmt.Errorf("Failed to update client profile: %w", err)
    }
    return profile, nil
  }
  if _, err := us.clientRepo.Create(ctx, nil, []*types.ClientProfile{profile}); err != nil {
    return nil, fmt.Errorf("Failed to create client profile: %w", err)
  }
  return profile, nil
}
