package services

import (
  "context"
  "testing"
  "time"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/requestdata"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

func newAuthService(t *testing.T) AuthService {
  t.Helper()
  database := newTestDB(t, &types.User{}, &types.UserToken{}, &types.Membership{})
  log := testLogger(t)
  return NewAuthService(
    database,
    log,
    repos.NewUserRepo(database, log),
    repos.NewUserTokenRepo(database, log),
    repos.NewMembershipRepo(database, log),
    nil,
    "test-secret",
    time.Hour,
    24*time.Hour,
  )
}

func registeredUser(t *testing.T, svc AuthService, email string) *types.User {
  t.Helper()
  user := &types.User{
    Email:     email,
    Password:  "Str0ngPassw0rd!",
    Role:      types.RoleClient,
    FirstName: "Ada",
    LastName:  "Nguyen",
  }
  if err := svc.RegisterUser(context.Background(), user); err != nil {
    t.Fatalf("RegisterUser: %v", err)
  }
  return user
}

func TestRegisterUser(t *testing.T) {
  svc := newAuthService(t)
  ctx := context.Background()
  user := registeredUser(t, svc, "Ada@Example.com")

  if user.Email != "ada@example.com" {
    t.Errorf("email = %q, want normalized lowercase", user.Email)
  }
  if user.Password == "Str0ngPassw0rd!" {
    t.Error("password must be stored hashed")
  }

  // Duplicate email rejected.
  dup := &types.User{Email: "ada@example.com", Password: "Str0ngPassw0rd!", Role: types.RoleClient, FirstName: "A", LastName: "B"}
  if err := svc.RegisterUser(ctx, dup); err == nil {
    t.Error("duplicate email should be rejected")
  }

  // Nobody self-registers as admin.
  admin := &types.User{Email: "root@example.com", Password: "Str0ngPassw0rd!", Role: types.RoleAdmin, FirstName: "A", LastName: "B"}
  if err := svc.RegisterUser(ctx, admin); err == nil {
    t.Error("admin self-registration should be rejected")
  }

  weak := &types.User{Email: "weak@example.com", Password: "short", Role: types.RoleClient, FirstName: "A", LastName: "B"}
  if err := svc.RegisterUser(ctx, weak); err == nil {
    t.Error("weak password should be rejected")
  }
}

func TestRegisterUserCreatesActiveMembership(t *testing.T) {
  database := newTestDB(t, &types.User{}, &types.UserToken{}, &types.Membership{})
  log := testLogger(t)
  membershipRepo := repos.NewMembershipRepo(database, log)
  svc := NewAuthService(database, log, repos.NewUserRepo(database, log), repos.NewUserTokenRepo(database, log), membershipRepo, nil, "test-secret", time.Hour, 24*time.Hour)
  ctx := context.Background()

  user := &types.User{Email: "m@example.com", Password: "Str0ngPassw0rd!", Role: types.RoleTrainer, FirstName: "A", LastName: "B"}
  if err := svc.RegisterUser(ctx, user); err != nil {
    t.Fatalf("RegisterUser: %v", err)
  }
  membership, err := membershipRepo.GetByUserID(ctx, nil, user.ID)
  if err != nil {
    t.Fatalf("GetByUserID: %v", err)
  }
  if membership == nil || membership.Status != types.MembershipActive {
    t.Fatalf("membership = %+v, want active", membership)
  }
}

func TestLoginUser(t *testing.T) {
  svc := newAuthService(t)
  ctx := context.Background()
  registeredUser(t, svc, "login@example.com")

  access, refresh, err := svc.LoginUser(ctx, "login@example.com", "Str0ngPassw0rd!")
  if err != nil {
    t.Fatalf("LoginUser: %v", err)
  }
  if access == "" || refresh == "" {
    t.Fatal("login should return both tokens")
  }

  if _, _, err := svc.LoginUser(ctx, "login@example.com", "wrong-password"); err == nil {
    t.Error("wrong password should be rejected")
  }
  if _, _, err := svc.LoginUser(ctx, "nobody@example.com", "Str0ngPassw0rd!"); err == nil {
    t.Error("unknown email should be rejected")
  }
}

func TestSetContextFromToken(t *testing.T) {
  svc := newAuthService(t)
  ctx := context.Background()
  user := registeredUser(t, svc, "token@example.com")

  access, refresh, err := svc.LoginUser(ctx, "token@example.com", "Str0ngPassw0rd!")
  if err != nil {
    t.Fatalf("LoginUser: %v", err)
  }

  withData, err := svc.SetContextFromToken(ctx, access)
  if err != nil {
    t.Fatalf("SetContextFromToken: %v", err)
  }
  rd := requestdata.GetRequestData(withData)
  if rd == nil {
    t.Fatal("request data missing from context")
  }
  if rd.UserID != user.ID || rd.Role != string(types.RoleClient) {
    t.Errorf("request data = %+v, want the logged-in client", rd)
  }
  if rd.RefreshToken != refresh {
    t.Error("request data should carry the session's refresh token")
  }

  if _, err := svc.SetContextFromToken(ctx, "not-a-jwt"); err == nil {
    t.Error("garbage token should be rejected")
  }
  if _, err := svc.SetContextFromToken(ctx, ""); err == nil {
    t.Error("empty token should be rejected")
  }
}

func TestRefreshRotatesTokens(t *testing.T) {
  svc := newAuthService(t)
  ctx := context.Background()
  registeredUser(t, svc, "refresh@example.com")

  access, refresh, err := svc.LoginUser(ctx, "refresh@example.com", "Str0ngPassw0rd!")
  if err != nil {
    t.Fatalf("LoginUser: %v", err)
  }
  authed, err := svc.SetContextFromToken(ctx, access)
  if err != nil {
    t.Fatalf("SetContextFromToken: %v", err)
  }

  newAccess, newRefresh, err := svc.RefreshUser(authed)
  if err != nil {
    t.Fatalf("RefreshUser: %v", err)
  }
  if newRefresh == refresh {
    t.Error("refresh must rotate the refresh token")
  }
  if newAccess == "" {
    t.Error("refresh should mint a new access token")
  }

  // The old refresh token is gone; replaying the old session fails.
  if _, err := svc.SetContextFromToken(ctx, newAccess); err != nil {
    t.Fatalf("new access token rejected: %v", err)
  }
  if _, _, err := svc.RefreshUser(authed); err == nil {
    t.Error("replaying a rotated refresh token should fail")
  }
}

func TestLogoutDeletesSession(t *testing.T) {
  svc := newAuthService(t)
  ctx := context.Background()
  registeredUser(t, svc, "logout@example.com")

  access, _, err := svc.LoginUser(ctx, "logout@example.com", "Str0ngPassw0rd!")
  if err != nil {
    t.Fatalf("LoginUser: %v", err)
  }
  authed, err := svc.SetContextFromToken(ctx, access)
  if err != nil {
    t.Fatalf("SetContextFromToken: %v", err)
  }
  if err := svc.LogoutUser(authed); err != nil {
    t.Fatalf("LogoutUser: %v", err)
  }

  // Refresh is impossible without the stored session row.
  if _, _, err := svc.RefreshUser(authed); err == nil {
    t.Error("refresh after logout should fail")
  }
}
