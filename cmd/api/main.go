package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/Not-Another-Coach/nac-backend/internal/clients/gcs"
  "github.com/Not-Another-Coach/nac-backend/internal/clients/payments"
  redisclient "github.com/Not-Another-Coach/nac-backend/internal/clients/redis"
  "github.com/Not-Another-Coach/nac-backend/internal/db"
  "github.com/Not-Another-Coach/nac-backend/internal/handlers"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/observability"
  "github.com/Not-Another-Coach/nac-backend/internal/repos"
  "github.com/Not-Another-Coach/nac-backend/internal/server"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
  "github.com/Not-Another-Coach/nac-backend/internal/sse"
  "github.com/Not-Another-Coach/nac-backend/internal/utils"
  "github.com/Not-Another-Coach/nac-backend/internal/visibility"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "nac-backend",
    Environment: os.Getenv("APP_MODE"),
    Version:     os.Getenv("APP_VERSION"),
  })
  defer func() {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = otelShutdown(ctx)
  }()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  visibilityTTL := utils.GetEnvAsInt("VISIBILITY_CACHE_TTL_SECONDS", int(visibility.DefaultTTL.Seconds()), log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  defer postgresService.Close()
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  maintenance := db.NewMaintenance(postgresService.Pool())

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  trainerProfileRepo := repos.NewTrainerProfileRepo(thePG, log)
  clientProfileRepo := repos.NewClientProfileRepo(thePG, log)
  engagementRepo := repos.NewEngagementRepo(thePG, log)
  conversationRepo := repos.NewConversationRepo(thePG, log)
  testimonialRepo := repos.NewTestimonialRepo(thePG, log)
  matchingConfigRepo := repos.NewMatchingConfigRepo(thePG, log)
  visibilityDefaultRepo := repos.NewVisibilityDefaultRepo(thePG, log)
  membershipRepo := repos.NewMembershipRepo(thePG, log)
  notificationRepo := repos.NewNotificationRepo(thePG, log)

  // SSE + realtime clients
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewHub(log)

  eventBus, err := redisclient.NewEventBus(log)
  if err != nil {
    log.Warn("Could not init Redis event bus; realtime events stay local", "error", err)
    eventBus = nil
  } else {
    if err := eventBus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
      log.Warn("Could not start event bus forwarder", "error", err)
    }
  }

  presenceTracker, err := redisclient.NewPresenceTracker(log)
  if err != nil {
    log.Warn("Could not init presence tracker; presence endpoints disabled", "error", err)
    presenceTracker = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  bucketService, err := gcs.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService", "error", err)
    bucketService = nil
  }
  paymentsClient, err := payments.NewFromEnv(log)
  if err != nil {
    log.Warn("Could not init payments client; payment operations disabled", "error", err)
    paymentsClient = nil
  }

  broadcaster := services.NewBroadcaster(log, sseHub, eventBus)
  avatarService := services.NewAvatarService(log, bucketService)
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, membershipRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(log, userRepo, clientProfileRepo)
  notificationService := services.NewNotificationService(log, notificationRepo, broadcaster)
  visibilityService := services.NewVisibilityService(thePG, log, visibilityDefaultRepo, time.Duration(visibilityTTL)*time.Second)
  matchingConfigService := services.NewMatchingConfigService(thePG, log, matchingConfigRepo)
  matchService := services.NewMatchService(log, matchingConfigService)
  trainerService := services.NewTrainerService(log, trainerProfileRepo, clientProfileRepo, engagementRepo, testimonialRepo, visibilityService, matchService)
  engagementService := services.NewEngagementService(thePG, log, engagementRepo, notificationService, broadcaster)
  conversationService := services.NewConversationService(thePG, log, conversationRepo, engagementRepo, notificationService, broadcaster)
  presenceService := services.NewPresenceService(log, presenceTracker, broadcaster)
  membershipService := services.NewMembershipService(thePG, log, membershipRepo, notificationService, paymentsClient, maintenance)

  // Seeds
  if err := visibilityService.EnsureSeeded(context.Background()); err != nil {
    log.Warn("Could not seed visibility defaults", "error", err)
  }
  if err := matchingConfigService.EnsureSeeded(context.Background()); err != nil {
    log.Warn("Could not seed matching config", "error", err)
  }

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService, log)
  userHandler := handlers.NewUserHandler(userService, log)
  trainerHandler := handlers.NewTrainerHandler(trainerService, engagementService, log)
  engagementHandler := handlers.NewEngagementHandler(engagementService, log)
  conversationHandler := handlers.NewConversationHandler(conversationService, log)
  notificationHandler := handlers.NewNotificationHandler(notificationService, log)
  presenceHandler := handlers.NewPresenceHandler(presenceService, log)
  sseHandler := handlers.NewSSEHandler(sseHub, conversationService, log)
  membershipHandler := handlers.NewMembershipHandler(membershipService, log)
  matchingConfigHandler := handlers.NewMatchingConfigHandler(matchingConfigService, log)
  visibilityHandler := handlers.NewVisibilityHandler(visibilityService, log)
  opsHandler := handlers.NewOpsHandler(membershipService, visibilityService, maintenance, log)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterDeps{
    Log:                   log,
    AuthService:           authService,
    MembershipService:     membershipService,
    AuthHandler:           authHandler,
    UserHandler:           userHandler,
    TrainerHandler:        trainerHandler,
    EngagementHandler:     engagementHandler,
    ConversationHandler:   conversationHandler,
    NotificationHandler:   notificationHandler,
    PresenceHandler:       presenceHandler,
    SSEHandler:            sseHandler,
    MembershipHandler:     membershipHandler,
    MatchingConfigHandler: matchingConfigHandler,
    VisibilityHandler:     visibilityHandler,
    OpsHandler:            opsHandler,
    Maintenance:           maintenance,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
