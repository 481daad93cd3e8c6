package server

import (
  "os"
  "strings"
  "time"
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/Not-Another-Coach/nac-backend/internal/db"
  "github.com/Not-Another-Coach/nac-backend/internal/handlers"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/middleware"
  "github.com/Not-Another-Coach/nac-backend/internal/services"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
)

type RouterDeps struct {
  Log               *logger.Logger
  AuthService       services.AuthService
  MembershipService services.MembershipService
  AuthHandler       *handlers.AuthHandler
  UserHandler       *handlers.UserHandler
  TrainerHandler    *handlers.TrainerHandler
  EngagementHandler *handlers.EngagementHandler
  ConversationHandler *handlers.ConversationHandler
  NotificationHandler *handlers.NotificationHandler
  PresenceHandler   *handlers.PresenceHandler
  SSEHandler        *handlers.SSEHandler
  MembershipHandler *handlers.MembershipHandler
  MatchingConfigHandler *handlers.MatchingConfigHandler
  VisibilityHandler *handlers.VisibilityHandler
  OpsHandler        *handlers.OpsHandler
  Maintenance       *db.Maintenance
}

func NewRouter(deps RouterDeps) *gin.Engine {
  if strings.EqualFold(os.Getenv("APP_MODE"), "production") {
    gin.SetMode(gin.ReleaseMode)
  }
  router := gin.New()
  router.Use(gin.Recovery())
  router.Use(otelgin.Middleware("nac-backend"))

  allowOrigins := strings.Split(os.Getenv("CORS_ALLOW_ORIGINS"), ",")
  if len(allowOrigins) == 1 && strings.TrimSpace(allowOrigins[0]) == "" {
    allowOrigins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
    AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Ops-Secret"},
    ExposeHeaders:    []string{"Content-Length"},
    AllowCredentials: true,
    MaxAge:           12 * time.Hour,
  }))

  router.GET("/healthz", handlers.Healthcheck)

  api := router.Group("/api/v1")

  auth := api.Group("/auth")
  {
    auth.POST("/register", deps.AuthHandler.Register)
    auth.POST("/login", deps.AuthHandler.Login)
  }

  authed := api.Group("")
  authed.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
  {
    authed.POST("/auth/refresh", deps.AuthHandler.Refresh)
    authed.POST("/auth/logout", deps.AuthHandler.Logout)

    authed.GET("/me", deps.UserHandler.GetMe)
    authed.PUT("/me", deps.UserHandler.UpdateMe)
    authed.GET("/me/membership", deps.MembershipHandler.GetMine)
    authed.POST("/me/membership/reactivate", deps.MembershipHandler.Reactivate)

    authed.GET("/notifications", deps.NotificationHandler.List)
    authed.POST("/notifications/read", deps.NotificationHandler.MarkRead)

    authed.GET("/events", deps.SSEHandler.Stream)

    authed.POST("/presence/join", deps.PresenceHandler.Join)
    authed.POST("/presence/leave", deps.PresenceHandler.Leave)
    authed.POST("/presence/heartbeat", deps.PresenceHandler.Heartbeat)
    authed.GET("/presence/online", deps.PresenceHandler.Online)
  }

  // Client surfaces: browsing, journey, messaging. Gated on an active or
  // grace membership; limited members fall back to the membership routes
  // above to reactivate.
  client := api.Group("")
  client.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
  client.Use(middleware.RequireRole(string(types.RoleClient)))
  client.Use(middleware.RequirePlatformAccess(deps.MembershipService))
  {
    client.GET("/me/profile", deps.UserHandler.GetClientProfile)
    client.PUT("/me/profile", deps.UserHandler.UpsertClientProfile)

    client.GET("/trainers", deps.TrainerHandler.Browse)
    client.GET("/trainers/:trainerID", deps.TrainerHandler.GetTrainer)
    client.POST("/trainers/:trainerID/testimonials", deps.TrainerHandler.CreateTestimonial)

    client.GET("/journey", deps.EngagementHandler.JourneyBoard)
    client.GET("/engagements/:trainerID", deps.EngagementHandler.Get)
    client.POST("/engagements/:trainerID/stage", deps.EngagementHandler.Transition)

    client.POST("/conversations", deps.ConversationHandler.Start)
  }

  // Messaging routes shared by both roles.
  messaging := api.Group("")
  messaging.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
  messaging.Use(middleware.RequirePlatformAccess(deps.MembershipService))
  {
    messaging.GET("/conversations", deps.ConversationHandler.List)
    messaging.GET("/conversations/:conversationID/messages", deps.ConversationHandler.ListMessages)
    messaging.POST("/conversations/:conversationID/messages", deps.ConversationHandler.SendMessage)
  }

  trainer := api.Group("/trainer")
  trainer.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
  trainer.Use(middleware.RequireRole(string(types.RoleTrainer)))
  {
    trainer.GET("/profile", deps.TrainerHandler.GetMyProfile)
    trainer.PUT("/profile", deps.TrainerHandler.UpsertMyProfile)
    trainer.GET("/engagements", deps.TrainerHandler.ListMyEngagements)
  }

  admin := api.Group("/admin")
  admin.Use(middleware.RequireAuth(deps.AuthService, deps.Log))
  admin.Use(middleware.RequireRole(string(types.RoleAdmin)))
  {
    admin.GET("/matching-config", deps.MatchingConfigHandler.List)
    admin.POST("/matching-config", deps.MatchingConfigHandler.CreateDraft)
    admin.GET("/matching-config/:versionID", deps.MatchingConfigHandler.Get)
    admin.PUT("/matching-config/:versionID", deps.MatchingConfigHandler.UpdateDraft)
    admin.POST("/matching-config/:versionID/publish", deps.MatchingConfigHandler.Publish)
    admin.POST("/matching-config/:versionID/discard", deps.MatchingConfigHandler.Discard)

    admin.GET("/visibility-defaults", deps.VisibilityHandler.ListDefaults)
    admin.PUT("/visibility-defaults", deps.VisibilityHandler.UpdateDefaults)
    admin.POST("/visibility-defaults/refresh", deps.VisibilityHandler.RefreshCache)
  }

  ops := api.Group("/ops")
  ops.Use(middleware.RequireOpsSecret(deps.Log))
  {
    ops.POST("/payments/retry", deps.OpsHandler.RetryPayments)
    ops.POST("/reminders/grace-period", deps.OpsHandler.SendGraceReminders)
    ops.POST("/waitlist/expire", deps.OpsHandler.ExpireWaitlists)
    ops.GET("/selftest", deps.OpsHandler.SelfTest)
  }

  return router
}
