package db

import (
  "context"
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/jackc/pgx/v5/pgxpool"
  "github.com/Not-Another-Coach/nac-backend/internal/logger"
  "github.com/Not-Another-Coach/nac-backend/internal/types"
  "github.com/Not-Another-Coach/nac-backend/internal/utils"
)

type PostgresService struct {
  db   *gorm.DB
  pool *pgxpool.Pool
  log  *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "nac", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  serviceLog.Info("Connecting to Postgres...")
  gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  // Separate pgx pool for the maintenance SQL the request path never runs.
  pool, err := pgxpool.New(context.Background(), dsn)
  if err != nil {
    serviceLog.Error("Failed to create pgx pool", "error", err)
    return nil, fmt.Errorf("Failed to create pgx pool: %w", err)
  }

  return &PostgresService{db: gdb, pool: pool, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.TrainerProfile{},
    &types.ClientProfile{},
    &types.Engagement{},
    &types.Conversation{},
    &types.Message{},
    &types.Testimonial{},
    &types.MatchingConfigVersion{},
    &types.VisibilityDefault{},
    &types.Membership{},
    &types.Notification{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

func (s *PostgresService) Pool() *pgxpool.Pool {
  return s.pool
}

func (s *PostgresService) Close() {
  if s.pool != nil {
    s.pool.Close()
  }
}
