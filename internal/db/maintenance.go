package db

import (
  "context"
  "fmt"
  "time"
  "github.com/jackc/pgx/v5/pgxpool"
)

// Maintenance wraps the bulk SQL the platform used to run as stored
// procedures. These statements touch many rows at once, so they go through
// the pgx pool rather than GORM.
type Maintenance struct {
  pool *pgxpool.Pool
}

func NewMaintenance(pool *pgxpool.Pool) *Maintenance {
  return &Maintenance{pool: pool}
}

// ExpireWaitlistExclusivity drops engagements whose waitlist hold has lapsed
// back to discovery_completed and returns how many rows moved.
func (m *Maintenance) ExpireWaitlistExclusivity(ctx context.Context, now time.Time) (int64, error) {
  tag, err := m.pool.Exec(ctx, `
    UPDATE engagement
    SET stage = 'discovery_completed', waitlist_until = NULL, updated_at = $1
    WHERE stage = 'waitlist' AND waitlist_until IS NOT NULL AND waitlist_until < $1
  `, now)
  if err != nil {
    return 0, fmt.Errorf("Failed to expire waitlist exclusivity: %w", err)
  }
  return tag.RowsAffected(), nil
}

// ListExpiredWaitlistClients returns the client/trainer pairs affected by an
// expiry pass so callers can write notifications.
func (m *Maintenance) ListExpiredWaitlistClients(ctx context.Context, now time.Time) ([][2]string, error) {
  rows, err := m.pool.Query(ctx, `
    SELECT client_id::text, trainer_id::text
    FROM engagement
    WHERE stage = 'waitlist' AND waitlist_until IS NOT NULL AND waitlist_until < $1
  `, now)
  if err != nil {
    return nil, fmt.Errorf("Failed to list expired waitlist rows: %w", err)
  }
  defer rows.Close()
  var pairs [][2]string
  for rows.Next() {
    var clientID, trainerID string
    if err := rows.Scan(&clientID, &trainerID); err != nil {
      return nil, err
    }
    pairs = append(pairs, [2]string{clientID, trainerID})
  }
  return pairs, rows.Err()
}

// Ping verifies raw connectivity for the ops self-test.
func (m *Maintenance) Ping(ctx context.Context) error {
  return m.pool.Ping(ctx)
}
