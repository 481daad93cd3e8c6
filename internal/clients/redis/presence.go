package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Not-Another-Coach/nac-backend/internal/logger"
)

// PresenceTracker records which users are currently online in a Redis set
// with a per-member heartbeat key. Join is idempotent: set semantics make a
// duplicate join a no-op, so at-least-once delivery from clients is safe.
type PresenceTracker interface {
	Join(ctx context.Context, userID string) error
	Leave(ctx context.Context, userID string) error
	Heartbeat(ctx context.Context, userID string) error
	OnlineUserIDs(ctx context.Context) ([]string, error)
	IsOnline(ctx context.Context, userID string) (bool, error)
	Close() error
}

type presenceTracker struct {
	log     *logger.Logger
	rdb     *goredis.Client
	setKey  string
	ttl     time.Duration
}

const defaultPresenceTTL = 90 * time.Second

func NewPresenceTracker(log *logger.Logger) (PresenceTracker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &presenceTracker{
		log:    log.With("service", "PresenceTracker"),
		rdb:    rdb,
		setKey: "presence:online",
		ttl:    defaultPresenceTTL,
	}, nil
}

func (p *presenceTracker) Join(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID required")
	}
	pipe := p.rdb.TxPipeline()
	pipe.SAdd(ctx, p.setKey, userID)
	pipe.Set(ctx, p.memberKey(userID), "1", p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence join: %w", err)
	}
	return nil
}

func (p *presenceTracker) Leave(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID required")
	}
	pipe := p.rdb.TxPipeline()
	pipe.SRem(ctx, p.setKey, userID)
	pipe.Del(ctx, p.memberKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence leave: %w", err)
	}
	return nil
}

func (p *presenceTracker) Heartbeat(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID required")
	}
	return p.rdb.Set(ctx, p.memberKey(userID), "1", p.ttl).Err()
}

// OnlineUserIDs prunes members whose heartbeat key has expired before
// returning the set, so a crashed client eventually drops off.
func (p *presenceTracker) OnlineUserIDs(ctx context.Context) ([]string, error) {
	members, err := p.rdb.SMembers(ctx, p.setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("presence members: %w", err)
	}
	online := make([]string, 0, len(members))
	for _, member := range members {
		alive, err := p.rdb.Exists(ctx, p.memberKey(member)).Result()
		if err != nil {
			return nil, err
		}
		if alive > 0 {
			online = append(online, member)
			continue
		}
		if err := p.rdb.SRem(ctx, p.setKey, member).Err(); err != nil {
			p.log.Warn("Failed to prune stale presence member", "userID", member, "error", err)
		}
	}
	return online, nil
}

func (p *presenceTracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	alive, err := p.rdb.Exists(ctx, p.memberKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return alive > 0, nil
}

func (p *presenceTracker) memberKey(userID string) string {
	return "presence:hb:" + userID
}

func (p *presenceTracker) Close() error {
	return p.rdb.Close()
}
