package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// RedisStore keeps alerts in a sorted set scored by fire time, with the
// alert bodies in a hash. Alerts survive restarts and can be dispatched
// from any instance; claimScript decides which instance delivers each one.
type RedisStore struct {
	client    *redis.Client
	publisher event.Publisher
}

// claimScript atomically takes one due alert: it checks the member is
// still due, removes it and pops its payload. Returns nil when the alert
// was taken by another instance or rescheduled, "" when the payload is gone.
var claimScript = redis.NewScript(`
local score = redis.call('ZSCORE', KEYS[1], ARGV[1])
if not score or tonumber(score) > tonumber(ARGV[2]) then
	return false
end
redis.call('ZREM', KEYS[1], ARGV[1])
local data = redis.call('HGET', KEYS[2], ARGV[1])
redis.call('HDEL', KEYS[2], ARGV[1])
return data or ''
`)

// NewRedisStore dials addr and verifies the connection
func NewRedisStore(ctx context.Context, addr, password string, db int, publisher event.Publisher) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.FromContext(ctx).Info(LogMsgRedisConnected, "addr", addr)
	return NewRedisStoreWithClient(client, publisher), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, publisher event.Publisher) *RedisStore {
	return &RedisStore{client: client, publisher: publisher}
}

// ScheduleAlert arms an alert, replacing any prior alert with the same key
func (s *RedisStore) ScheduleAlert(ctx context.Context, alert Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	id := storeKey(alert.UserID, alert.Key)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, RedisKeyDue, redis.Z{Score: float64(alert.FireAt.UnixMilli()), Member: id})
		pipe.HSet(ctx, RedisKeyPayloads, id, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to schedule alert %s: %w", id, err)
	}

	logger.FromContext(ctx).Debug(LogMsgAlertScheduled, "key", alert.Key, "user_id", alert.UserID, "fire_at", alert.FireAt)
	return nil
}

// CancelAlert disarms an alert. Unknown keys are ignored.
func (s *RedisStore) CancelAlert(ctx context.Context, userID uuid.UUID, key string) error {
	id := storeKey(userID, key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, RedisKeyDue, id)
		pipe.HDel(ctx, RedisKeyPayloads, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cancel alert %s: %w", id, err)
	}
	logger.FromContext(ctx).Debug(LogMsgAlertCancelled, "key", key, "user_id", userID)
	return nil
}

// DispatchDue claims and publishes every alert due at now
func (s *RedisStore) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.client.ZRangeByScore(ctx, RedisKeyDue, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: RedisDispatchBatch,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read due alerts: %w", err)
	}

	log := logger.FromContext(ctx)
	fired := 0
	for _, id := range ids {
		data, claimed, err := s.claim(ctx, id, now)
		if err != nil {
			return fired, err
		}
		if !claimed {
			continue
		}
		if len(data) == 0 {
			log.Warn(LogMsgAlertPayloadMissing, "id", id)
			continue
		}

		var alert Alert
		if err := json.Unmarshal(data, &alert); err != nil {
			log.Warn(LogMsgAlertPayloadMissing, "id", id, "error", err)
			continue
		}

		fire(ctx, s.publisher, alert)
		fired++
	}
	return fired, nil
}

// claim takes the alert id if it is still due at now
func (s *RedisStore) claim(ctx context.Context, id string, now time.Time) ([]byte, bool, error) {
	res, err := claimScript.Run(ctx, s.client, []string{RedisKeyDue, RedisKeyPayloads}, id, now.UnixMilli()).Text()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to claim alert %s: %w", id, err)
	}
	return []byte(res), true, nil
}

// Pending returns the number of armed alerts
func (s *RedisStore) Pending(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, RedisKeyDue).Result()
}

// Ping checks connectivity, used by readiness probes
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
