package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// RedisStore keeps observations in one sorted set per location, scored by
// the observation time in unix microseconds. Range bounds are therefore
// compared at microsecond granularity. Retention matches MemoryStore: the
// oldest snapshots beyond maxHistory or older than maxAge are dropped, but
// the newest snapshot of a location always survives.
type RedisStore struct {
	rdb        *redis.Client
	maxHistory int
	maxAge     time.Duration

	now func() time.Time
}

func NewRedisStore(rdb *redis.Client, maxHistory int, maxAge time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, maxHistory: maxHistory, maxAge: maxAge, now: time.Now}
}

func observationKey(loc weather.Location) string { return "weather:observations:" + loc.Key() }

func score(t time.Time) int64 { return t.UnixMicro() }

func (s *RedisStore) SaveSnapshot(ctx context.Context, loc weather.Location, snapshot weather.Snapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := observationKey(loc)
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(score(snapshot.ObservedAt)), Member: b})
	if s.maxHistory > 0 {
		pipe.ZRemRangeByRank(ctx, key, 0, int64(-s.maxHistory-1))
	}
	newest := pipe.ZRevRangeWithScores(ctx, key, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save observation: %w", err)
	}

	if s.maxAge <= 0 {
		return nil
	}
	top := newest.Val()
	if len(top) == 0 {
		return nil
	}
	// Never cut above the newest score, so the latest snapshot is kept.
	bound := score(s.now().Add(-s.maxAge))
	if newestScore := int64(top[0].Score); newestScore < bound {
		bound = newestScore
	}
	if err := s.rdb.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(bound, 10)).Err(); err != nil {
		return fmt.Errorf("trim observations: %w", err)
	}
	return nil
}

func (s *RedisStore) GetLatest(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	members, err := s.rdb.ZRevRange(ctx, observationKey(loc), 0, 0).Result()
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("load latest observation: %w", err)
	}
	if len(members) == 0 {
		return weather.Snapshot{}, ErrNotFound
	}
	return decodeSnapshot(members[0])
}

// GetRange returns the snapshots observed within [from, to], oldest first.
func (s *RedisStore) GetRange(ctx context.Context, loc weather.Location, from, to time.Time) ([]weather.Snapshot, error) {
	members, err := s.rdb.ZRangeByScore(ctx, observationKey(loc), &redis.ZRangeBy{
		Min: strconv.FormatInt(score(from), 10),
		Max: strconv.FormatInt(score(to), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrNotFound
	}

	result := make([]weather.Snapshot, 0, len(members))
	for _, m := range members {
		snap, err := decodeSnapshot(m)
		if err != nil {
			return nil, err
		}
		result = append(result, snap)
	}
	return result, nil
}

func decodeSnapshot(member string) (weather.Snapshot, error) {
	var snap weather.Snapshot
	if err := json.Unmarshal([]byte(member), &snap); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode observation: %w", err)
	}
	return snap, nil
}
