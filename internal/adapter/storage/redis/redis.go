package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/langowen/kursbot/internal/entities"
)

const keyPrefix = "rates:"

// Снапшот живёт один календарный день, TTL страхует от забытых ключей.
const snapshotTTL = 24 * time.Hour

type Storage struct {
	rdb *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		rdb: client,
	}
}

func InitStorage(ctx context.Context, options *redis.Options) (*Storage, error) {
	const op = "storage.redis.InitStorage"

	redisClient := redis.NewClient(options)

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	storage := NewStorage(redisClient)

	return storage, nil
}

// Get returns the cached snapshot for a date, if any.
func (s *Storage) Get(ctx context.Context, date string) (entities.Snapshot, bool, error) {
	const op = "storage.redis.Get"

	data, err := s.rdb.Get(ctx, keyPrefix+date).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, op)
	}

	var snap entities.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, errors.Wrap(err, op)
	}

	return snap, true, nil
}

// Set stores the snapshot under the date key.
func (s *Storage) Set(ctx context.Context, date string, snap entities.Snapshot) error {
	const op = "storage.redis.Set"

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, op)
	}

	if err := s.rdb.Set(ctx, keyPrefix+date, data, snapshotTTL).Err(); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}
