// Package cache provides a Redis read-through cache in front of the lobby repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/repository"
)

// DefaultPrefix namespaces lobby keys in a shared Redis.
const DefaultPrefix = "lobbies:lobby:"

// Stats tracks cache statistics.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Deletes uint64 `json:"deletes"`
	Errors  uint64 `json:"errors"`
}

// LobbyRepository caches FindByID results in Redis. Writes go to the inner
// repository first and then drop the cached copy, whether or not they succeeded. Redis failures are logged
// and never surface to callers.
type LobbyRepository struct {
	repository.LobbyRepository

	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
	stats  Stats
}

// NewLobbyRepository wraps inner with a Redis cache.
func NewLobbyRepository(inner repository.LobbyRepository, client *redis.Client, prefix string, ttl time.Duration) *LobbyRepository {
	if inner == nil || client == nil {
		panic("cache.NewLobbyRepository requires an inner repository and a redis client")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LobbyRepository{
		LobbyRepository: inner,
		client:          client,
		prefix:          prefix,
		ttl:             ttl,
	}
}

func (r *LobbyRepository) key(id uint) string {
	return r.prefix + strconv.FormatUint(uint64(id), 10)
}

// FindByID returns the cached lobby or loads it from the inner repository.
// Concurrent misses for the same id share one load.
func (r *LobbyRepository) FindByID(ctx context.Context, id uint) (*models.Lobby, error) {
	key := r.key(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var lobby models.Lobby
		if err := json.Unmarshal(data, &lobby); err == nil {
			atomic.AddUint64(&r.stats.Hits, 1)
			return &lobby, nil
		}
		r.fail(err, key, "Dropping undecodable cache entry")
		r.client.Del(ctx, key)
	case errors.Is(err, redis.Nil):
	default:
		r.fail(err, key, "Cache read failed")
	}
	atomic.AddUint64(&r.stats.Misses, 1)

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		lobby, err := r.LobbyRepository.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(lobby); err != nil {
			r.fail(err, key, "Cache encode failed")
		} else if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.fail(err, key, "Cache write failed")
		}
		return lobby, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers mutate the result, so every waiter gets its own copy.
	shared := v.(*models.Lobby)
	lobby := *shared
	lobby.Members = append([]models.LobbyMember(nil), shared.Members...)
	return &lobby, nil
}

// Save writes through to the inner repository and invalidates the cached lobby.
// The key is dropped on failure too: a version conflict means the cached copy
// may be the stale one, and keeping it would fail every reload and retry.
func (r *LobbyRepository) Save(ctx context.Context, lobby *models.Lobby) error {
	err := r.LobbyRepository.Save(ctx, lobby)
	if lobby.ID != 0 {
		r.invalidate(ctx, lobby.ID)
	}
	return err
}

// Delete removes the lobby from the inner repository and the cache.
func (r *LobbyRepository) Delete(ctx context.Context, id uint) error {
	err := r.LobbyRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

// Stats returns a snapshot of the cache counters.
func (r *LobbyRepository) Stats() Stats {
	return Stats{
		Hits:    atomic.LoadUint64(&r.stats.Hits),
		Misses:  atomic.LoadUint64(&r.stats.Misses),
		Deletes: atomic.LoadUint64(&r.stats.Deletes),
		Errors:  atomic.LoadUint64(&r.stats.Errors),
	}
}

func (r *LobbyRepository) invalidate(ctx context.Context, id uint) {
	key := r.key(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.fail(err, key, "Cache invalidation failed")
		return
	}
	atomic.AddUint64(&r.stats.Deletes, 1)
}

func (r *LobbyRepository) fail(err error, key, msg string) {
	atomic.AddUint64(&r.stats.Errors, 1)
	logrus.WithError(err).WithField("key", key).Warn(msg)
}
