package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/repository"
	"playmatch/lobbies/internal/repository/mocks"
)

// setupTestCache requires Redis on localhost:6379 (or TEST_REDIS_ADDR) and skips otherwise.
func setupTestCache(t *testing.T) (*LobbyRepository, *mocks.LobbyRepository) {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	prefix := "test:" + t.Name() + ":"
	inner := mocks.NewLobbyRepository(t)
	repo := NewLobbyRepository(inner, client, prefix, time.Minute)

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return repo, inner
}

func sampleLobby() *models.Lobby {
	bots := 1
	return &models.Lobby{
		ID:              4,
		Name:            "cached",
		NumberOfPlayers: 4,
		LeaderID:        1,
		LeaderToken:     "tok",
		NumberOfBots:    &bots,
		Version:         2,
		Members:         []models.LobbyMember{{LobbyID: 4, UserID: 1}},
	}
}

func TestNewLobbyRepository_Defaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	repo := NewLobbyRepository(mocks.NewLobbyRepository(t), client, "", 0)

	assert.Equal(t, DefaultPrefix, repo.prefix)
	assert.Equal(t, 5*time.Minute, repo.ttl)
	assert.Equal(t, DefaultPrefix+"12", repo.key(12))
	assert.Panics(t, func() { NewLobbyRepository(nil, client, "", 0) })
}

func TestLobbyRepository_FindByIDCachesResult(t *testing.T) {
	repo, inner := setupTestCache(t)
	ctx := context.Background()
	inner.On("FindByID", mock.Anything, uint(4)).Return(sampleLobby(), nil).Once()

	first, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, []uint{1}, second.MemberIDs())
	require.NotNil(t, second.NumberOfBots)
	assert.Equal(t, 1, *second.NumberOfBots)
	assert.Equal(t, uint(2), second.Version)

	stats := repo.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestLobbyRepository_SaveInvalidates(t *testing.T) {
	repo, inner := setupTestCache(t)
	ctx := context.Background()
	lobby := sampleLobby()
	inner.On("FindByID", mock.Anything, uint(4)).Return(lobby, nil).Twice()
	inner.On("Save", mock.Anything, lobby).Return(nil).Once()

	_, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, lobby))
	_, err = repo.FindByID(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), repo.Stats().Misses)
}

func TestLobbyRepository_VersionConflictDropsStaleEntry(t *testing.T) {
	repo, inner := setupTestCache(t)
	ctx := context.Background()

	// A reader cached version 2 while another writer already committed version 3.
	stale := sampleLobby()
	fresh := sampleLobby()
	fresh.Version = 3
	inner.On("FindByID", mock.Anything, uint(4)).Return(stale, nil).Once()
	inner.On("Save", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict).Once()
	inner.On("FindByID", mock.Anything, uint(4)).Return(fresh, nil).Once()

	loaded, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, loaded), repository.ErrVersionConflict)

	reloaded, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint(3), reloaded.Version)
	assert.Equal(t, uint64(2), repo.Stats().Misses)
	assert.Equal(t, uint64(0), repo.Stats().Hits)
}

func TestLobbyRepository_FailedDeleteStillInvalidates(t *testing.T) {
	repo, inner := setupTestCache(t)
	ctx := context.Background()
	inner.On("FindByID", mock.Anything, uint(4)).Return(sampleLobby(), nil).Twice()
	inner.On("Delete", mock.Anything, uint(4)).Return(errors.New("connection reset")).Once()

	_, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Error(t, repo.Delete(ctx, 4))

	_, err = repo.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), repo.Stats().Misses)
}

func TestLobbyRepository_CreateSkipsInvalidation(t *testing.T) {
	repo, inner := setupTestCache(t)
	lobby := sampleLobby()
	lobby.ID = 0
	inner.On("Save", mock.Anything, lobby).Return(errors.New("insert failed")).Once()

	assert.Error(t, repo.Save(context.Background(), lobby))
	assert.Equal(t, uint64(0), repo.Stats().Deletes)
}

func TestLobbyRepository_NotFoundIsNotCached(t *testing.T) {
	repo, inner := setupTestCache(t)
	inner.On("FindByID", mock.Anything, uint(9)).Return(nil, repository.ErrNotFound).Twice()

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLobbyRepository_DeleteInvalidates(t *testing.T) {
	repo, inner := setupTestCache(t)
	ctx := context.Background()
	inner.On("FindByID", mock.Anything, uint(4)).Return(sampleLobby(), nil).Once()
	inner.On("Delete", mock.Anything, uint(4)).Return(nil).Once()
	inner.On("FindByID", mock.Anything, uint(4)).Return(nil, repository.ErrNotFound).Once()

	_, err := repo.FindByID(ctx, 4)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, 4))

	_, err = repo.FindByID(ctx, 4)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLobbyRepository_ReturnsCopies(t *testing.T) {
	repo, inner := setupTestCache(t)
	inner.On("FindByID", mock.Anything, uint(4)).Return(sampleLobby(), nil).Once()

	first, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	first.AddMember(99)

	second, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, second.HasMember(99))
}
