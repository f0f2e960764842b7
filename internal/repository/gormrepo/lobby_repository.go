package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/repository"
)

// LobbyRepository is the GORM implementation of repository.LobbyRepository.
type LobbyRepository struct {
	db *gorm.DB
}

// NewLobbyRepository creates a LobbyRepository.
func NewLobbyRepository(db *gorm.DB) *LobbyRepository {
	if db == nil {
		panic("database connection cannot be nil for LobbyRepository")
	}
	return &LobbyRepository{db: db}
}

func preloadMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC, user_id ASC")
	})
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// FindByID loads a lobby with its membership set.
func (r *LobbyRepository) FindByID(ctx context.Context, id uint) (*models.Lobby, error) {
	var lobby models.Lobby
	err := preloadMembers(r.db.WithContext(ctx)).First(&lobby, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find lobby by id %d: %w", id, err)
	}
	return &lobby, nil
}

// Save creates or updates a lobby. Updates are guarded by the version column.
func (r *LobbyRepository) Save(ctx context.Context, lobby *models.Lobby) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if lobby.ID == 0 {
			return r.create(tx, lobby)
		}
		return r.update(tx, lobby)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateEntry
		}
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("gorm: save lobby (id: %d): %w", lobby.ID, err)
	}
	return nil
}

func (r *LobbyRepository) create(tx *gorm.DB, lobby *models.Lobby) error {
	lobby.Version = 1
	if err := tx.Omit(clause.Associations).Create(lobby).Error; err != nil {
		return err
	}
	return syncMembers(tx, lobby)
}

func (r *LobbyRepository) update(tx *gorm.DB, lobby *models.Lobby) error {
	now := time.Now()
	result := tx.Model(&models.Lobby{}).
		Where("id = ? AND version = ?", lobby.ID, lobby.Version).
		Updates(map[string]any{
			"name":              lobby.Name,
			"number_of_players": lobby.NumberOfPlayers,
			"voice_chat":        lobby.VoiceChat,
			"leader_id":         lobby.LeaderID,
			"leader_token":      lobby.LeaderToken,
			"number_of_bots":    lobby.NumberOfBots,
			"lobby_score":       lobby.LobbyScore,
			"is_private":        lobby.IsPrivate,
			"private_key":       lobby.PrivateKey,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Lobby{}).Where("id = ?", lobby.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}

	lobby.Version++
	lobby.UpdatedAt = now
	return syncMembers(tx, lobby)
}

// syncMembers makes the stored membership rows equal to lobby.Members.
func syncMembers(tx *gorm.DB, lobby *models.Lobby) error {
	ids := lobby.MemberIDs()

	stale := tx.Where("lobby_id = ?", lobby.ID)
	if len(ids) > 0 {
		stale = stale.Where("user_id NOT IN ?", ids)
	}
	if err := stale.Delete(&models.LobbyMember{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	for i := range lobby.Members {
		lobby.Members[i].LobbyID = lobby.ID
		if lobby.Members[i].JoinedAt.IsZero() {
			lobby.Members[i].JoinedAt = time.Now()
		}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lobby.Members).Error
}

// List returns a page of lobbies, newest first.
func (r *LobbyRepository) List(ctx context.Context, opts repository.ListOptions) ([]models.Lobby, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Lobby{})
	if !opts.IncludePrivate {
		query = query.Where("is_private = ?", false)
	}

	lobbies, total, err := paginate[models.Lobby](query, opts, preloadMembers, newestFirst)
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: list lobbies: %w", err)
	}
	return lobbies, total, nil
}

// Delete removes a lobby and its membership rows.
func (r *LobbyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lobby_id = ?", id).Delete(&models.LobbyMember{}).Error; err != nil {
			return fmt.Errorf("gorm: delete members of lobby %d: %w", id, err)
		}
		result := tx.Delete(&models.Lobby{}, id)
		if result.Error != nil {
			return fmt.Errorf("gorm: delete lobby %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// PrivateKeyExists reports whether a lobby already uses key.
func (r *LobbyRepository) PrivateKeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lobby{}).Where("private_key = ?", key).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count lobbies by private key: %w", err)
	}
	return count > 0, nil
}
