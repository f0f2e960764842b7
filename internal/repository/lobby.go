package repository

import (
	"context"

	"playmatch/lobbies/internal/models"
)

// ListOptions selects a page of lobbies.
type ListOptions struct {
	Page  int
	Limit int
	// IncludePrivate also returns lobbies that require a private key.
	IncludePrivate bool
}

// Offset is the number of rows skipped before the page starts.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// LobbyRepository stores lobbies and their membership sets.
type LobbyRepository interface {
	// Save creates the lobby when its ID is zero and assigns the ID. Otherwise
	// it updates the row guarded by lobby.Version, bumps the version and
	// replaces the stored membership set with lobby.Members. A stale version
	// yields ErrVersionConflict.
	Save(ctx context.Context, lobby *models.Lobby) error

	// FindByID returns ErrNotFound when no lobby has the id.
	FindByID(ctx context.Context, id uint) (*models.Lobby, error)

	// List returns one page of lobbies, newest first, and the total count.
	List(ctx context.Context, opts ListOptions) ([]models.Lobby, int64, error)

	// Delete removes the lobby and its memberships.
	Delete(ctx context.Context, id uint) error

	// PrivateKeyExists reports whether any lobby already uses key.
	PrivateKeyExists(ctx context.Context, key string) (bool, error)
}
