package repository

import (
	"context"

	"playmatch/lobbies/internal/models"
)

// UserRepository reads and stores users.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// FindByIDs returns the users that exist, ordered by id. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
