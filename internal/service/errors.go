package service

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of them so callers can
// branch on either level with errors.Is.
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

var (
	ErrLobbyNotFound = fmt.Errorf("lobby %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrNotMember     = fmt.Errorf("user is not a member of the lobby: %w", ErrNotFound)

	ErrInvalidPlayerCount = fmt.Errorf("invalid number of players: %w", ErrConflict)
	ErrInvalidBotCount    = fmt.Errorf("invalid number of bots: %w", ErrConflict)
	ErrLobbyFull          = fmt.Errorf("lobby is full: %w", ErrConflict)
	ErrAlreadyMember      = fmt.Errorf("user is already a member of the lobby: %w", ErrConflict)
	ErrConcurrentUpdate   = fmt.Errorf("lobby was modified concurrently, reload and retry: %w", ErrConflict)
	ErrNoEligibleLeader   = fmt.Errorf("no remaining member can take over the lobby: %w", ErrConflict)

	ErrUnauthorized         = errors.New("token does not belong to the lobby leader")
	ErrInvalidPrivateKey    = errors.New("invalid private key")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username already exists")
	ErrInternalServer       = errors.New("internal server error")
)
