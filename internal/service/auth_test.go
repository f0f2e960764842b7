package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/repository"
	"playmatch/lobbies/internal/repository/mocks"
	"playmatch/lobbies/internal/service"
	"playmatch/lobbies/pkg/jwt"
)

const testSecret = "very-secret-key"

func newAuthService(t *testing.T) (*service.AuthService, *mocks.UserRepository) {
	users := mocks.NewUserRepository(t)
	svc, err := service.NewAuthService(users, testSecret, time.Hour)
	require.NoError(t, err)
	return svc, users
}

func storedUser(t *testing.T, id uint, username, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{Model: gormModel(id), Username: username, PasswordHash: string(hash), Status: models.StatusOffline}
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := service.NewAuthService(mocks.NewUserRepository(t), "", time.Hour)
	assert.Error(t, err)
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	users.On("Save", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "newbie" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("StrongPass123")) == nil
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 5
		}).
		Return(nil).
		Once()

	user, token, err := svc.Register(ctx, " newbie ", "StrongPass123")

	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)
	assert.Equal(t, models.StatusOnline, user.Status)
	assert.NotEmpty(t, user.SessionToken())

	id, err := jwt.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, users := newAuthService(t)
	users.On("Save", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEntry).Once()

	_, _, err := svc.Register(context.Background(), "existing", "pw")

	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Register(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, _, err = svc.Register(context.Background(), "name", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()
	user := storedUser(t, 3, "Flacko", "secret")
	users.On("FindByUsername", ctx, "Flacko").Return(user, nil).Once()
	users.On("Save", ctx, user).Return(nil).Once()

	got, token, err := svc.Login(ctx, "Flacko", "secret")

	require.NoError(t, err)
	assert.Equal(t, models.StatusOnline, got.Status)
	assert.NotEmpty(t, got.SessionToken(), "a session token is minted on first login")
	id, err := jwt.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
}

func TestAuthService_Login_KeepsExistingSessionToken(t *testing.T) {
	svc, users := newAuthService(t)
	user := storedUser(t, 3, "Flacko", "secret")
	existing := "session-1"
	user.Token = &existing
	users.On("FindByUsername", mock.Anything, "Flacko").Return(user, nil).Once()
	users.On("Save", mock.Anything, user).Return(nil).Once()

	got, _, err := svc.Login(context.Background(), "Flacko", "secret")

	require.NoError(t, err)
	assert.Equal(t, "session-1", got.SessionToken())
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name     string
		findUser *models.User
		findErr  error
		password string
	}{
		{"unknown user", nil, repository.ErrNotFound, "secret"},
		{"repository failure", nil, errors.New("db down"), "secret"},
		{"wrong password", storedUser(t, 3, "Flacko", "secret"), nil, "guess"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users := newAuthService(t)
			users.On("FindByUsername", mock.Anything, "Flacko").Return(tt.findUser, tt.findErr).Once()

			_, _, err := svc.Login(context.Background(), "Flacko", tt.password)

			assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, users := newAuthService(t)
	user := storedUser(t, 3, "Flacko", "secret")
	user.Status = models.StatusOnline
	users.On("FindByID", mock.Anything, uint(3)).Return(user, nil).Once()
	users.On("Save", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Status == models.StatusOffline
	})).Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), 3))
}

func TestAuthService_Logout_UnknownUser(t *testing.T) {
	svc, users := newAuthService(t)
	users.On("FindByID", mock.Anything, uint(3)).Return(nil, repository.ErrNotFound).Once()

	err := svc.Logout(context.Background(), 3)

	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, users := newAuthService(t)
	user := storedUser(t, 8, "Bunny", "pw")
	users.On("FindByID", mock.Anything, uint(8)).Return(user, nil).Once()
	token, err := jwt.GenerateToken(8, testSecret, time.Minute)
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "Bunny", got.Username)
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	svc, users := newAuthService(t)
	foreign, err := jwt.GenerateToken(8, "other-secret", time.Minute)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), foreign)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)

	orphan, err := jwt.GenerateToken(9, testSecret, time.Minute)
	require.NoError(t, err)
	users.On("FindByID", mock.Anything, uint(9)).Return(nil, repository.ErrNotFound).Once()

	_, err = svc.Authenticate(context.Background(), orphan)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}
