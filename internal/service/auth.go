package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"playmatch/lobbies/internal/models"
	"playmatch/lobbies/internal/repository"
	"playmatch/lobbies/pkg/jwt"
)

// AuthService handles registration, login and bearer token checks.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates an AuthService. The secret must not be empty.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiry <= 0 {
		jwtExpiry = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}, nil
}

// Register creates a user, marks it online and returns it with a signed JWT.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrInvalidInput
	}
	logCtx := logrus.WithField("username", username)

	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, "", ErrInternalServer
	}

	sessionToken := uuid.NewString()
	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Token:        &sessionToken,
		Status:       models.StatusOnline,
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: username already exists")
			return nil, "", ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, "", ErrInternalServer
	}

	token, err := jwt.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during registration")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return user, token, nil
}

// Login checks the credentials, marks the user online and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	logCtx := logrus.WithField("username", username)

	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return nil, "", ErrAuthenticationFailed
	}
	if !checkPassword(password, user.PasswordHash) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, "", ErrAuthenticationFailed
	}

	user.Status = models.StatusOnline
	if user.SessionToken() == "" {
		sessionToken := uuid.NewString()
		user.Token = &sessionToken
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Failed to update user on login")
		return nil, "", ErrInternalServer
	}

	token, err := jwt.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during login")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, token, nil
}

// Logout marks the user offline.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to load user on logout")
		return ErrInternalServer
	}

	user.Status = models.StatusOffline
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Failed to update user on logout")
		return ErrInternalServer
	}
	logCtx.Info("User logged out")
	return nil
}

// Authenticate resolves a bearer JWT to its user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := jwt.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to load user for token")
		}
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
