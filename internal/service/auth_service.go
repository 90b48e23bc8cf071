package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"campuslife-backend/internal/storages"
)

// bcryptCost is the work factor used for password hashing.
const bcryptCost = 12

// AuthService handles registration, credential checks and profile updates.
type AuthService struct {
	storage storages.Storage
	logger  *logrus.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(storage storages.Storage, logger *logrus.Logger) *AuthService {
	return &AuthService{storage: storage, logger: logger}
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	StudentID  string `json:"studentId"`
	Password   string `json:"password"`
	University string `json:"university"`
	Department string `json:"department"`
	Level      string `json:"level"`
}

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FullName   *string `json:"fullName"`
	AvatarURL  *string `json:"avatarUrl"`
	University *string `json:"university"`
	Department *string `json:"department"`
	Level      *string `json:"level"`
}

// Register creates a new account. Email and student ID must both be unused.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*storages.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.StudentID = strings.TrimSpace(input.StudentID)

	if input.FullName == "" || input.Email == "" || input.StudentID == "" {
		return nil, validationErr("full name, email and student ID are required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, validationErr("invalid email address")
	}
	if len(input.Password) < 6 {
		return nil, validationErr("password must be at least 6 characters")
	}

	if _, err := s.storage.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	} else if !errors.Is(err, storages.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.storage.GetUserByStudentID(ctx, input.StudentID); err == nil {
		return nil, fmt.Errorf("%w: student ID already registered", ErrAlreadyExists)
	} else if !errors.Is(err, storages.ErrNotFound) {
		return nil, fmt.Errorf("failed to check student ID: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &storages.User{
		FullName:     input.FullName,
		Email:        input.Email,
		StudentID:    input.StudentID,
		PasswordHash: string(hash),
		University:   input.University,
		Department:   input.Department,
		Level:        input.Level,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storages.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account already registered", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("User registered: ID=%s, Email=%s", user.ID.Hex(), user.Email)
	return user, nil
}

// Authenticate verifies the credentials and stamps the last login time.
// The identifier may be an email or a student ID.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*storages.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, validationErr("credentials are required")
	}

	user, err := s.storage.GetUserByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, storages.ErrNotFound) {
		user, err = s.storage.GetUserByStudentID(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	now := time.Now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.storage.SaveUser(ctx, user); err != nil {
		s.logger.Warnf("Failed to record last login for %s: %v", user.ID.Hex(), err)
	}

	s.logger.Infof("User authenticated: ID=%s", user.ID.Hex())
	return user, nil
}

// GetProfile returns the user's account data.
func (s *AuthService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*storages.User, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storages.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields. Email and student ID are
// immutable.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*storages.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		if *update.FullName == "" {
			return nil, validationErr("full name cannot be empty")
		}
		user.FullName = *update.FullName
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.University != nil {
		user.University = *update.University
	}
	if update.Department != nil {
		user.Department = *update.Department
	}
	if update.Level != nil {
		user.Level = *update.Level
	}
	user.UpdatedAt = time.Now()

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	if len(next) < 6 {
		return validationErr("password must be at least 6 characters")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Infof("Password changed: User=%s", userID.Hex())
	return nil
}
