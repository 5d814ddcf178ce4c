package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mnakayama/task-manager-api/internal/constants"
	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"github.com/mnakayama/task-manager-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrWeakPassword         = errors.New("password must be at least 8 characters with uppercase, lowercase, digit and special character")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("user account is disabled")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo    repository.UserRepository
	counterRepo repository.CounterRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, counterRepo repository.CounterRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		counterRepo: counterRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Username string
	FullName *string
	Password string
}

// Register creates a new user account. The existence probes are a fast path;
// the unique indexes on email and username are the authoritative guard, so a
// duplicate-key error from the insert maps to the same conflict errors.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	username := strings.TrimSpace(input.Username)

	if !validation.StrongPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	if err := s.checkAvailability(email, username); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	id, err := s.counterRepo.NextID(constants.CounterUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	user := &models.User{
		ID:           id,
		Email:        email,
		Username:     username,
		FullName:     input.FullName,
		PasswordHash: string(hashed),
		IsActive:     true,
		IsAdmin:      false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race after the fast-path check. Probe again to
			// report which field collided.
			if availErr := s.checkAvailability(email, username); availErr != nil {
				return nil, availErr
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies email and password, stamping last_login on success.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) checkAvailability(email, username string) error {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	return nil
}
