package services

import (
	"encoding/json"
	"testing"

	"github.com/mnakayama/task-manager-api/internal/dto"
	"github.com/mnakayama/task-manager-api/internal/models"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Counter{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db), repository.NewCounterRepository(db))
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthService(t)

	user, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)

	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.True(t, user.IsActive)
	require.False(t, user.IsAdmin)
	require.Nil(t, user.LastLogin)

	// Allocated IDs are monotonic across registrations.
	second, err := svc.Register(RegisterInput{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "Secret123!",
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)
}

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	svc := setupAuthService(t)

	user, err := svc.Register(RegisterInput{
		Email:    "  Alice@Example.COM ",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "Secret123!",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{
		Email:    "other@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_RegisterWeakPassword(t *testing.T) {
	svc := setupAuthService(t)

	for _, password := range []string{"short1!", "nouppercase1!", "NOLOWERCASE1!", "NoDigits!!", "NoSpecial123"} {
		_, err := svc.Register(RegisterInput{
			Email:    "alice@example.com",
			Username: "alice",
			Password: password,
		})
		require.ErrorIs(t, err, ErrWeakPassword, "password %q", password)
	}
}

func TestAuthService_DigestNeverSerialized(t *testing.T) {
	svc := setupAuthService(t)

	user, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.PasswordHash)

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "Secret123!")
	require.NotContains(t, string(raw), user.PasswordHash)
	require.NotContains(t, string(raw), "password")

	raw, err = json.Marshal(dto.ToUserDTO(*user))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "password")
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate("alice@example.com", "Secret123!")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	// The stamp is persisted, not just set on the returned value.
	reloaded, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLogin)
}

func TestAuthService_AuthenticateWrongPassword(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Secret123!",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate("alice@example.com", "WrongPass1!")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateUnknownEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Authenticate("nobody@example.com", "Secret123!")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
