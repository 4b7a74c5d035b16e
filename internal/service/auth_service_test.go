package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/config"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	issuer := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "test-secret-key-for-unit-tests",
		Issuer:        "shipops-test",
		TokenLifetime: 3600,
	})
	return NewAuthService(
		repository.NewUserRepository(db),
		issuer,
		newTestAuditService(db),
		zap.NewNop(),
	)
}

// seedCredentials gives a seeded user a real bcrypt hash for password
func seedCredentials(t *testing.T, db *gorm.DB, role domain.UserRole, password string) *domain.User {
	t.Helper()

	user := seedUser(t, db, role)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)
	require.NoError(t, db.Save(user).Error)
	return user
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)
	user := seedCredentials(t, db, domain.RoleOps, "anchor-chain-9")

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "anchor-chain-9",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, domain.RoleOps, resp.User.Role)

	// A successful login stamps the time on the account
	var reloaded domain.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.WithinDuration(t, time.Now().UTC(), *reloaded.LastLoginAt, time.Minute)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)
	user := seedCredentials(t, db, domain.RoleOps, "anchor-chain-9")

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "anchor-chain-9",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)
	user := seedCredentials(t, db, domain.RoleFinance, "anchor-chain-9")
	user.IsActive = false
	require.NoError(t, db.Save(user).Error)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "anchor-chain-9",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
