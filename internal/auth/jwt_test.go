package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/config"
	"github.com/wormos/shipops-api/internal/domain"
)

func testIssuer(lifetimeSeconds int) *TokenIssuer {
	return NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "test-secret-key-for-unit-tests",
		Issuer:        "shipops-test",
		TokenLifetime: lifetimeSeconds,
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	issuer := testIssuer(3600)

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "finance@example.com",
		Name:      "Finance User",
		Role:      domain.RoleFinance,
	}

	token, err := issuer.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.Name, userCtx.Name)
	assert.Equal(t, domain.RoleFinance, userCtx.Role)
}

func TestValidateTokenExpired(t *testing.T) {
	issuer := testIssuer(-10)

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "ops@example.com",
		Name:      "Ops User",
		Role:      domain.RoleOps,
	}

	token, err := issuer.IssueToken(user)
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := testIssuer(3600)
	other := NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "a-different-secret",
		Issuer:        "shipops-test",
		TokenLifetime: 3600,
	})

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "admin@example.com",
		Name:      "Admin",
		Role:      domain.RoleAdmin,
	}

	token, err := issuer.IssueToken(user)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	issuer := testIssuer(3600)
	strict := NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "test-secret-key-for-unit-tests",
		Issuer:        "someone-else",
		TokenLifetime: 3600,
	})

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "eng@example.com",
		Name:      "Engineer",
		Role:      domain.RoleEngineer,
	}

	token, err := issuer.IssueToken(user)
	require.NoError(t, err)

	_, err = strict.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	issuer := testIssuer(3600)
	_, err := issuer.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
