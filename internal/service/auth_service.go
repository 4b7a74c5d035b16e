package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles login and the authenticated principal endpoint
type AuthService struct {
	userRepo     *repository.UserRepository
	tokenIssuer  *auth.TokenIssuer
	auditService *AuditLogService
	logger       *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokenIssuer *auth.TokenIssuer,
	auditService *AuditLogService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenIssuer:  tokenIssuer,
		auditService: auditService,
		logger:       logger,
	}
}

// Login verifies the credentials and issues a signed token. Unknown
// accounts and wrong passwords fail the same way so the response does
// not reveal which part was wrong.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login failed", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	userID := user.ID
	s.auditService.Record(ctx, domain.AuditUserLogin, "user", &userID, map[string]interface{}{
		"email": user.Email,
	})

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &domain.LoginResponse{
		Token: token,
		User:  mapper.ToAuthUserDTO(user),
	}, nil
}

// Me echoes the verified principal from the token
func (s *AuthService) Me(ctx context.Context) (*domain.AuthUserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := mapper.ToAuthUserDTO(user)
	return &dto, nil
}
