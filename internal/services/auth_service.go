package services

import (
	"context"
	"strings"
	"time"

	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/email"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"
)

const mailTimeout = 30 * time.Second

type AuthService struct {
	users   repositories.UserRepository
	tokens  *auth.TokenManager
	revoker auth.Revoker
	mailer  email.Sender
	siteURL string
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.TokenManager,
	revoker auth.Revoker,
	mailer email.Sender,
	siteURL string,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		mailer:  mailer,
		siteURL: siteURL,
	}
}

// Register creates a buyer, seller or agent account and signs the first token.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.UserType == models.UserTypeAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		UserType:     req.UserType,
		Status:       models.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapRepoErr(err, "create user", nil, apperrors.ErrEmailAlreadyExists)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID.Hex(), "user_type", user.UserType)
	s.sendWelcome(ctx, user)

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, mapRepoErr(err, "find user by email", apperrors.ErrInvalidCredentials, nil)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}
	return s.issue(user)
}

// Logout blacklists the token's jti for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.ExpiresIn(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID.Hex())
	if err != nil {
		return nil, mapRepoErr(err, "get current user", apperrors.ErrUserNotFound, nil)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, claims, err := s.tokens.GenerateToken(user.ID.Hex(), string(user.UserType))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(claims.ExpiresIn(time.Now()).Seconds()),
		User:      user,
	}, nil
}

func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	data := email.WelcomeData{
		UserName: user.Name,
		UserType: string(user.UserType),
		SiteURL:  s.siteURL,
	}
	to := user.Email
	go func() {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()
		if err := s.mailer.SendWelcome(mctx, to, data); err != nil {
			logger.CtxWithError(mctx, "welcome email failed", err, "user_id", user.ID.Hex())
		}
	}()
}
