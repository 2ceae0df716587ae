package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/auth"
	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, log *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         "customer",
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrEmailTaken
		}
		s.log.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, token, nil
}
