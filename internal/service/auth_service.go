package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vida-plena/internal/domain"
	"vida-plena/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService valida credenciales del personal contra la tabla users.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{logger: logger, users: users}
}

// Authenticate compara el password con el hash bcrypt guardado.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}
