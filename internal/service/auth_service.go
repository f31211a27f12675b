package service

import (
	"context"
	"log/slog"

	"github.com/parcelhub/parcelhub/internal/auth"
	"github.com/parcelhub/parcelhub/internal/models"
)

// AuthService registers accounts and issues session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, req.RUT, req.Name, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "role", user.Role)

	return user, nil
}

// Login verifies the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticator.Authenticate(ctx, req.RUT, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID)

	return &LoginResponse{Token: token, User: user}, nil
}
