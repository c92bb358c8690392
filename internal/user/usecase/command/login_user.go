package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/commodity-tracker/internal/user/domain"
	"github.com/tair/commodity-tracker/pkg/auth"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle checks the credentials and issues a session token. Unknown emails
// and wrong passwords both yield ErrInvalidCredentials.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := h.repo.FindByEmail(ctx, cmd.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		logger.WithContext(ctx).Warn().Str("email", cmd.Email).Msg("Login for unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, cmd.Password) {
		logger.WithContext(ctx).Warn().Str("user_id", user.ID).Msg("Login with wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.WithContext(ctx).Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("User logged in")

	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
