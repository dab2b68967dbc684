package services

import (
	"context"
	"log"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/pkg/auth"
	"github.com/gridbase/backend/pkg/errors"
)

// AuthService handles login and session validation. Tokens only identify the
// account; every request re-fetches the user so deactivation takes effect
// immediately.
type AuthService struct {
	users ports.UserStore
}

// NewAuthService creates a new AuthService
func NewAuthService(users ports.UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login verifies credentials and issues a token for the account
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("❌ AuthService: login lookup failed for %s: %v", email, err)
		return "", nil, errors.NewInternalError("LOGIN_ERROR", err)
	}
	if user == nil || !auth.VerifyPassword(password, user.Password) {
		// One message for both cases; never reveal which part was wrong
		return "", nil, errors.NewUnauthorizedError("invalid credentials")
	}
	if !user.IsActive() {
		return "", nil, errors.NewPermissionError("login", "account", errors.CauseUserNotActive)
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("❌ AuthService: token generation failed for %s: %v", user.ID, err)
		return "", nil, errors.NewInternalError("LOGIN_ERROR", err)
	}
	return token, user, nil
}

// CurrentUser re-fetches the principal's account with permissions populated
func (s *AuthService) CurrentUser(ctx context.Context, principal *auth.Principal) (*models.User, error) {
	if principal == nil {
		return nil, errors.NewUnauthorizedError("no principal")
	}
	user, err := s.users.FindWithPermissions(ctx, principal.Sub)
	if err != nil {
		return nil, errors.NewInternalError("SESSION_ERROR", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", principal.Sub, errors.CauseUserNotFound)
	}
	return user, nil
}
