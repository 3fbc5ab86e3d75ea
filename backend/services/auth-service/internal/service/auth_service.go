package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/auth"
	"bclub/backend/services/auth-service/internal/models"
	"bclub/backend/services/auth-service/internal/password"
	"bclub/backend/services/auth-service/internal/repository"
)

// ErrInvalidCredentials represents login failure. Unknown user and wrong password look the same.
var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateCapabilities(ctx context.Context, id int64, caps auth.CapabilitySet) error
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// CreateUserInput carries the fields of a new staff account.
type CreateUserInput struct {
	Username     string
	Password     string
	Role         string
	Capabilities []string
}

// AuthService contains login and staff management logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *auth.TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, username, pass string) (string, *models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || pass == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("password comparison failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.Principal())
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return token, user, nil
}

// CreateUser registers a new staff account.
func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if in.Password == "" {
		return nil, apperr.Validation("password is required")
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = auth.RoleStaff
	}
	if role != auth.RoleStaff && role != auth.RoleAdmin {
		return nil, apperr.Validation("unknown role %q", role)
	}
	caps, err := auth.ParseCapabilities(in.Capabilities)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid capabilities")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Capabilities: caps,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperr.Conflict("username %q already taken", username)
		}
		return nil, err
	}

	s.logger.Info("staff user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username), zap.String("role", role))
	return user, nil
}

// UpdateCapabilities replaces the capability set of a user.
func (s *AuthService) UpdateCapabilities(ctx context.Context, id int64, names []string) (*models.User, error) {
	caps, err := auth.ParseCapabilities(names)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid capabilities")
	}
	if err := s.repo.UpdateCapabilities(ctx, id, caps); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, err
	}
	s.logger.Info("capabilities updated", zap.Int64("user_id", id), zap.Strings("capabilities", caps.Names()))
	return s.Me(ctx, id)
}

// ListUsers returns every staff account.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes a staff account. The last admin cannot be removed.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return apperr.NotFound("user %d not found", id)
		case errors.Is(err, repository.ErrLastAdmin):
			return apperr.InvalidState("cannot delete the last admin")
		}
		return err
	}
	s.logger.Info("staff user deleted", zap.Int64("user_id", id))
	return nil
}

// Me returns the account behind an authenticated principal.
func (s *AuthService) Me(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, err
	}
	return user, nil
}
