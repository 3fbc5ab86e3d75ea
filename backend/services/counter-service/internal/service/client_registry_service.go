package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
)

// ClientRepository is the storage contract for the client registry.
type ClientRepository interface {
	List(ctx context.Context, isActive *bool) ([]models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, c *models.Client) error
	Save(ctx context.Context, c *models.Client) error
}

// CreateClientInput describes a client to register.
type CreateClientInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// UpdateClientInput is a partial update of a registered client. Nil fields keep their value.
type UpdateClientInput struct {
	Name     *string
	Phone    *string
	Email    *string
	Notes    *string
	IsActive *bool
}

const maxPhoneLength = 20

// ClientRegistryService keeps the directory of registered clients.
type ClientRegistryService struct {
	repo   ClientRepository
	logger *zap.Logger
}

// NewClientRegistryService builds ClientRegistryService.
func NewClientRegistryService(repo ClientRepository, logger *zap.Logger) *ClientRegistryService {
	return &ClientRegistryService{repo: repo, logger: logger}
}

// List returns registered clients, optionally only active or inactive ones.
func (s *ClientRegistryService) List(ctx context.Context, isActive *bool) ([]models.Client, error) {
	return s.repo.List(ctx, isActive)
}

// Create registers a client. Names are unique and the anonymous sentinels are reserved.
func (s *ClientRegistryService) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	name, err := registryName(in.Name)
	if err != nil {
		return nil, err
	}
	phone, err := registryPhone(in.Phone)
	if err != nil {
		return nil, err
	}
	email, err := registryEmail(in.Email)
	if err != nil {
		return nil, err
	}
	c := &models.Client{
		Name:     name,
		Phone:    phone,
		Email:    email,
		Notes:    strings.TrimSpace(in.Notes),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("client registered", zap.Int64("client_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// Update edits a registered client. Renaming does not rewrite ledger records, which keep the
// name they were recorded under.
func (s *ClientRegistryService) Update(ctx context.Context, id int64, in UpdateClientInput) (*models.Client, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if c.Name, err = registryName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Phone != nil {
		if c.Phone, err = registryPhone(*in.Phone); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		if c.Email, err = registryEmail(*in.Email); err != nil {
			return nil, err
		}
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("client updated",
		zap.Int64("client_id", c.ID),
		zap.String("name", c.Name),
		zap.Bool("is_active", c.IsActive),
	)
	return c, nil
}

func registryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperr.Validation("client name is required")
	}
	if IsAnonymous(name) {
		return "", apperr.Validation("client name %q is reserved", name)
	}
	return name, nil
}

func registryPhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if len(phone) > maxPhoneLength {
		return "", apperr.Validation("phone must be at most %d characters", maxPhoneLength)
	}
	return phone, nil
}

// registryEmail accepts an empty address or a bare one, stored lowercased.
func registryEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation("invalid email %q", email)
	}
	return strings.ToLower(addr.Address), nil
}
