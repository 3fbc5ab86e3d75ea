package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
)

// SettingsRepository is the storage contract for the settings singleton.
type SettingsRepository interface {
	GetOrCreate(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

// SettingsUpdate is a partial update; nil fields are left unchanged.
type SettingsUpdate struct {
	ClubName   *string
	LogoURL    *string
	ThemeColor *string
	Tariff     *models.Tariff
}

// SettingsService reads and updates venue settings.
type SettingsService struct {
	repo   SettingsRepository
	logger *zap.Logger
}

// NewSettingsService builds SettingsService.
func NewSettingsService(repo SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the current settings, creating the defaults on first access.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.GetOrCreate(ctx)
}

// ActiveTariff returns the tariff in force right now. It is read on every call.
func (s *SettingsService) ActiveTariff(ctx context.Context) (models.Tariff, error) {
	st, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return models.Tariff{}, err
	}
	return st.Tariff, nil
}

// Update applies in and returns the stored settings.
func (s *SettingsService) Update(ctx context.Context, in SettingsUpdate) (*models.Settings, error) {
	st, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if in.ClubName != nil {
		name := strings.TrimSpace(*in.ClubName)
		if name == "" {
			return nil, apperr.Validation("club name must not be empty")
		}
		st.ClubName = name
	}
	if in.LogoURL != nil {
		st.LogoURL = strings.TrimSpace(*in.LogoURL)
	}
	if in.ThemeColor != nil {
		color := strings.TrimSpace(*in.ThemeColor)
		if !isHexColor(color) {
			return nil, apperr.Validation("invalid theme color %q", color)
		}
		st.ThemeColor = color
	}
	if in.Tariff != nil {
		if err := in.Tariff.Validate(); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, apperr.Message(err))
		}
		st.Tariff = *in.Tariff
	}

	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("settings updated",
		zap.String("club_name", st.ClubName),
		zap.Int64("rate_base", st.Tariff.BaseRatePerMinute),
		zap.Int64("rate_reduced", st.Tariff.ReducedRatePerMinute),
	)
	return st, nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
