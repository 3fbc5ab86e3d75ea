package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/clock"
	"bclub/backend/services/counter-service/internal/metrics"
	"bclub/backend/services/counter-service/internal/models"
)

// ConsoleRepository is the storage contract for the console catalog and sessions.
type ConsoleRepository interface {
	ListGames(ctx context.Context, activeOnly bool) ([]models.ConsoleGame, error)
	GetGame(ctx context.Context, id int64) (*models.ConsoleGame, error)
	CreateGame(ctx context.Context, g *models.ConsoleGame) error
	SaveGame(ctx context.Context, g *models.ConsoleGame) error
	CreateTimeOption(ctx context.Context, o *models.ConsoleTimeOption) error
	GetTimeOption(ctx context.Context, gameID, optionID int64) (*models.ConsoleTimeOption, error)
	CreateSession(ctx context.Context, s *models.ConsoleSession) error
	ListSessions(ctx context.Context, date string) ([]models.ConsoleSession, error)
}

// CreateGameInput describes a catalog entry.
type CreateGameInput struct {
	Name          string
	Icon          string
	PlayerOptions []int
}

// UpdateGameInput is a partial update of a catalog entry. Nil fields keep their value.
type UpdateGameInput struct {
	Name          *string
	Icon          *string
	PlayerOptions *[]int
	IsActive      *bool
}

// CreateTimeOptionInput describes a priced tier. Players zero means any player count.
type CreateTimeOptionInput struct {
	GameID  int64
	Label   string
	Minutes int
	Players int
	Price   int64
}

// CreateConsoleSessionInput books a flat-fee session from the catalog.
type CreateConsoleSessionInput struct {
	GameID       int64
	TimeOptionID int64
	Players      int
	ClientName   string
}

// ConsoleService manages console games and flat-fee sessions.
type ConsoleService struct {
	repo     ConsoleRepository
	metrics  *metrics.Metrics
	clock    clock.Clock
	calendar Calendar
	logger   *zap.Logger
}

// NewConsoleService builds ConsoleService.
func NewConsoleService(repo ConsoleRepository, m *metrics.Metrics, clk clock.Clock, cal Calendar, logger *zap.Logger) *ConsoleService {
	return &ConsoleService{repo: repo, metrics: m, clock: clk, calendar: cal, logger: logger}
}

// ListGames returns the catalog with time options.
func (s *ConsoleService) ListGames(ctx context.Context, activeOnly bool) ([]models.ConsoleGame, error) {
	return s.repo.ListGames(ctx, activeOnly)
}

// CreateGame adds a game to the catalog.
func (s *ConsoleService) CreateGame(ctx context.Context, in CreateGameInput) (*models.ConsoleGame, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("game name is required")
	}
	if err := validatePlayerOptions(in.PlayerOptions); err != nil {
		return nil, err
	}
	game := &models.ConsoleGame{
		Name:          name,
		Icon:          strings.TrimSpace(in.Icon),
		PlayerOptions: in.PlayerOptions,
		IsActive:      true,
	}
	if err := s.repo.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	s.logger.Info("console game created", zap.Int64("game_id", game.ID), zap.String("name", game.Name))
	return game, nil
}

// UpdateGame edits a catalog entry. Recorded sessions keep the game name they were booked under.
func (s *ConsoleService) UpdateGame(ctx context.Context, id int64, in UpdateGameInput) (*models.ConsoleGame, error) {
	game, err := s.repo.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("game name is required")
		}
		game.Name = name
	}
	if in.Icon != nil {
		game.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.PlayerOptions != nil {
		if err := validatePlayerOptions(*in.PlayerOptions); err != nil {
			return nil, err
		}
		game.PlayerOptions = *in.PlayerOptions
	}
	if in.IsActive != nil {
		game.IsActive = *in.IsActive
	}
	if err := s.repo.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	s.logger.Info("console game updated",
		zap.Int64("game_id", game.ID),
		zap.String("name", game.Name),
		zap.Bool("is_active", game.IsActive),
	)
	return game, nil
}

// DeactivateGame withdraws a game from booking. Its history is kept.
func (s *ConsoleService) DeactivateGame(ctx context.Context, id int64) (*models.ConsoleGame, error) {
	inactive := false
	return s.UpdateGame(ctx, id, UpdateGameInput{IsActive: &inactive})
}

func validatePlayerOptions(options []int) error {
	for _, p := range options {
		if p < 1 || p > models.MaxConsolePlayers {
			return apperr.Validation("player option %d out of range 1-%d", p, models.MaxConsolePlayers)
		}
	}
	return nil
}

// AddTimeOption adds a priced tier to a game.
func (s *ConsoleService) AddTimeOption(ctx context.Context, in CreateTimeOptionInput) (*models.ConsoleTimeOption, error) {
	if in.Minutes <= 0 {
		return nil, apperr.Validation("minutes must be positive")
	}
	if in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if in.Players < 0 || in.Players > models.MaxConsolePlayers {
		return nil, apperr.Validation("players must be between 0 and %d", models.MaxConsolePlayers)
	}
	if _, err := s.repo.GetGame(ctx, in.GameID); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = fmt.Sprintf("%d min", in.Minutes)
	}
	opt := &models.ConsoleTimeOption{
		GameID:  in.GameID,
		Label:   label,
		Minutes: in.Minutes,
		Players: in.Players,
		Price:   in.Price,
	}
	if err := s.repo.CreateTimeOption(ctx, opt); err != nil {
		return nil, err
	}
	return opt, nil
}

// CreateSession records a flat-fee session. Price and minutes are copied from the catalog.
func (s *ConsoleService) CreateSession(ctx context.Context, in CreateConsoleSessionInput) (*models.ConsoleSession, error) {
	game, err := s.repo.GetGame(ctx, in.GameID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("unknown game %d", in.GameID)
		}
		return nil, err
	}
	if !game.IsActive {
		return nil, apperr.Validation("game %q is not available", game.Name)
	}
	if !game.AllowsPlayers(in.Players) {
		return nil, apperr.Validation("%d players not allowed for %q", in.Players, game.Name)
	}

	opt, err := s.repo.GetTimeOption(ctx, game.ID, in.TimeOptionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("time option %d does not belong to game %d", in.TimeOptionID, game.ID)
		}
		return nil, err
	}
	if opt.Players > 0 && opt.Players != in.Players {
		return nil, apperr.Validation("time option %q is priced for %d players", opt.Label, opt.Players)
	}

	now := s.clock.Now()
	gameID := game.ID
	session := &models.ConsoleSession{
		GameID:          &gameID,
		Kind:            game.Name,
		ClientName:      NormalizeClientName(in.ClientName),
		Players:         in.Players,
		DurationMinutes: opt.Minutes,
		Price:           opt.Price,
		Date:            s.calendar.DateOf(now),
		Timestamp:       now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.Revenue(string(models.CategoryConsole), session.Price)
	s.logger.Info("console session recorded",
		zap.Int64("session_id", session.ID),
		zap.String("game", session.Kind),
		zap.Int("players", session.Players),
		zap.Int64("price", session.Price),
	)
	return session, nil
}

// ListSessions returns the sessions of a business date, or today's when date is empty.
func (s *ConsoleService) ListSessions(ctx context.Context, date string) ([]models.ConsoleSession, error) {
	if date == "" {
		date = s.calendar.DateOf(s.clock.Now())
	} else if _, err := s.calendar.Day(date); err != nil {
		return nil, err
	}
	return s.repo.ListSessions(ctx, date)
}
