package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bclub/backend/services/counter-service/internal/models"
)

// ConsoleRepository persists the console catalog and flat-fee sessions.
type ConsoleRepository struct {
	db *gorm.DB
}

// NewConsoleRepository returns repository.
func NewConsoleRepository(db *gorm.DB) *ConsoleRepository {
	return &ConsoleRepository{db: db}
}

// ListGames returns games with their time options, optionally only active ones.
func (r *ConsoleRepository) ListGames(ctx context.Context, activeOnly bool) ([]models.ConsoleGame, error) {
	q := r.db.WithContext(ctx).Preload("TimeOptions", func(db *gorm.DB) *gorm.DB {
		return db.Order("minutes ASC, players ASC, id ASC")
	})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var games []models.ConsoleGame
	err := q.Order("name ASC, id ASC").Find(&games).Error
	return games, err
}

// GetGame returns one game.
func (r *ConsoleRepository) GetGame(ctx context.Context, id int64) (*models.ConsoleGame, error) {
	var g models.ConsoleGame
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("game %d", id))
	}
	return &g, nil
}

// CreateGame inserts a game.
func (r *ConsoleRepository) CreateGame(ctx context.Context, g *models.ConsoleGame) error {
	return r.db.WithContext(ctx).Omit("TimeOptions").Create(g).Error
}

// SaveGame writes the columns of an existing game. Time options are left alone.
func (r *ConsoleRepository) SaveGame(ctx context.Context, g *models.ConsoleGame) error {
	return r.db.WithContext(ctx).Omit("TimeOptions").Save(g).Error
}

// CreateTimeOption inserts a time option.
func (r *ConsoleRepository) CreateTimeOption(ctx context.Context, o *models.ConsoleTimeOption) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// GetTimeOption returns an option only if it belongs to gameID.
func (r *ConsoleRepository) GetTimeOption(ctx context.Context, gameID, optionID int64) (*models.ConsoleTimeOption, error) {
	var o models.ConsoleTimeOption
	err := r.db.WithContext(ctx).Where("id = ? AND game_id = ?", optionID, gameID).First(&o).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("time option %d of game %d", optionID, gameID))
	}
	return &o, nil
}

// CreateSession inserts a flat-fee session.
func (r *ConsoleRepository) CreateSession(ctx context.Context, s *models.ConsoleSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ListSessions returns sessions of one business date (all when date is empty), newest first.
func (r *ConsoleRepository) ListSessions(ctx context.Context, date string) ([]models.ConsoleSession, error) {
	q := r.db.WithContext(ctx)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	var sessions []models.ConsoleSession
	err := q.Order("timestamp DESC, id DESC").Find(&sessions).Error
	return sessions, err
}

// ListSessionsBetween returns sessions whose business date lies in [from, to], newest first.
func (r *ConsoleRepository) ListSessionsBetween(ctx context.Context, from, to string) ([]models.ConsoleSession, error) {
	var sessions []models.ConsoleSession
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("timestamp DESC, id DESC").
		Find(&sessions).Error
	return sessions, err
}

// ListByClient returns every console session of a client, newest first.
func (r *ConsoleRepository) ListByClient(ctx context.Context, client string) ([]models.ConsoleSession, error) {
	var sessions []models.ConsoleSession
	err := r.db.WithContext(ctx).
		Where("client_name = ?", client).
		Order("timestamp DESC, id DESC").
		Find(&sessions).Error
	return sessions, err
}

// TogglePaid flips is_paid on a console session.
func (r *ConsoleRepository) TogglePaid(ctx context.Context, id int64, client string) (bool, error) {
	var s models.ConsoleSession
	return togglePaid(ctx, r.db, &s, id, client, fmt.Sprintf("console session %d", id), func() (bool, error) {
		return s.IsPaid, nil
	})
}
