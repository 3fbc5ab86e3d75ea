package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bclub/backend/libs/apperr"
	libdb "bclub/backend/libs/db"
	"bclub/backend/services/counter-service/internal/models"
)

// SessionFilter narrows billiard session listings. Zero fields do not filter.
type SessionFilter struct {
	Table  string
	From   *time.Time // inclusive, on start_time
	To     *time.Time // exclusive, on start_time
	IsPaid *bool
}

// SessionRepository handles persistence of billiard sessions.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session. A second active session on the same table violates the partial unique
// index and surfaces as a conflict.
func (r *SessionRepository) Create(ctx context.Context, s *models.BilliardSession) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if libdb.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.KindConflict, err, fmt.Sprintf("table %s already has an active session", s.TableIdentifier))
	}
	return err
}

// GetByID returns a session by id.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.BilliardSession, error) {
	var s models.BilliardSession
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("session %d", id))
	}
	return &s, nil
}

// FindActiveByTable returns the running session of a table, if any.
func (r *SessionRepository) FindActiveByTable(ctx context.Context, table string) (*models.BilliardSession, bool, error) {
	var s models.BilliardSession
	err := r.db.WithContext(ctx).
		Where("table_identifier = ? AND is_active = ?", table, true).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

// Finalize persists the stop transition. The update only matches an active row, so of two
// concurrent stops exactly one succeeds and the other gets an invalid-state error.
func (r *SessionRepository) Finalize(ctx context.Context, s *models.BilliardSession) error {
	res := r.db.WithContext(ctx).
		Model(&models.BilliardSession{}).
		Where("id = ? AND is_active = ?", s.ID, true).
		Updates(map[string]interface{}{
			"end_time":         s.EndTime,
			"duration_seconds": s.DurationSeconds,
			"price":            s.Price,
			"client_name":      s.ClientName,
			"is_active":        false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("session %d is already stopped", s.ID)
	}
	s.IsActive = false
	return nil
}

// ListActive returns running sessions ordered by table.
func (r *SessionRepository) ListActive(ctx context.Context) ([]models.BilliardSession, error) {
	var sessions []models.BilliardSession
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("table_identifier ASC").
		Find(&sessions).Error
	return sessions, err
}

// ListStopped returns finished sessions matching f, newest first.
func (r *SessionRepository) ListStopped(ctx context.Context, f SessionFilter) ([]models.BilliardSession, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", false)
	if f.Table != "" {
		q = q.Where("table_identifier = ?", f.Table)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_time < ?", f.To.UTC())
	}
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}
	var sessions []models.BilliardSession
	err := q.Order("start_time DESC, id DESC").Find(&sessions).Error
	return sessions, err
}

// ListByClient returns every session of a client, newest first.
func (r *SessionRepository) ListByClient(ctx context.Context, client string) ([]models.BilliardSession, error) {
	var sessions []models.BilliardSession
	err := r.db.WithContext(ctx).
		Where("client_name = ?", client).
		Order("start_time DESC, id DESC").
		Find(&sessions).Error
	return sessions, err
}

// TogglePaid flips is_paid on a stopped session. A non-empty client scopes the lookup.
func (r *SessionRepository) TogglePaid(ctx context.Context, id int64, client string) (bool, error) {
	var s models.BilliardSession
	return togglePaid(ctx, r.db, &s, id, client, fmt.Sprintf("session %d", id), func() (bool, error) {
		if s.IsActive {
			return false, apperr.InvalidState("session %d is still running", id)
		}
		return s.IsPaid, nil
	})
}

// togglePaid loads dest by id (and client), asks current for the present flag, and stores its
// negation in one transaction.
func togglePaid(ctx context.Context, db *gorm.DB, dest interface{}, id int64, client, what string, current func() (bool, error)) (bool, error) {
	var paid bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if client != "" {
			q = q.Where("client_name = ?", client)
		}
		if err := q.First(dest).Error; err != nil {
			return translate(err, what)
		}
		was, err := current()
		if err != nil {
			return err
		}
		paid = !was
		return tx.Model(dest).Update("is_paid", paid).Error
	})
	return paid, err
}
