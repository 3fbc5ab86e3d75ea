package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/models"
)

var tablePalette = []string{"#10b981", "#3b82f6", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899"}

// TableRepository is the storage contract for billiard tables.
type TableRepository interface {
	List(ctx context.Context) ([]models.BilliardTable, error)
	Get(ctx context.Context, id string) (*models.BilliardTable, error)
	Save(ctx context.Context, t *models.BilliardTable) error
	EnsureExists(ctx context.Context, tables []models.BilliardTable) error
}

// ActiveSessionFinder reports the running session of a table.
type ActiveSessionFinder interface {
	FindActiveByTable(ctx context.Context, table string) (*models.BilliardSession, bool, error)
}

// UpdateTableInput is a partial update of a table. Nil fields keep their value.
type UpdateTableInput struct {
	Name     *string
	Color    *string
	IsActive *bool
}

// TablesService exposes the table registry.
type TablesService struct {
	repo     TableRepository
	sessions ActiveSessionFinder
}

// NewTablesService builds TablesService.
func NewTablesService(repo TableRepository, sessions ActiveSessionFinder) *TablesService {
	return &TablesService{repo: repo, sessions: sessions}
}

// List returns every table in display order.
func (s *TablesService) List(ctx context.Context) ([]models.BilliardTable, error) {
	return s.repo.List(ctx)
}

// Get returns an active table. Identifiers are case-insensitive. Unknown and disabled tables
// are both not found.
func (s *TablesService) Get(ctx context.Context, id string) (*models.BilliardTable, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, apperr.Validation("table is required")
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, apperr.NotFound("table %s not found", id)
	}
	return t, nil
}

// Update edits a table, including disabled ones. A table with a running session cannot be
// disabled: it would drop out of the live feed while still metering.
func (s *TablesService) Update(ctx context.Context, id string, in UpdateTableInput) (*models.BilliardTable, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("table name is required")
		}
		t.Name = name
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if !isHexColor(color) {
			return nil, apperr.Validation("invalid table color %q", color)
		}
		t.Color = color
	}
	if in.IsActive != nil {
		if !*in.IsActive && t.IsActive {
			if _, busy, err := s.sessions.FindActiveByTable(ctx, t.ID); err != nil {
				return nil, err
			} else if busy {
				return nil, apperr.InvalidState("table %s has a running session", t.ID)
			}
		}
		t.IsActive = *in.IsActive
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Deactivate takes a table out of service.
func (s *TablesService) Deactivate(ctx context.Context, id string) (*models.BilliardTable, error) {
	inactive := false
	return s.Update(ctx, id, UpdateTableInput{IsActive: &inactive})
}

// EnsureDefaults creates the listed tables when missing. Existing rows are left untouched.
func (s *TablesService) EnsureDefaults(ctx context.Context, ids []string) error {
	tables := make([]models.BilliardTable, 0, len(ids))
	for i, raw := range ids {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if id == "" {
			continue
		}
		tables = append(tables, models.BilliardTable{
			ID:        id,
			Name:      "Table " + id,
			Color:     tablePalette[i%len(tablePalette)],
			IsActive:  true,
			SortOrder: i,
		})
	}
	if len(tables) == 0 {
		return errors.New("tables: no table identifiers configured")
	}
	if err := s.repo.EnsureExists(ctx, tables); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}
	return nil
}
