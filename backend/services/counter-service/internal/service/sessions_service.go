package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/libs/clock"
	"bclub/backend/services/counter-service/internal/metrics"
	"bclub/backend/services/counter-service/internal/models"
	redisstore "bclub/backend/services/counter-service/internal/redis"
	"bclub/backend/services/counter-service/internal/repository"
)

// SessionRepository is the storage contract for billiard sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *models.BilliardSession) error
	GetByID(ctx context.Context, id int64) (*models.BilliardSession, error)
	FindActiveByTable(ctx context.Context, table string) (*models.BilliardSession, bool, error)
	Finalize(ctx context.Context, s *models.BilliardSession) error
	ListActive(ctx context.Context) ([]models.BilliardSession, error)
	ListStopped(ctx context.Context, f repository.SessionFilter) ([]models.BilliardSession, error)
}

// ActiveTableStore shares table claims between instances. It is optional.
type ActiveTableStore interface {
	Claim(ctx context.Context, claim redisstore.ActiveTable) (bool, error)
	Save(ctx context.Context, claim redisstore.ActiveTable) error
	Get(ctx context.Context, table string) (*redisstore.ActiveTable, error)
	Release(ctx context.Context, table string) error
}

// TariffSource yields the tariff in force.
type TariffSource interface {
	ActiveTariff(ctx context.Context) (models.Tariff, error)
}

// TableLookup resolves an active table.
type TableLookup interface {
	Get(ctx context.Context, id string) (*models.BilliardTable, error)
	List(ctx context.Context) ([]models.BilliardTable, error)
}

// StartSessionInput describes a session to open.
type StartSessionInput struct {
	Table      string
	ClientName string
	CreatedBy  *int64
}

// ManualSessionInput describes an already finished session entered after the fact.
type ManualSessionInput struct {
	Table      string
	ClientName string
	Start      time.Time
	End        time.Time
	CreatedBy  *int64
}

// HistoryFilter narrows stopped-session listings. From and To are inclusive YYYY-MM-DD dates.
type HistoryFilter struct {
	Table  string
	From   string
	To     string
	IsPaid *bool
}

// SessionView is a session with its live duration and price.
type SessionView struct {
	models.BilliardSession
	ElapsedSeconds    int64  `json:"elapsed_seconds"`
	CurrentPrice      int64  `json:"current_price"`
	FormattedDuration string `json:"formatted_duration"`
	FormattedPrice    string `json:"formatted_price"`
}

// LiveTable is one table in the live snapshot. Session is nil when the table is free.
type LiveTable struct {
	Table   models.BilliardTable `json:"table"`
	Session *SessionView         `json:"session"`
}

// LiveSnapshot is the state pushed to live feed subscribers.
type LiveSnapshot struct {
	Timestamp   time.Time   `json:"timestamp"`
	ActiveCount int         `json:"active_count"`
	Tables      []LiveTable `json:"tables"`
}

// SessionsService runs the billiard session lifecycle.
type SessionsService struct {
	repo     SessionRepository
	tables   TableLookup
	tariffs  TariffSource
	store    ActiveTableStore
	locks    *TableLocks
	metrics  *metrics.Metrics
	clock    clock.Clock
	calendar Calendar
	currency string
	logger   *zap.Logger
}

// SessionsConfig carries the collaborators of SessionsService. Store and Metrics may be nil.
type SessionsConfig struct {
	Repo     SessionRepository
	Tables   TableLookup
	Tariffs  TariffSource
	Store    ActiveTableStore
	Metrics  *metrics.Metrics
	Clock    clock.Clock
	Calendar Calendar
	Currency string
	Logger   *zap.Logger
}

// NewSessionsService builds SessionsService.
func NewSessionsService(cfg SessionsConfig) *SessionsService {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SessionsService{
		repo:     cfg.Repo,
		tables:   cfg.Tables,
		tariffs:  cfg.Tariffs,
		store:    cfg.Store,
		locks:    NewTableLocks(),
		metrics:  cfg.Metrics,
		clock:    cfg.Clock,
		calendar: cfg.Calendar,
		currency: cfg.Currency,
		logger:   cfg.Logger,
	}
}

// Start opens a session on a table starting now.
func (s *SessionsService) Start(ctx context.Context, in StartSessionInput) (*models.BilliardSession, error) {
	return s.StartAt(ctx, in, s.clock.Now())
}

// StartAt opens a session with an explicit, possibly backdated, start time.
func (s *SessionsService) StartAt(ctx context.Context, in StartSessionInput, start time.Time) (*models.BilliardSession, error) {
	table, err := s.tables.Get(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if start.After(now) {
		return nil, apperr.Validation("start time %s is in the future", start.UTC().Format(time.RFC3339))
	}

	unlock := s.locks.Lock(table.ID)
	defer unlock()

	if _, ok, err := s.repo.FindActiveByTable(ctx, table.ID); err != nil {
		return nil, err
	} else if ok {
		return nil, apperr.Conflict("table %s already has an active session", table.ID)
	}

	session := &models.BilliardSession{
		TableIdentifier: table.ID,
		ClientName:      NormalizeClientName(in.ClientName),
		StartTime:       start.UTC(),
		IsActive:        true,
		CreatedBy:       in.CreatedBy,
	}

	claimed, err := s.claim(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, session); err != nil {
		if claimed {
			s.release(ctx, table.ID)
		}
		return nil, err
	}
	s.saveClaim(ctx, session)

	s.metrics.SessionStarted(table.ID)
	s.logger.Info("billiard session started",
		zap.Int64("session_id", session.ID),
		zap.String("table", table.ID),
		zap.String("client", session.ClientName),
		zap.Time("start_time", session.StartTime),
	)
	return session, nil
}

// ParseStart interprets a backdated start time ("HH:MM" or RFC 3339) against the service clock.
func (s *SessionsService) ParseStart(raw string) (time.Time, error) {
	return ParseStartTime(raw, s.clock.Now(), s.calendar.Location())
}

// ParseTimestamp interprets a manual-entry timestamp in the venue location.
func (s *SessionsService) ParseTimestamp(raw string) (time.Time, error) {
	return ParseTimestamp(raw, s.calendar.Location())
}

// Stop finalizes a running session at the current instant. clientName, when set and not blank,
// replaces the stored client name.
func (s *SessionsService) Stop(ctx context.Context, id int64, clientName *string) (*models.BilliardSession, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(session.TableIdentifier)
	defer unlock()

	if !session.IsActive {
		return nil, apperr.InvalidState("session %d is already stopped", id)
	}

	tariff, err := s.tariffs.ActiveTariff(ctx)
	if err != nil {
		return nil, err
	}

	end := s.clock.Now()
	duration := elapsedSeconds(session.StartTime, end)
	price, err := ComputePrice(duration, tariff)
	if err != nil {
		return nil, err
	}

	session.EndTime = &end
	session.DurationSeconds = duration
	session.Price = price
	if clientName != nil && strings.TrimSpace(*clientName) != "" {
		session.ClientName = strings.TrimSpace(*clientName)
	}

	if err := s.repo.Finalize(ctx, session); err != nil {
		return nil, err
	}
	s.release(ctx, session.TableIdentifier)

	s.metrics.SessionStopped(session.TableIdentifier, price)
	s.logger.Info("billiard session stopped",
		zap.Int64("session_id", session.ID),
		zap.String("table", session.TableIdentifier),
		zap.String("client", session.ClientName),
		zap.Int64("duration_seconds", duration),
		zap.Int64("price", price),
	)
	return session, nil
}

// RecordManual stores a finished session entered after the fact.
func (s *SessionsService) RecordManual(ctx context.Context, in ManualSessionInput) (*models.BilliardSession, error) {
	if in.Start.IsZero() || in.End.IsZero() {
		return nil, apperr.Validation("start and end times are required")
	}
	if !in.End.After(in.Start) {
		return nil, apperr.Validation("end time must be after start time")
	}
	table, err := s.tables.Get(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	tariff, err := s.tariffs.ActiveTariff(ctx)
	if err != nil {
		return nil, err
	}

	duration := elapsedSeconds(in.Start, in.End)
	price, err := ComputePrice(duration, tariff)
	if err != nil {
		return nil, err
	}

	end := in.End.UTC()
	session := &models.BilliardSession{
		TableIdentifier: table.ID,
		ClientName:      NormalizeClientName(in.ClientName),
		StartTime:       in.Start.UTC(),
		EndTime:         &end,
		DurationSeconds: duration,
		Price:           price,
		CreatedBy:       in.CreatedBy,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.SessionStopped(table.ID, price)
	s.logger.Info("manual billiard session recorded",
		zap.Int64("session_id", session.ID),
		zap.String("table", table.ID),
		zap.Int64("duration_seconds", duration),
		zap.Int64("price", price),
	)
	return session, nil
}

// CurrentPrice is the live price of a running session, or the frozen price of a stopped one.
func (s *SessionsService) CurrentPrice(ctx context.Context, session *models.BilliardSession) (int64, error) {
	if !session.IsActive {
		return session.Price, nil
	}
	tariff, err := s.tariffs.ActiveTariff(ctx)
	if err != nil {
		return 0, err
	}
	return ComputePrice(elapsedSeconds(session.StartTime, s.clock.Now()), tariff)
}

// Get returns a session with its live figures.
func (s *SessionsService) Get(ctx context.Context, id int64) (*SessionView, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tariff, err := s.tariffs.ActiveTariff(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.view(*session, tariff, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListActive returns running sessions with their live figures.
func (s *SessionsService) ListActive(ctx context.Context) ([]SessionView, error) {
	sessions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, sessions)
}

// History returns stopped sessions matching f, newest first.
func (s *SessionsService) History(ctx context.Context, f HistoryFilter) ([]SessionView, error) {
	filter := repository.SessionFilter{Table: strings.TrimSpace(f.Table), IsPaid: f.IsPaid}
	if f.From != "" {
		day, err := s.calendar.Day(f.From)
		if err != nil {
			return nil, err
		}
		filter.From = &day.From
	}
	if f.To != "" {
		day, err := s.calendar.Day(f.To)
		if err != nil {
			return nil, err
		}
		filter.To = &day.To
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, apperr.Validation("date range is empty")
	}

	sessions, err := s.repo.ListStopped(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, sessions)
}

// LiveSnapshot reports every table with its running session, if any.
func (s *SessionsService) LiveSnapshot(ctx context.Context) (*LiveSnapshot, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	byTable := make(map[string]*SessionView, len(active))
	for i := range active {
		byTable[active[i].TableIdentifier] = &active[i]
	}

	snap := &LiveSnapshot{
		Timestamp:   s.clock.Now(),
		ActiveCount: len(active),
		Tables:      make([]LiveTable, 0, len(tables)),
	}
	for _, t := range tables {
		if !t.IsActive {
			continue
		}
		snap.Tables = append(snap.Tables, LiveTable{Table: t, Session: byTable[t.ID]})
	}
	return snap, nil
}

func (s *SessionsService) views(ctx context.Context, sessions []models.BilliardSession) ([]SessionView, error) {
	out := make([]SessionView, 0, len(sessions))
	if len(sessions) == 0 {
		return out, nil
	}
	tariff, err := s.tariffs.ActiveTariff(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, session := range sessions {
		v, err := s.view(session, tariff, now)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *SessionsService) view(session models.BilliardSession, tariff models.Tariff, now time.Time) (SessionView, error) {
	v := SessionView{
		BilliardSession: session,
		ElapsedSeconds:  session.DurationSeconds,
		CurrentPrice:    session.Price,
	}
	if session.IsActive {
		v.ElapsedSeconds = elapsedSeconds(session.StartTime, now)
		price, err := ComputePrice(v.ElapsedSeconds, tariff)
		if err != nil {
			return SessionView{}, err
		}
		v.CurrentPrice = price
	}
	v.FormattedDuration = FormatDuration(v.ElapsedSeconds)
	v.FormattedPrice = FormatAmount(v.CurrentPrice, s.currency)
	return v, nil
}

// claim takes the cross-instance claim on a table. A claim held for a session that the database
// still shows running on the table rejects the start. Any other surviving claim is stale and gets
// overwritten after the insert. Store failures never block a start.
func (s *SessionsService) claim(ctx context.Context, session *models.BilliardSession) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	table := session.TableIdentifier
	ok, err := s.store.Claim(ctx, toClaim(session))
	if err != nil {
		s.logger.Warn("table claim failed", zap.String("table", table), zap.Error(err))
		return false, nil
	}
	if ok {
		return true, nil
	}

	existing, err := s.store.Get(ctx, table)
	if err != nil {
		s.logger.Warn("table claim lookup failed", zap.String("table", table), zap.Error(err))
		return false, nil
	}
	if existing == nil {
		return false, nil
	}
	if existing.SessionID != 0 {
		holder, err := s.repo.GetByID(ctx, existing.SessionID)
		switch {
		case err == nil && holder.IsActive && holder.TableIdentifier == table:
			return false, apperr.Conflict("table %s is held by active session %d", table, holder.ID)
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return false, err
		}
	}
	s.logger.Warn("replacing stale table claim",
		zap.String("table", table),
		zap.Int64("stale_session_id", existing.SessionID),
	)
	return false, nil
}

func (s *SessionsService) saveClaim(ctx context.Context, session *models.BilliardSession) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, toClaim(session)); err != nil {
		s.logger.Warn("table claim save failed", zap.String("table", session.TableIdentifier), zap.Error(err))
	}
}

func (s *SessionsService) release(ctx context.Context, table string) {
	if s.store == nil {
		return
	}
	if err := s.store.Release(ctx, table); err != nil {
		s.logger.Warn("table claim release failed", zap.String("table", table), zap.Error(err))
	}
}

func toClaim(session *models.BilliardSession) redisstore.ActiveTable {
	return redisstore.ActiveTable{
		SessionID:  session.ID,
		Table:      session.TableIdentifier,
		ClientName: session.ClientName,
		StartTime:  session.StartTime,
	}
}

func elapsedSeconds(start, end time.Time) int64 {
	d := int64(end.Sub(start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}
