package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/metrics"
	"bclub/backend/services/counter-service/internal/models"
)

// PaymentToggler flips the paid flag of one record. A non-empty client scopes the lookup.
type PaymentToggler interface {
	TogglePaid(ctx context.Context, id int64, client string) (bool, error)
}

// TogglePaymentInput identifies the record whose payment state flips.
type TogglePaymentInput struct {
	Kind       models.Category
	ID         int64
	ClientName string
}

// PaymentsService reconciles payment state per record and per client.
type PaymentsService struct {
	ledger   LedgerRepository
	togglers map[models.Category]PaymentToggler
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewPaymentsService builds PaymentsService.
func NewPaymentsService(ledger LedgerRepository, billiard, console, bar PaymentToggler, m *metrics.Metrics, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{
		ledger: ledger,
		togglers: map[models.Category]PaymentToggler{
			models.CategoryBilliard: billiard,
			models.CategoryConsole:  console,
			models.CategoryBar:      bar,
		},
		metrics: m,
		logger:  logger,
	}
}

// TogglePayment flips is_paid on one record and returns the new value. An empty ClientName
// toggles regardless of owner; a blank one is rejected so the client scope is never dropped.
func (s *PaymentsService) TogglePayment(ctx context.Context, in TogglePaymentInput) (bool, error) {
	toggler, ok := s.togglers[in.Kind]
	if !ok || toggler == nil {
		return false, apperr.Validation("unknown record kind %q", in.Kind)
	}
	client := strings.TrimSpace(in.ClientName)
	if client == "" && in.ClientName != "" {
		return false, apperr.Validation("client name is required")
	}
	paid, err := toggler.TogglePaid(ctx, in.ID, client)
	if err != nil {
		return false, err
	}
	s.logger.Info("payment toggled",
		zap.String("kind", string(in.Kind)),
		zap.Int64("id", in.ID),
		zap.Bool("is_paid", paid),
	)
	return paid, nil
}

// MarkAllPaid settles every billable record of a client. Running sessions are skipped.
func (s *PaymentsService) MarkAllPaid(ctx context.Context, name string) (models.BulkResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.BulkResult{}, apperr.Validation("client name is required")
	}
	res, err := s.ledger.MarkAllPaid(ctx, name)
	if err != nil {
		return models.BulkResult{}, err
	}
	s.recordBulk("mark_paid", res)
	s.logger.Info("client marked paid",
		zap.String("client", name),
		zap.Int64("billiard", res.Billiard),
		zap.Int64("console", res.Console),
		zap.Int64("bar", res.Bar),
	)
	return res, nil
}

// DeleteAllPaid removes every paid record of a client.
func (s *PaymentsService) DeleteAllPaid(ctx context.Context, name string) (models.BulkResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.BulkResult{}, apperr.Validation("client name is required")
	}
	res, err := s.ledger.DeleteAllPaid(ctx, name)
	if err != nil {
		return models.BulkResult{}, err
	}
	s.recordBulk("delete_paid", res)
	s.logger.Info("client paid records deleted",
		zap.String("client", name),
		zap.Int64("billiard", res.Billiard),
		zap.Int64("console", res.Console),
		zap.Int64("bar", res.Bar),
	)
	return res, nil
}

func (s *PaymentsService) recordBulk(op string, res models.BulkResult) {
	s.metrics.BulkRecords(op, string(models.CategoryBilliard), res.Billiard)
	s.metrics.BulkRecords(op, string(models.CategoryConsole), res.Console)
	s.metrics.BulkRecords(op, string(models.CategoryBar), res.Bar)
}
