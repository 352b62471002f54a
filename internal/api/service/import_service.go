package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/platform/messaging/producers"
)

// ImportServiceImpl implements the ImportService interface
type ImportServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewImportService creates a new expense import service
func NewImportService(logger *slog.Logger, producer producers.MessagePublisher) ImportService {
	return &ImportServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// Submit publishes one message per row, keyed by user id so a user's rows
// stay ordered within a partition. Returns how many rows were accepted; a
// publish failure aborts the batch at that row.
func (s *ImportServiceImpl) Submit(ctx context.Context, userID uuid.UUID, rows []CreateExpenseInput, correlationID string) (int, error) {
	importID := uuid.New()

	for i, row := range rows {
		msg := &shared.ImportedExpense{
			ImportID:           importID,
			RowID:              uuid.New(),
			UserID:             userID,
			Amount:             row.Amount,
			OccurredOn:         row.OccurredOn,
			PaymentMethod:      row.PaymentMethod,
			CategoryID:         row.CategoryID,
			ExcludedFromBudget: row.ExcludedFromBudget,
			CorrelationID:      correlationID,
			Timestamp:          time.Now(),
		}
		if row.Merchant != nil {
			msg.Merchant = *row.Merchant
		}
		if row.Note != nil {
			msg.Note = *row.Note
		}

		if err := s.producer.Publish(ctx, userID.String(), msg); err != nil {
			s.logger.Error("Failed to publish imported expense row",
				"import_id", importID.String(),
				"user_id", userID.String(),
				"row", i,
				"error", err,
			)
			return i, err
		}
	}

	s.logger.Info("Expense import submitted",
		"import_id", importID.String(),
		"user_id", userID.String(),
		"rows", len(rows),
	)
	return len(rows), nil
}
