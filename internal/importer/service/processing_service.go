package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/engine"
)

const uniqueViolationCode = "23505"

// ImportProcessingService implements the ProcessingService interface. Each row
// goes through the same create protocol as a manual expense: source row and
// ledger entry commit in one transaction or not at all.
type ImportProcessingService struct {
	db       TxRunner
	eng      *engine.Engine
	expenses expense.Repository
	logger   *slog.Logger
}

// NewImportProcessingService creates a new import processing service
func NewImportProcessingService(logger *slog.Logger, db TxRunner, eng *engine.Engine, expenses expense.Repository) *ImportProcessingService {
	return &ImportProcessingService{
		db:       db,
		eng:      eng,
		expenses: expenses,
		logger:   logger,
	}
}

// ProcessExpense validates the row and creates the expense under the row's
// pre-assigned id. Kafka delivers at least once; a redelivery hits the
// primary key and is dropped as already processed.
func (s *ImportProcessingService) ProcessExpense(ctx context.Context, row *shared.ImportedExpense) error {
	logger := s.logger
	if row.CorrelationID != "" {
		logger = s.logger.With("correlation_id", row.CorrelationID)
	}

	var merchant, note *string
	if row.Merchant != "" {
		merchant = &row.Merchant
	}
	if row.Note != "" {
		note = &row.Note
	}

	exp, err := expense.NewExpense(row.UserID, row.Amount, row.OccurredOn, merchant, note, row.PaymentMethod, row.CategoryID, row.ExcludedFromBudget)
	if err != nil {
		return err
	}
	if row.RowID != uuid.Nil {
		exp.ID = row.RowID
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.expenses.WithTx(tx).Create(ctx, exp); err != nil {
			return err
		}
		return s.eng.WithTx(tx).OnExpenseCreated(ctx, exp)
	})
	if err != nil {
		if isUniqueViolation(err) {
			logger.Info("Imported expense already processed, skipping",
				"expense_id", exp.ID.String(),
				"import_id", row.ImportID.String(),
			)
			return nil
		}
		logger.Error("Failed to process imported expense",
			"expense_id", exp.ID.String(),
			"import_id", row.ImportID.String(),
			"error", err,
		)
		return err
	}

	logger.Info("Imported expense created",
		"expense_id", exp.ID.String(),
		"import_id", row.ImportID.String(),
		"user_id", row.UserID.String(),
		"amount", row.Amount,
	)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
