package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/engine"
)

// SalaryServiceImpl implements the SalaryService interface
type SalaryServiceImpl struct {
	db       TxRunner
	eng      *engine.Engine
	payments salary.Repository
	logger   *slog.Logger
}

// NewSalaryService creates a new salary payment service
func NewSalaryService(logger *slog.Logger, db TxRunner, eng *engine.Engine, payments salary.Repository) SalaryService {
	return &SalaryServiceImpl{
		db:       db,
		eng:      eng,
		payments: payments,
		logger:   logger,
	}
}

// Create records an expected payment; nothing lands on the ledger until it is
// marked received
func (s *SalaryServiceImpl) Create(ctx context.Context, userID uuid.UUID, amount int64, paidOn time.Time) (*salary.Payment, error) {
	payment, err := salary.NewPayment(userID, amount, paidOn)
	if err != nil {
		return nil, err
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to create salary payment", "user_id", userID.String(), "error", err)
		return nil, err
	}

	return payment, nil
}

// MarkReceived posts the payment's single in entry on the card account and
// flips the received flag, in one transaction. Calling it again changes
// nothing.
func (s *SalaryServiceImpl) MarkReceived(ctx context.Context, userID, paymentID uuid.UUID) (*salary.Payment, error) {
	var payment *salary.Payment

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.payments.WithTx(tx)

		p, err := repo.GetByID(ctx, userID, paymentID)
		if err != nil {
			return err
		}

		if err := s.eng.WithTx(tx).OnSalaryPaymentReceived(ctx, p); err != nil {
			return err
		}

		now := time.Now()
		if err := repo.MarkReceived(ctx, userID, paymentID, now); err != nil {
			return err
		}

		p.Received = true
		if p.ReceivedAt == nil {
			p.ReceivedAt = &now
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Salary payment received",
		"payment_id", paymentID.String(),
		"user_id", userID.String(),
		"amount", payment.Amount,
	)
	return payment, nil
}

// List retrieves a paginated list of the user's payments, newest first.
// Returns payments, total count, and any error.
func (s *SalaryServiceImpl) List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*salary.Payment, int64, error) {
	offset := (page - 1) * perPage

	payments, err := s.payments.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.payments.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
