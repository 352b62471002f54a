package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/platform/persistence"
)

const paymentColumns = "id, user_id, amount, paid_on, received, received_at, created_at, updated_at"

// PaymentRepository implements the salary.Repository interface for PostgreSQL
type PaymentRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewPaymentRepository creates a new PostgreSQL salary payment repository
func NewPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) salary.Repository {
	return &PaymentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *PaymentRepository) WithTx(tx pgx.Tx) salary.Repository {
	return &PaymentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new salary payment
func (r *PaymentRepository) Create(ctx context.Context, payment *salary.Payment) error {
	query := `
		INSERT INTO salary_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Amount,
		payment.PaidOn,
		payment.Received,
		payment.ReceivedAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create salary payment", "id", payment.ID.String(), "error", err)
		return fmt.Errorf("failed to create salary payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its id, scoped to the owning user
func (r *PaymentRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*salary.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM salary_payments
		WHERE id = $1 AND user_id = $2
	`

	var payment salary.Payment
	err := r.querier.QueryRow(ctx, query, id, userID).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.Amount,
		&payment.PaidOn,
		&payment.Received,
		&payment.ReceivedAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, salary.ErrPaymentNotFound{PaymentID: id}
		}
		r.logger.Error("Failed to get salary payment", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get salary payment: %w", err)
	}

	return &payment, nil
}

// MarkReceived flips the received flag; repeat calls are harmless
func (r *PaymentRepository) MarkReceived(ctx context.Context, userID, id uuid.UUID, receivedAt time.Time) error {
	query := `
		UPDATE salary_payments
		SET received = TRUE, received_at = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	result, err := r.querier.Exec(ctx, query, receivedAt, id, userID)
	if err != nil {
		r.logger.Error("Failed to mark salary payment received", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark salary payment received: %w", err)
	}

	if result.RowsAffected() == 0 {
		return salary.ErrPaymentNotFound{PaymentID: id}
	}

	return nil
}

// ListByUser returns the user's payments newest first, paginated
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*salary.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM salary_payments
		WHERE user_id = $1
		ORDER BY paid_on DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list salary payments", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list salary payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// CountByUser returns the total number of the user's payments
func (r *PaymentRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM salary_payments WHERE user_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count salary payments", "user_id", userID.String(), "error", err)
		return 0, fmt.Errorf("failed to count salary payments: %w", err)
	}

	return count, nil
}

// ListAllByUser returns every payment of the user for the reconciliation auditor
func (r *PaymentRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*salary.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM salary_payments
		WHERE user_id = $1
		ORDER BY paid_on
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list all salary payments", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list all salary payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]*salary.Payment, error) {
	var payments []*salary.Payment
	for rows.Next() {
		var payment salary.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.UserID,
			&payment.Amount,
			&payment.PaidOn,
			&payment.Received,
			&payment.ReceivedAt,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary payment: %w", err)
		}
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary payments: %w", err)
	}

	return payments, nil
}
