package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/domain/transfer"
	"github.com/fintrack-ledger/internal/engine"
)

// TxRunner runs a function inside one storage transaction. Satisfied by
// persistence.PostgresDB; substituted in tests.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// CreateExpenseInput carries the fields of a new or edited expense
type CreateExpenseInput struct {
	Amount             int64
	OccurredOn         time.Time
	Merchant           *string
	Note               *string
	PaymentMethod      shared.AccountType
	CategoryID         string
	ExcludedFromBudget bool
}

// CreateTransferInput carries the fields of a new transfer
type CreateTransferInput struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        int64
	OccurredOn    time.Time
	Note          *string
}

// BulkDeleteResult reports the outcome of a best-effort bulk delete
type BulkDeleteResult struct {
	Deleted []uuid.UUID
	Failed  []BulkDeleteFailure
}

// BulkDeleteFailure names one id the sweep could not delete and why
type BulkDeleteFailure struct {
	ID     uuid.UUID
	Reason string
}

// AccountService exposes account listing, history and the privileged balance
// correction
type AccountService interface {
	// ListBalances lazily provisions the two accounts and returns their
	// computed balances plus the simple sum across them
	ListBalances(ctx context.Context, userID uuid.UUID) ([]engine.AccountBalance, int64, error)

	// CorrectBalance re-anchors the opening balance after a password
	// re-check. Returns shared.ErrReauthenticationFailed on a bad password.
	CorrectBalance(ctx context.Context, userID uuid.UUID, accountType shared.AccountType, currentValue int64, password string) error

	// ListEntries returns the account's journal history, newest first
	ListEntries(ctx context.Context, userID uuid.UUID, accountType shared.AccountType, page, perPage int) ([]*ledger.Entry, int64, error)
}

// ExpenseService exposes the expense lifecycle, each mutation keeping the
// ledger in sync inside one transaction
type ExpenseService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*expense.Expense, error)
	Update(ctx context.Context, userID, id uuid.UUID, input CreateExpenseInput) (*expense.Expense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// BulkDelete applies the single-delete protocol per id; one failing id
	// never aborts the rest
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) BulkDeleteResult
	List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*expense.Expense, int64, error)

	// ConvertToWithdrawal turns a disguised cash withdrawal into an explicit
	// card-to-cash transfer and excludes the expense
	ConvertToWithdrawal(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error)
}

// TransferService exposes the transfer lifecycle
type TransferService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTransferInput) (*transfer.Transfer, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*transfer.Transfer, int64, error)
}

// SalaryService exposes the salary payment lifecycle
type SalaryService interface {
	Create(ctx context.Context, userID uuid.UUID, amount int64, paidOn time.Time) (*salary.Payment, error)

	// MarkReceived flips the payment to received and posts its single in
	// entry on the card account; retries post nothing twice
	MarkReceived(ctx context.Context, userID, paymentID uuid.UUID) (*salary.Payment, error)
	List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*salary.Payment, int64, error)
}

// ReconciliationService runs the auditor, archives its reports and exposes
// the archived history
type ReconciliationService interface {
	Run(ctx context.Context, userID uuid.UUID) (*engine.Report, error)

	// Latest returns the newest archived report, or nil when the auditor
	// has never run for the user
	Latest(ctx context.Context, userID uuid.UUID) (*engine.Report, error)

	// History returns archived reports newest first, paginated
	History(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*engine.Report, error)
}

// ImportService publishes imported expense rows to the processing pipeline
type ImportService interface {
	Submit(ctx context.Context, userID uuid.UUID, rows []CreateExpenseInput, correlationID string) (int, error)
}

// ReportArchive persists auditor reports and serves them back for history.
// Save failures are non-fatal; reads surface their errors to the caller.
type ReportArchive interface {
	Save(ctx context.Context, report *engine.Report) error
	Latest(ctx context.Context, userID uuid.UUID) (*engine.Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*engine.Report, error)
}
