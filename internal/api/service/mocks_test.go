package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/domain/transfer"
	"github.com/fintrack-ledger/internal/engine"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxRunner satisfies TxRunner without a database; the mocks' WithTx
// returns the mock itself, so the nil tx never gets dereferenced
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

func testEngine(accounts account.Repository, entries ledger.Repository, expenses expense.Repository, transfers transfer.Repository, payments salary.Repository) *engine.Engine {
	cutover := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	return engine.New(testLogger(), cutover, accounts, entries, expenses, transfers, payments)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, accountType shared.AccountType) (*account.Account, error) {
	args := m.Called(ctx, userID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateOpeningBalance(ctx context.Context, userID, id uuid.UUID, openingBalance int64) error {
	args := m.Called(ctx, userID, id, openingBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return m
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID, accountID uuid.UUID, amount int64, occurredOn time.Time, merchant, note *string) error {
	args := m.Called(ctx, userID, sourceType, sourceID, accountID, amount, occurredOn, merchant, note)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, sourceType, sourceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ExistsBySource(ctx context.Context, userID uuid.UUID, sourceType shared.SourceType, sourceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, sourceType, sourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) DeltaSince(ctx context.Context, accountID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, accountID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return m
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*expense.Expense, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) WithTx(tx pgx.Tx) expense.Repository {
	return m
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, tr *transfer.Transfer) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*transfer.Transfer, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTransferRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*transfer.Transfer, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransferRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*transfer.Transfer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) WithTx(tx pgx.Tx) transfer.Repository {
	return m
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *salary.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*salary.Payment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salary.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkReceived(ctx context.Context, userID, id uuid.UUID, receivedAt time.Time) error {
	args := m.Called(ctx, userID, id, receivedAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*salary.Payment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*salary.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*salary.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*salary.Payment), args.Error(1)
}

func (m *MockPaymentRepository) WithTx(tx pgx.Tx) salary.Repository {
	return m
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockReportArchive struct {
	mock.Mock
}

func (m *MockReportArchive) Save(ctx context.Context, report *engine.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportArchive) Latest(ctx context.Context, userID uuid.UUID) (*engine.Report, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Report), args.Error(1)
}

func (m *MockReportArchive) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*engine.Report, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*engine.Report), args.Error(1)
}

type MockReauthenticator struct {
	mock.Mock
}

func (m *MockReauthenticator) Reauthenticate(ctx context.Context, userID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}
