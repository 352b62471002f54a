// Package engine implements the ledger and balance engine: the account
// registry, the balance calculator, the mutation protocols that keep the
// journal consistent with every money-moving source record, and the
// reconciliation auditor that detects drift between the two.
package engine

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/domain/transfer"
)

// Engine wires the repositories together under one cutover date. Callers that
// need atomicity wrap an operation in a storage transaction and use WithTx so
// every repository call inside the protocol shares it.
type Engine struct {
	accounts  account.Repository
	entries   ledger.Repository
	expenses  expense.Repository
	transfers transfer.Repository
	payments  salary.Repository
	cutover   time.Time
	logger    *slog.Logger
}

// New creates an engine over the given repositories. Entries dated before
// cutover are kept for history but never affect computed balances.
func New(
	logger *slog.Logger,
	cutover time.Time,
	accounts account.Repository,
	entries ledger.Repository,
	expenses expense.Repository,
	transfers transfer.Repository,
	payments salary.Repository,
) *Engine {
	return &Engine{
		accounts:  accounts,
		entries:   entries,
		expenses:  expenses,
		transfers: transfers,
		payments:  payments,
		cutover:   cutover,
		logger:    logger,
	}
}

// WithTx returns an engine whose repositories all run on the given transaction
func (e *Engine) WithTx(tx pgx.Tx) *Engine {
	return &Engine{
		accounts:  e.accounts.WithTx(tx),
		entries:   e.entries.WithTx(tx),
		expenses:  e.expenses.WithTx(tx),
		transfers: e.transfers.WithTx(tx),
		payments:  e.payments.WithTx(tx),
		cutover:   e.cutover,
		logger:    e.logger,
	}
}

// Cutover returns the configured cutover date
func (e *Engine) Cutover() time.Time {
	return e.cutover
}
