package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/auth"
	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/engine"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	db       TxRunner
	eng      *engine.Engine
	accounts account.Repository
	entries  ledger.Repository
	reauth   auth.Reauthenticator
	logger   *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	logger *slog.Logger,
	db TxRunner,
	eng *engine.Engine,
	accounts account.Repository,
	entries ledger.Repository,
	reauth auth.Reauthenticator,
) AccountService {
	return &AccountServiceImpl{
		db:       db,
		eng:      eng,
		accounts: accounts,
		entries:  entries,
		reauth:   reauth,
		logger:   logger,
	}
}

// ListBalances ensures both accounts exist, then computes each balance and the
// simple sum across them
func (s *AccountServiceImpl) ListBalances(ctx context.Context, userID uuid.UUID) ([]engine.AccountBalance, int64, error) {
	var balances []engine.AccountBalance

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		eng := s.eng.WithTx(tx)
		if _, err := eng.EnsureAccounts(ctx, userID); err != nil {
			return err
		}

		var err error
		balances, err = eng.ComputeBalances(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to list account balances", "user_id", userID.String(), "error", err)
		return nil, 0, err
	}

	return balances, engine.TotalBalance(balances), nil
}

// CorrectBalance re-checks the password, then re-anchors the account's opening
// balance so its computed balance equals currentValue. Journal entries are
// never touched.
func (s *AccountServiceImpl) CorrectBalance(ctx context.Context, userID uuid.UUID, accountType shared.AccountType, currentValue int64, password string) error {
	if err := s.reauth.Reauthenticate(ctx, userID, password); err != nil {
		return err
	}

	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.eng.WithTx(tx).CorrectOpeningBalance(ctx, userID, accountType, currentValue)
	})
}

// ListEntries returns the paginated journal history of one account, newest
// first
func (s *AccountServiceImpl) ListEntries(ctx context.Context, userID uuid.UUID, accountType shared.AccountType, page, perPage int) ([]*ledger.Entry, int64, error) {
	acc, err := s.accounts.GetByUserAndType(ctx, userID, accountType)
	if err != nil {
		return nil, 0, err
	}
	if acc == nil {
		return []*ledger.Entry{}, 0, nil
	}

	offset := (page - 1) * perPage
	entries, err := s.entries.ListByAccount(ctx, acc.ID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entries.CountByAccount(ctx, acc.ID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
