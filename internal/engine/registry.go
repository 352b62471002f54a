package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// Accounts carries the ids of a user's two accounts
type Accounts struct {
	CardID uuid.UUID
	CashID uuid.UUID
}

// EnsureAccounts lazily provisions the card and cash accounts for the user.
// Idempotent and safe under concurrent callers: the (user_id, type) unique
// constraint decides the race, and an insert conflict means another request
// already created the account, so it is re-read.
func (e *Engine) EnsureAccounts(ctx context.Context, userID uuid.UUID) (Accounts, error) {
	card, err := e.ensureAccount(ctx, userID, shared.AccountTypeCard)
	if err != nil {
		return Accounts{}, err
	}

	cash, err := e.ensureAccount(ctx, userID, shared.AccountTypeCash)
	if err != nil {
		return Accounts{}, err
	}

	return Accounts{CardID: card.ID, CashID: cash.ID}, nil
}

// GetAccountID looks up an existing account id without provisioning
func (e *Engine) GetAccountID(ctx context.Context, userID uuid.UUID, accountType shared.AccountType) (uuid.UUID, error) {
	if !accountType.Valid() {
		return uuid.Nil, shared.ErrUnknownAccountType
	}

	acc, err := e.accounts.GetByUserAndType(ctx, userID, accountType)
	if err != nil {
		return uuid.Nil, err
	}
	if acc == nil {
		return uuid.Nil, account.ErrAccountNotFound{}
	}

	return acc.ID, nil
}

// ensureAccount returns the user's account of the given type, creating it on
// first access
func (e *Engine) ensureAccount(ctx context.Context, userID uuid.UUID, accountType shared.AccountType) (*account.Account, error) {
	acc, err := e.accounts.GetByUserAndType(ctx, userID, accountType)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}

	acc, err = account.NewAccount(userID, accountType)
	if err != nil {
		return nil, err
	}

	if err := e.accounts.Create(ctx, acc); err != nil {
		// Lost the provisioning race to a concurrent request; the account
		// exists now, re-read it.
		var dupErr account.ErrDuplicateAccount
		if errors.As(err, &dupErr) {
			existing, readErr := e.accounts.GetByUserAndType(ctx, userID, accountType)
			if readErr != nil {
				return nil, readErr
			}
			if existing == nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, err
	}

	e.logger.Info("provisioned account", "user_id", userID.String(), "type", accountType)
	return acc, nil
}
