package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// AccountBalance is one account's opening balance plus the journal delta since
// the cutover date
type AccountBalance struct {
	AccountID       uuid.UUID          `json:"account_id"`
	Type            shared.AccountType `json:"type"`
	Name            string             `json:"name"`
	OpeningBalance  int64              `json:"opening_balance"`
	ComputedBalance int64              `json:"computed_balance"`
}

// ComputeBalances computes every account balance for the user. Each account
// goes through the same per-account computation as ComputeBalance; the bulk
// path is just a loop, never a special case.
func (e *Engine) ComputeBalances(ctx context.Context, userID uuid.UUID) ([]AccountBalance, error) {
	accounts, err := e.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances := make([]AccountBalance, 0, len(accounts))
	for _, acc := range accounts {
		balance, err := e.ComputeBalance(ctx, acc)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, nil
}

// ComputeBalance computes a single account's balance:
// opening_balance + Σ(in) − Σ(out) over entries dated on or after the cutover
func (e *Engine) ComputeBalance(ctx context.Context, acc *account.Account) (AccountBalance, error) {
	delta, err := e.entries.DeltaSince(ctx, acc.ID, e.cutover)
	if err != nil {
		return AccountBalance{}, err
	}

	return AccountBalance{
		AccountID:       acc.ID,
		Type:            acc.Type,
		Name:            acc.Name,
		OpeningBalance:  acc.OpeningBalance,
		ComputedBalance: acc.OpeningBalance + delta,
	}, nil
}

// TotalBalance sums computed balances across accounts
func TotalBalance(balances []AccountBalance) int64 {
	var total int64
	for _, b := range balances {
		total += b.ComputedBalance
	}
	return total
}
