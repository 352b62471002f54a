package shared

// AccountType identifies one of the two logical accounts kept per user
type AccountType string

const (
	AccountTypeCard AccountType = "card"
	AccountTypeCash AccountType = "cash"
)

// Valid reports whether the account type is one of the two known types
func (t AccountType) Valid() bool {
	return t == AccountTypeCard || t == AccountTypeCash
}

// Direction marks a ledger entry as money flowing into or out of an account
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// SourceType identifies the kind of source record that caused a ledger entry
type SourceType string

const (
	SourceTypeExpense        SourceType = "expense"
	SourceTypeTransfer       SourceType = "transfer"
	SourceTypeSalaryPayment  SourceType = "salary_payment"
	SourceTypeCashWithdrawal SourceType = "cash_withdrawal"
)

// CategoryTransfers is the reserved category id for expenses that are really
// account-to-account transfers. Expenses in this category are budget-excluded
// by convention and are candidates for conversion to a cash withdrawal.
const CategoryTransfers = "transfers"
