package handler

import (
	"time"

	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/domain/transfer"
	"github.com/fintrack-ledger/internal/engine"
)

// dateLayout is the wire format for calendar dates
const dateLayout = "2006-01-02"

// AccountBalanceResponse represents one account with its computed balance
type AccountBalanceResponse struct {
	AccountID      string `json:"account_id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	OpeningBalance int64  `json:"opening_balance"`
	Balance        int64  `json:"balance"`
}

// AccountListResponse represents the two accounts and their simple sum
type AccountListResponse struct {
	Accounts []AccountBalanceResponse `json:"accounts"`
	Total    int64                    `json:"total"`
}

// CorrectBalanceRequest represents a manual balance correction. The balance
// may be zero or negative (an overdrawn card), so it carries no binding rule.
type CorrectBalanceRequest struct {
	CurrentBalance int64  `json:"current_balance"`
	Password       string `json:"password" binding:"required"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	Direction  string `json:"direction"`
	Amount     int64  `json:"amount"`
	OccurredOn string `json:"occurred_on"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	Merchant   string `json:"merchant,omitempty"`
	Note       string `json:"note,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// CreateExpenseRequest represents a request to create or update an expense
type CreateExpenseRequest struct {
	Amount             int64   `json:"amount" binding:"required,gt=0"`
	OccurredOn         string  `json:"occurred_on" binding:"required"`
	Merchant           *string `json:"merchant,omitempty"`
	Note               *string `json:"note,omitempty"`
	PaymentMethod      string  `json:"payment_method" binding:"required,oneof=card cash"`
	CategoryID         string  `json:"category_id,omitempty"`
	ExcludedFromBudget bool    `json:"excluded_from_budget"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID                 string  `json:"id"`
	Amount             int64   `json:"amount"`
	OccurredOn         string  `json:"occurred_on"`
	Merchant           *string `json:"merchant,omitempty"`
	Note               *string `json:"note,omitempty"`
	PaymentMethod      string  `json:"payment_method"`
	CategoryID         string  `json:"category_id,omitempty"`
	ExcludedFromBudget bool    `json:"excluded_from_budget"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// BulkDeleteExpensesRequest represents a request to delete several expenses
type BulkDeleteExpensesRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// BulkDeleteExpensesResponse reports per-id outcomes of a bulk delete
type BulkDeleteExpensesResponse struct {
	Deleted []string            `json:"deleted"`
	Failed  []BulkDeleteFailure `json:"failed,omitempty"`
}

// BulkDeleteFailure names one id that could not be deleted
type BulkDeleteFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ConvertExpenseResponse returns the transfer created by a conversion
type ConvertExpenseResponse struct {
	TransferID string `json:"transfer_id"`
}

// CreateTransferRequest represents a request to create a transfer
type CreateTransferRequest struct {
	FromAccountID string  `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string  `json:"to_account_id" binding:"required,uuid"`
	Amount        int64   `json:"amount" binding:"required,gt=0"`
	OccurredOn    string  `json:"occurred_on" binding:"required"`
	Note          *string `json:"note,omitempty"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID            string  `json:"id"`
	FromAccountID string  `json:"from_account_id"`
	ToAccountID   string  `json:"to_account_id"`
	Amount        int64   `json:"amount"`
	OccurredOn    string  `json:"occurred_on"`
	Note          *string `json:"note,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// CreateSalaryPaymentRequest represents a request to record an expected payment
type CreateSalaryPaymentRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	PaidOn string `json:"paid_on" binding:"required"`
}

// SalaryPaymentResponse represents a salary payment in API responses
type SalaryPaymentResponse struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	PaidOn     string `json:"paid_on"`
	Received   bool   `json:"received"`
	ReceivedAt string `json:"received_at,omitempty"`
}

// FindingResponse represents one auditor check in API responses
type FindingResponse struct {
	Check         string   `json:"check"`
	Checked       int      `json:"checked"`
	MissingIDs    []string `json:"missing_ids,omitempty"`
	UnexpectedIDs []string `json:"unexpected_ids,omitempty"`
}

// ReconciliationResponse represents an auditor report in API responses
type ReconciliationResponse struct {
	ReportID string            `json:"report_id"`
	OK       bool              `json:"ok"`
	RanAt    string            `json:"ran_at"`
	Findings []FindingResponse `json:"findings"`
}

// ImportExpensesRequest represents a batch of expense rows to import
type ImportExpensesRequest struct {
	Rows []CreateExpenseRequest `json:"rows" binding:"required,min=1,dive"`
}

// ImportExpensesResponse acknowledges an accepted import batch
type ImportExpensesResponse struct {
	Accepted int `json:"accepted"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

func mapBalanceToResponse(b engine.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:      b.AccountID.String(),
		Type:           string(b.Type),
		Name:           b.Name,
		OpeningBalance: b.OpeningBalance,
		Balance:        b.ComputedBalance,
	}
}

func mapEntryToResponse(e *ledger.Entry) EntryResponse {
	resp := EntryResponse{
		ID:         e.ID.String(),
		AccountID:  e.AccountID.String(),
		Direction:  string(e.Direction),
		Amount:     e.Amount,
		OccurredOn: e.OccurredOn.Format(dateLayout),
		SourceType: string(e.SourceType),
		SourceID:   e.SourceID.String(),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
	if e.Merchant != nil {
		resp.Merchant = *e.Merchant
	}
	if e.Note != nil {
		resp.Note = *e.Note
	}
	return resp
}

func mapExpenseToResponse(e *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                 e.ID.String(),
		Amount:             e.Amount,
		OccurredOn:         e.OccurredOn.Format(dateLayout),
		Merchant:           e.Merchant,
		Note:               e.Note,
		PaymentMethod:      string(e.PaymentMethod),
		CategoryID:         e.CategoryID,
		ExcludedFromBudget: e.ExcludedFromBudget,
		CreatedAt:          e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          e.UpdatedAt.Format(time.RFC3339),
	}
}

func mapTransferToResponse(t *transfer.Transfer) TransferResponse {
	return TransferResponse{
		ID:            t.ID.String(),
		FromAccountID: t.FromAccountID.String(),
		ToAccountID:   t.ToAccountID.String(),
		Amount:        t.Amount,
		OccurredOn:    t.OccurredOn.Format(dateLayout),
		Note:          t.Note,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func mapPaymentToResponse(p *salary.Payment) SalaryPaymentResponse {
	resp := SalaryPaymentResponse{
		ID:       p.ID.String(),
		Amount:   p.Amount,
		PaidOn:   p.PaidOn.Format(dateLayout),
		Received: p.Received,
	}
	if p.ReceivedAt != nil {
		resp.ReceivedAt = p.ReceivedAt.Format(time.RFC3339)
	}
	return resp
}

func mapReportToResponse(r *engine.Report) ReconciliationResponse {
	findings := make([]FindingResponse, 0, len(r.Findings))
	for _, f := range r.Findings {
		fr := FindingResponse{
			Check:   f.Check,
			Checked: f.Checked,
		}
		for _, id := range f.MissingIDs {
			fr.MissingIDs = append(fr.MissingIDs, id.String())
		}
		for _, id := range f.UnexpectedIDs {
			fr.UnexpectedIDs = append(fr.UnexpectedIDs, id.String())
		}
		findings = append(findings, fr)
	}

	return ReconciliationResponse{
		ReportID: r.ID.String(),
		OK:       r.OK,
		RanAt:    r.RanAt.Format(time.RFC3339),
		Findings: findings,
	}
}
