package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/domain/ledger"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// Check names used in reconciliation findings
const (
	CheckExpenseEntries  = "expense_entries"
	CheckSalaryEntries   = "salary_entries"
	CheckTransferEntries = "transfer_entries"
	CheckOrphanEntries   = "orphan_entries"
)

// Finding is one matching rule's result: how many source records were
// checked, which ones miss their required entries, and which ones own entries
// they should not have.
type Finding struct {
	Check         string      `json:"check" bson:"check"`
	Checked       int         `json:"checked" bson:"checked"`
	MissingIDs    []uuid.UUID `json:"missing_ids,omitempty" bson:"missing_ids,omitempty"`
	UnexpectedIDs []uuid.UUID `json:"unexpected_ids,omitempty" bson:"unexpected_ids,omitempty"`
}

// OK reports whether the finding carries no violations
func (f Finding) OK() bool {
	return len(f.MissingIDs) == 0 && len(f.UnexpectedIDs) == 0
}

// computeOK derives the overall verdict: clean only when every finding is
func (r *Report) computeOK() bool {
	for _, f := range r.Findings {
		if !f.OK() {
			return false
		}
	}
	return true
}

// Report is the auditor's full output for one user. Inconsistencies are
// reported findings, never errors; running the auditor mutates nothing.
type Report struct {
	ID       uuid.UUID `json:"id" bson:"_id"`
	UserID   uuid.UUID `json:"user_id" bson:"user_id"`
	OK       bool      `json:"ok" bson:"ok"`
	RanAt    time.Time `json:"ran_at" bson:"ran_at"`
	Findings []Finding `json:"findings" bson:"findings"`
}

// entryKey indexes entries by the source record they claim to come from
type entryKey struct {
	sourceType shared.SourceType
	sourceID   uuid.UUID
}

// Reconcile cross-checks journal completeness against the source-record
// tables. For each source type it applies the matching rule from the data
// model invariants and reports violations; the orphan check flags entries
// whose source record no longer exists.
func (e *Engine) Reconcile(ctx context.Context, userID uuid.UUID) (*Report, error) {
	entries, err := e.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[entryKey][]*ledger.Entry)
	for _, entry := range entries {
		key := entryKey{sourceType: entry.SourceType, sourceID: entry.SourceID}
		byKey[key] = append(byKey[key], entry)
	}

	report := &Report{
		ID:     uuid.New(),
		UserID: userID,
		RanAt:  time.Now().UTC(),
	}

	expenseFinding, expenseIDs, err := e.auditExpenses(ctx, userID, byKey)
	if err != nil {
		return nil, err
	}
	salaryFinding, paymentIDs, err := e.auditSalaryPayments(ctx, userID, byKey)
	if err != nil {
		return nil, err
	}
	transferFinding, transferIDs, err := e.auditTransfers(ctx, userID, byKey)
	if err != nil {
		return nil, err
	}
	orphanFinding := auditOrphans(entries, expenseIDs, transferIDs, paymentIDs)

	report.Findings = []Finding{expenseFinding, salaryFinding, transferFinding, orphanFinding}
	report.OK = report.computeOK()

	return report, nil
}

// auditExpenses checks raw source_id presence: a counted expense must own
// exactly one out entry, an excluded one must own none. A stale entry left
// behind by a flag flip shows up as unexpected.
func (e *Engine) auditExpenses(ctx context.Context, userID uuid.UUID, byKey map[entryKey][]*ledger.Entry) (Finding, map[uuid.UUID]bool, error) {
	expenses, err := e.expenses.ListAllByUser(ctx, userID)
	if err != nil {
		return Finding{}, nil, err
	}

	finding := Finding{Check: CheckExpenseEntries, Checked: len(expenses)}
	live := make(map[uuid.UUID]bool, len(expenses))

	for _, exp := range expenses {
		live[exp.ID] = true
		owned := byKey[entryKey{sourceType: shared.SourceTypeExpense, sourceID: exp.ID}]

		switch {
		case exp.ExcludedFromBudget && len(owned) > 0:
			finding.UnexpectedIDs = append(finding.UnexpectedIDs, exp.ID)
		case !exp.ExcludedFromBudget && len(owned) == 0:
			finding.MissingIDs = append(finding.MissingIDs, exp.ID)
		case !exp.ExcludedFromBudget && len(owned) > 1:
			finding.UnexpectedIDs = append(finding.UnexpectedIDs, exp.ID)
		}
	}

	return finding, live, nil
}

// auditSalaryPayments expects exactly one in entry per received payment and
// none for pending ones
func (e *Engine) auditSalaryPayments(ctx context.Context, userID uuid.UUID, byKey map[entryKey][]*ledger.Entry) (Finding, map[uuid.UUID]bool, error) {
	payments, err := e.payments.ListAllByUser(ctx, userID)
	if err != nil {
		return Finding{}, nil, err
	}

	finding := Finding{Check: CheckSalaryEntries, Checked: len(payments)}
	live := make(map[uuid.UUID]bool, len(payments))

	for _, payment := range payments {
		live[payment.ID] = true
		owned := byKey[entryKey{sourceType: shared.SourceTypeSalaryPayment, sourceID: payment.ID}]

		switch {
		case payment.Received && len(owned) == 0:
			finding.MissingIDs = append(finding.MissingIDs, payment.ID)
		case payment.Received && len(owned) > 1:
			finding.UnexpectedIDs = append(finding.UnexpectedIDs, payment.ID)
		case !payment.Received && len(owned) > 0:
			finding.UnexpectedIDs = append(finding.UnexpectedIDs, payment.ID)
		}
	}

	return finding, live, nil
}

// auditTransfers expects exactly one in and one out entry sharing each live
// transfer's id, whether the pair is tagged transfer or cash_withdrawal
func (e *Engine) auditTransfers(ctx context.Context, userID uuid.UUID, byKey map[entryKey][]*ledger.Entry) (Finding, map[uuid.UUID]bool, error) {
	transfers, err := e.transfers.ListAllByUser(ctx, userID)
	if err != nil {
		return Finding{}, nil, err
	}

	finding := Finding{Check: CheckTransferEntries, Checked: len(transfers)}
	live := make(map[uuid.UUID]bool, len(transfers))

	for _, tr := range transfers {
		live[tr.ID] = true

		var ins, outs int
		for _, sourceType := range []shared.SourceType{shared.SourceTypeTransfer, shared.SourceTypeCashWithdrawal} {
			for _, entry := range byKey[entryKey{sourceType: sourceType, sourceID: tr.ID}] {
				if entry.Direction == shared.DirectionIn {
					ins++
				} else {
					outs++
				}
			}
		}

		switch {
		case ins == 0 || outs == 0:
			finding.MissingIDs = append(finding.MissingIDs, tr.ID)
		case ins > 1 || outs > 1:
			finding.UnexpectedIDs = append(finding.UnexpectedIDs, tr.ID)
		}
	}

	return finding, live, nil
}

// auditOrphans flags entries whose source record no longer exists. Offending
// ids here are entry ids, not source ids.
func auditOrphans(entries []*ledger.Entry, expenseIDs, transferIDs, paymentIDs map[uuid.UUID]bool) Finding {
	finding := Finding{Check: CheckOrphanEntries, Checked: len(entries)}

	for _, entry := range entries {
		var alive bool
		switch entry.SourceType {
		case shared.SourceTypeExpense:
			alive = expenseIDs[entry.SourceID]
		case shared.SourceTypeTransfer, shared.SourceTypeCashWithdrawal:
			alive = transferIDs[entry.SourceID]
		case shared.SourceTypeSalaryPayment:
			alive = paymentIDs[entry.SourceID]
		}
		if !alive {
			finding.UnexpectedIDs = append(finding.UnexpectedIDs, entry.ID)
		}
	}

	return finding
}
