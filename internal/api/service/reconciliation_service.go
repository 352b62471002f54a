package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/engine"
)

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	eng     *engine.Engine
	archive ReportArchive
	logger  *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(logger *slog.Logger, eng *engine.Engine, archive ReportArchive) ReconciliationService {
	return &ReconciliationServiceImpl{
		eng:     eng,
		archive: archive,
		logger:  logger,
	}
}

// Run executes the auditor over the user's live records and journal, archives
// the report, and returns it. An archive failure is logged but never hides
// the findings from the caller.
func (s *ReconciliationServiceImpl) Run(ctx context.Context, userID uuid.UUID) (*engine.Report, error) {
	report, err := s.eng.Reconcile(ctx, userID)
	if err != nil {
		s.logger.Error("Reconciliation run failed", "user_id", userID.String(), "error", err)
		return nil, err
	}

	if err := s.archive.Save(ctx, report); err != nil {
		s.logger.Warn("Failed to archive reconciliation report",
			"report_id", report.ID.String(),
			"user_id", userID.String(),
			"error", err,
		)
	}

	if !report.OK {
		s.logger.Warn("Reconciliation found drift",
			"report_id", report.ID.String(),
			"user_id", userID.String(),
			"findings", len(report.Findings),
		)
	}

	return report, nil
}

// Latest returns the most recent archived report, or nil when the auditor has
// never run for the user
func (s *ReconciliationServiceImpl) Latest(ctx context.Context, userID uuid.UUID) (*engine.Report, error) {
	report, err := s.archive.Latest(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load latest reconciliation report", "user_id", userID.String(), "error", err)
		return nil, err
	}
	return report, nil
}

// History returns archived reports newest first, paginated
func (s *ReconciliationServiceImpl) History(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*engine.Report, error) {
	offset := (page - 1) * perPage
	reports, err := s.archive.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list reconciliation reports", "user_id", userID.String(), "error", err)
		return nil, err
	}
	return reports, nil
}
