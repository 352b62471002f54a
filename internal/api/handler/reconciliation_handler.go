package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-ledger/internal/api/middleware"
	"github.com/fintrack-ledger/internal/api/service"
)

// ReconciliationHandler handles HTTP requests for the reconciliation auditor
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Run executes the auditor and returns its findings. Drift comes back as
// report content with a 200, never as an error status.
func (h *ReconciliationHandler) Run(c *gin.Context) {
	userID := middleware.GetUserID(c)

	report, err := h.reconciliationService.Run(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to run reconciliation", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapReportToResponse(report))
}

// Latest returns the newest archived report without running the auditor again
func (h *ReconciliationHandler) Latest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	report, err := h.reconciliationService.Latest(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load latest reconciliation report", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}
	if report == nil {
		RespondNotFound(c, "No reconciliation report archived yet")
		return
	}

	RespondOK(c, mapReportToResponse(report))
}

// History lists archived reports newest first
func (h *ReconciliationHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	reports, err := h.reconciliationService.History(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list reconciliation reports", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ReconciliationResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, mapReportToResponse(r))
	}

	RespondOK(c, responses)
}
