package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-ledger/internal/api/middleware"
	"github.com/fintrack-ledger/internal/api/service"
)

// ImportHandler handles HTTP requests for bulk expense imports
type ImportHandler struct {
	importService service.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(logger *slog.Logger, importService service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// Submit accepts a batch of expense rows and queues them for asynchronous
// processing. Rows land as regular expenses once the worker picks them up.
func (h *ImportHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ImportExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rows := make([]service.CreateExpenseInput, 0, len(req.Rows))
	for i, row := range req.Rows {
		input, err := expenseInputFromRequest(row)
		if err != nil {
			RespondBadRequest(c, "Invalid row "+strconv.Itoa(i)+": "+err.Error())
			return
		}
		rows = append(rows, input)
	}

	accepted, err := h.importService.Submit(c.Request.Context(), userID, rows, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to submit expense import", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, ImportExpensesResponse{Accepted: accepted})
}
