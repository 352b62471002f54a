package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fintrack-ledger/internal/api/middleware"
	"github.com/fintrack-ledger/internal/api/service"
	"github.com/fintrack-ledger/internal/domain/expense"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// ExpenseHandler handles HTTP requests for expense operations
type ExpenseHandler struct {
	expenseService service.ExpenseService
	logger         *slog.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(logger *slog.Logger, expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// Create handles creation of a new expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := expenseInputFromRequest(req)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	exp, err := h.expenseService.Create(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidAmount) || errors.Is(err, shared.ErrUnknownAccountType) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create expense", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapExpenseToResponse(exp))
}

// Update handles editing of an existing expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid expense ID")
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := expenseInputFromRequest(req)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	exp, err := h.expenseService.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		var notFound expense.ErrExpenseNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Expense not found")
			return
		}
		h.logger.Error("Failed to update expense", "expense_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapExpenseToResponse(exp))
}

// Delete handles removal of a single expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), userID, id); err != nil {
		var notFound expense.ErrExpenseNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Expense not found")
			return
		}
		h.logger.Error("Failed to delete expense", "expense_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// BulkDelete deletes several expenses, reporting per-id failures instead of
// aborting the batch
func (h *ExpenseHandler) BulkDelete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req BulkDeleteExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid expense ID: "+raw)
			return
		}
		ids = append(ids, id)
	}

	result := h.expenseService.BulkDelete(c.Request.Context(), userID, ids)

	response := BulkDeleteExpensesResponse{Deleted: make([]string, 0, len(result.Deleted))}
	for _, id := range result.Deleted {
		response.Deleted = append(response.Deleted, id.String())
	}
	for _, f := range result.Failed {
		response.Failed = append(response.Failed, BulkDeleteFailure{ID: f.ID.String(), Reason: f.Reason})
	}

	RespondOK(c, response)
}

// List retrieves a paginated list of the user's expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list expenses", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, mapExpenseToResponse(e))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// Convert rewrites a disguised ATM expense as an explicit card-to-cash
// transfer
func (h *ExpenseHandler) Convert(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid expense ID")
		return
	}

	transferID, err := h.expenseService.ConvertToWithdrawal(c.Request.Context(), userID, id)
	if err != nil {
		var notFound expense.ErrExpenseNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Expense not found")
			return
		}
		if errors.Is(err, shared.ErrNotConvertible) {
			RespondConflict(c, "Expense does not look like a cash withdrawal")
			return
		}
		h.logger.Error("Failed to convert expense", "expense_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, ConvertExpenseResponse{TransferID: transferID.String()})
}

// expenseInputFromRequest validates the wire representation and builds the
// service input
func expenseInputFromRequest(req CreateExpenseRequest) (service.CreateExpenseInput, error) {
	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		return service.CreateExpenseInput{}, errors.New("occurred_on must be a date in YYYY-MM-DD format")
	}

	return service.CreateExpenseInput{
		Amount:             req.Amount,
		OccurredOn:         occurredOn,
		Merchant:           req.Merchant,
		Note:               req.Note,
		PaymentMethod:      shared.AccountType(req.PaymentMethod),
		CategoryID:         req.CategoryID,
		ExcludedFromBudget: req.ExcludedFromBudget,
	}, nil
}
