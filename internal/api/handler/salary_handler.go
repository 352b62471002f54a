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
	"github.com/fintrack-ledger/internal/domain/salary"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// SalaryHandler handles HTTP requests for salary payment operations
type SalaryHandler struct {
	salaryService service.SalaryService
	logger        *slog.Logger
}

// NewSalaryHandler creates a new salary payment handler
func NewSalaryHandler(logger *slog.Logger, salaryService service.SalaryService) *SalaryHandler {
	return &SalaryHandler{
		salaryService: salaryService,
		logger:        logger,
	}
}

// Create records an expected payment
func (h *SalaryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateSalaryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	paidOn, err := time.Parse(dateLayout, req.PaidOn)
	if err != nil {
		RespondBadRequest(c, "paid_on must be a date in YYYY-MM-DD format")
		return
	}

	payment, err := h.salaryService.Create(c.Request.Context(), userID, req.Amount, paidOn)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidAmount) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create salary payment", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapPaymentToResponse(payment))
}

// MarkReceived posts the payment's income entry; safe to call more than once
func (h *SalaryHandler) MarkReceived(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.salaryService.MarkReceived(c.Request.Context(), userID, id)
	if err != nil {
		var notFound salary.ErrPaymentNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Salary payment not found")
			return
		}
		h.logger.Error("Failed to mark salary payment received", "payment_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapPaymentToResponse(payment))
}

// List retrieves a paginated list of the user's payments
func (h *SalaryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	payments, total, err := h.salaryService.List(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list salary payments", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]SalaryPaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, mapPaymentToResponse(p))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}
