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
	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/domain/transfer"
)

// TransferHandler handles HTTP requests for transfer operations
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Create handles creation of a new transfer between the user's two accounts
func (h *TransferHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		RespondBadRequest(c, "occurred_on must be a date in YYYY-MM-DD format")
		return
	}

	fromID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid from_account_id")
		return
	}
	toID, err := uuid.Parse(req.ToAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid to_account_id")
		return
	}

	tr, err := h.transferService.Create(c.Request.Context(), userID, service.CreateTransferInput{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        req.Amount,
		OccurredOn:    occurredOn,
		Note:          req.Note,
	})
	if err != nil {
		if errors.Is(err, shared.ErrSameAccountTransfer) || errors.Is(err, shared.ErrInvalidAmount) {
			RespondBadRequest(c, err.Error())
			return
		}
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to create transfer", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransferToResponse(tr))
}

// Delete removes a transfer and both of its journal entries
func (h *TransferHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transfer ID")
		return
	}

	if err := h.transferService.Delete(c.Request.Context(), userID, id); err != nil {
		var notFound transfer.ErrTransferNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Transfer not found")
			return
		}
		h.logger.Error("Failed to delete transfer", "transfer_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// List retrieves a paginated list of the user's transfers
func (h *TransferHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list transfers", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		responses = append(responses, mapTransferToResponse(t))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}
