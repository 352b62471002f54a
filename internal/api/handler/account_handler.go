package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-ledger/internal/api/middleware"
	"github.com/fintrack-ledger/internal/api/service"
	"github.com/fintrack-ledger/internal/domain/account"
	"github.com/fintrack-ledger/internal/domain/shared"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// List returns the user's two accounts with computed balances and their sum.
// Accounts that don't exist yet are provisioned on the way.
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	balances, total, err := h.accountService.ListBalances(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list accounts", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	response := AccountListResponse{
		Accounts: make([]AccountBalanceResponse, 0, len(balances)),
		Total:    total,
	}
	for _, b := range balances {
		response.Accounts = append(response.Accounts, mapBalanceToResponse(b))
	}

	RespondOK(c, response)
}

// Correct re-anchors one account's opening balance after a password re-check
func (h *AccountHandler) Correct(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accountType := shared.AccountType(c.Param("type"))
	if !accountType.Valid() {
		RespondBadRequest(c, "Unknown account type")
		return
	}

	var req CorrectBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.accountService.CorrectBalance(c.Request.Context(), userID, accountType, req.CurrentBalance, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrReauthenticationFailed) {
			RespondForbidden(c, "Password verification failed")
			return
		}
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to correct balance", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// ListEntries returns the paginated journal history of one account
func (h *AccountHandler) ListEntries(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accountType := shared.AccountType(c.Param("type"))
	if !accountType.Valid() {
		RespondBadRequest(c, "Unknown account type")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	entries, total, err := h.accountService.ListEntries(c.Request.Context(), userID, accountType, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list account entries", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapEntryToResponse(e))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}
