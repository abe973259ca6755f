package handler

import (
	"strconv"
	"time"

	"sms-payment-service/internal/adapter/http/dto"
	"sms-payment-service/internal/core/domain"
	"sms-payment-service/internal/core/ports"
	"sms-payment-service/pkg/apperror"
	"sms-payment-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles user lookup, balance credits, and history.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Sync handles POST /sync: the mobile client's state refresh.
func (h *AccountHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidRequest(err.Error()))
		return
	}

	user, err := h.accountSvc.GetUser(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SyncResponse{
		ID:      user.ID,
		Name:    user.Name,
		Balance: user.Balance,
	})
}

// AddBalance handles POST /addbalance: a manual balance credit.
func (h *AccountHandler) AddBalance(c *gin.Context) {
	var req dto.AddBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.InvalidRequest(err.Error()))
		return
	}

	user, err := h.accountSvc.AddBalance(c.Request.Context(), req.UserID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AddBalanceResponse{
		Status:     "success",
		UserID:     user.ID,
		NewBalance: user.Balance,
	})
}

// ListTransactions handles GET /transactions/:user_id.
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.InvalidRequest("user_id must be an integer"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	transfers, err := h.accountSvc.ListTransfers(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(transfers))
	for _, txn := range transfers {
		items = append(items, toTransactionResponse(txn))
	}

	response.OK(c, dto.TransactionListResponse{
		UserID: userID,
		Items:  items,
	})
}

func toTransactionResponse(txn domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:         txn.ID,
		SenderID:   txn.SenderID,
		ReceiverID: txn.ReceiverID,
		Amount:     txn.Amount,
		Status:     string(txn.Status),
		CreatedAt:  txn.CreatedAt.Format(time.RFC3339),
	}
}
