package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// WalletHandler handles HTTP requests for the wallet.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// TransactionResponse is the wire shape of a ledger entry.
type TransactionResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Reference   string  `json:"reference,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func transactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          txn.ID,
		Kind:        string(txn.Kind),
		Amount:      txn.Amount,
		Description: txn.Description,
		Reference:   txn.Reference,
		Status:      string(txn.Status),
		CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
	}
}

// BalanceResponse is the HTTP response for the wallet balance.
type BalanceResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// GetBalance handles GET /v1/wallet/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.walletService.Balance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{Balance: balance, Currency: "CFA"})
}

// ListTransactions handles GET /v1/wallet/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	txns, err := h.walletService.Transactions(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		response = append(response, transactionResponse(txn))
	}

	respondJSON(c, http.StatusOK, response)
}

// DebitRequest is the HTTP request body for a wallet debit.
type DebitRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Reference   string  `json:"reference,omitempty"`
}

// Debit handles POST /v1/wallet/debit
func (h *WalletHandler) Debit(c *gin.Context) {
	var req DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	txn, err := h.walletService.Debit(c.Request.Context(), service.DebitRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, transactionResponse(txn))
}

// TopUpRequest is the HTTP request body for a wallet top-up.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// TopUpResponse is the HTTP response for a successful top-up.
type TopUpResponse struct {
	Success     bool                `json:"success"`
	GatewayRef  string              `json:"gateway_ref"`
	Transaction TransactionResponse `json:"transaction"`
}

// TopUp handles POST /v1/wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.walletService.TopUp(c.Request.Context(), service.TopUpRequest{
		Amount: req.Amount,
		Kind:   domain.PaymentKind(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TopUpResponse{
		Success:     true,
		GatewayRef:  result.GatewayRef,
		Transaction: transactionResponse(result.Transaction),
	})
}

// SummaryResponse is the HTTP response for a wallet summary.
type SummaryResponse struct {
	CurrentBalance   float64 `json:"current_balance"`
	PeriodCredits    float64 `json:"period_credits"`
	PeriodDebits     float64 `json:"period_debits"`
	NetChange        float64 `json:"net_change"`
	TransactionCount int     `json:"transaction_count"`
}

// Summary handles GET /v1/wallet/summary
func (h *WalletHandler) Summary(c *gin.Context) {
	summary, err := h.walletService.Summary(c.Request.Context(), domain.SummaryPeriod(c.Query("period")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SummaryResponse{
		CurrentBalance:   summary.CurrentBalance,
		PeriodCredits:    summary.PeriodCredits,
		PeriodDebits:     summary.PeriodDebits,
		NetChange:        summary.NetChange,
		TransactionCount: summary.TransactionCount,
	})
}
