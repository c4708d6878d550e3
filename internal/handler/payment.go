package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// PaymentHandler handles HTTP requests for payment methods and mobile
// money charges.
type PaymentHandler struct {
	methodService *service.PaymentMethodService
	gateway       service.PaymentGateway
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(methodService *service.PaymentMethodService, gateway service.PaymentGateway) *PaymentHandler {
	return &PaymentHandler{
		methodService: methodService,
		gateway:       gateway,
	}
}

// PaymentMethodResponse is the wire shape of a stored payment method.
type PaymentMethodResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Provider  string `json:"provider"`
	Alias     string `json:"alias"`
	IsDefault bool   `json:"is_default"`
}

// ListMethods handles GET /v1/payment-methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.methodService.ListMethods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		response = append(response, PaymentMethodResponse{
			ID:        m.ID,
			Kind:      string(m.Kind),
			Provider:  m.Provider,
			Alias:     m.Alias,
			IsDefault: m.IsDefault,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// AddMethodRequest is the HTTP request body for storing a payment method.
type AddMethodRequest struct {
	Kind     string `json:"kind"`
	Provider string `json:"provider"`
	Alias    string `json:"alias"`
	Default  bool   `json:"default,omitempty"`
}

// AddMethod handles POST /v1/payment-methods
func (h *PaymentHandler) AddMethod(c *gin.Context) {
	var req AddMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	method, err := h.methodService.AddMethod(c.Request.Context(), service.AddMethodRequest{
		Kind:     req.Kind,
		Provider: req.Provider,
		Alias:    req.Alias,
		Default:  req.Default,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, PaymentMethodResponse{
		ID:        method.ID,
		Kind:      string(method.Kind),
		Provider:  method.Provider,
		Alias:     method.Alias,
		IsDefault: method.IsDefault,
	})
}

// MobileMoneyChargeRequest is the HTTP request body for phase one of a
// mobile money charge.
type MobileMoneyChargeRequest struct {
	Provider string  `json:"provider"`
	Phone    string  `json:"phone"`
	Amount   float64 `json:"amount"`
}

// MobileMoneyChargeResponse is the PIN prompt returned by phase one.
type MobileMoneyChargeResponse struct {
	TransactionRef string  `json:"transaction_ref"`
	Message        string  `json:"message"`
	RequiresPin    bool    `json:"requires_pin"`
	Amount         float64 `json:"amount"`
}

// ChargeMobileMoney handles POST /v1/payments/mobile-money
func (h *PaymentHandler) ChargeMobileMoney(c *gin.Context) {
	var req MobileMoneyChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	prompt, err := h.gateway.ChargeMobileMoney(c.Request.Context(), req.Provider, req.Phone, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MobileMoneyChargeResponse{
		TransactionRef: prompt.TransactionRef,
		Message:        prompt.Message,
		RequiresPin:    prompt.RequiresPin,
		Amount:         prompt.Amount,
	})
}

// MobileMoneyConfirmRequest is the HTTP request body for phase two.
type MobileMoneyConfirmRequest struct {
	TransactionRef string `json:"transaction_ref"`
	Pin            string `json:"pin"`
}

// MobileMoneyConfirmResponse is the HTTP response for a confirmed charge.
type MobileMoneyConfirmResponse struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
}

// ConfirmMobileMoney handles POST /v1/payments/mobile-money/confirm
func (h *PaymentHandler) ConfirmMobileMoney(c *gin.Context) {
	var req MobileMoneyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.gateway.ConfirmMobileMoney(c.Request.Context(), req.TransactionRef, req.Pin)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MobileMoneyConfirmResponse{
		TransactionID: result.TransactionID,
		Amount:        result.Amount,
		Currency:      result.Currency,
		Status:        string(result.Status),
	})
}
