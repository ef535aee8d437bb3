package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensert/internal/errors"
	"expensert/internal/services"
)

// SettingsHandler handles ledger preferences.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// PaymentMethodsRequest represents the request payload for replacing payment methods.
type PaymentMethodsRequest struct {
	PaymentMethods []string `json:"paymentMethods" binding:"required,min=1,dive,max=50"`
}

// CurrencyRequest represents the request payload for changing the currency symbol.
type CurrencyRequest struct {
	Currency string `json:"currency" binding:"required,max=8"`
}

// GetSettings handles retrieving preferences.
// @Summary     Get settings
// @Description Get the currency symbol and payment methods
// @Tags        settings
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Success     200 {object} models.Preferences "Settings"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prefs, err := h.settingsService.GetSettings(c.Request.Context(), ns)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": prefs})
}

// UpdatePaymentMethods handles replacing the payment-method list.
// @Summary     Update payment methods
// @Description Replace the list of payment methods
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string                false "Ledger namespace"
// @Param       request            body   PaymentMethodsRequest true  "Payment methods"
// @Success     200 {object} models.Preferences "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/payment-methods [put]
func (h *SettingsHandler) UpdatePaymentMethods(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PaymentMethodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	prefs, err := h.settingsService.SetPaymentMethods(c.Request.Context(), ns, req.PaymentMethods)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "UPDATE_PAYMENT_METHODS", "settings", "payment_methods", c.ClientIP(),
		map[string]interface{}{"payment_methods": prefs.PaymentMethods})

	c.JSON(http.StatusOK, gin.H{"settings": prefs})
}

// UpdateCurrency handles changing the currency symbol.
// @Summary     Update currency
// @Description Change the currency symbol shown next to amounts
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string          false "Ledger namespace"
// @Param       request            body   CurrencyRequest true  "Currency"
// @Success     200 {object} models.Preferences "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/currency [put]
func (h *SettingsHandler) UpdateCurrency(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	prefs, err := h.settingsService.SetCurrency(c.Request.Context(), ns, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "UPDATE_CURRENCY", "settings", "currency", c.ClientIP(),
		map[string]interface{}{"currency": prefs.Currency})

	c.JSON(http.StatusOK, gin.H{"settings": prefs})
}
