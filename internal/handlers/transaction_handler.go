package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"expensert/internal/aggregate"
	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/pagination"
	"expensert/internal/services"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 100
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Category may be a category id or a category name.
type CreateTransactionRequest struct {
	Type          models.TransactionType `json:"type" binding:"required"`
	Amount        *decimal.Decimal       `json:"amount" swaggertype:"string" example:"12.50"`
	Category      string                 `json:"category" binding:"required"`
	Date          models.Date            `json:"date" binding:"required" swaggertype:"string" example:"2024-03-15"`
	Description   string                 `json:"description" binding:"max=255"`
	Notes         string                 `json:"notes" binding:"max=1000"`
	PaymentMethod string                 `json:"paymentMethod" binding:"max=50"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// Omitted fields are left unchanged.
type UpdateTransactionRequest struct {
	Type          *models.TransactionType `json:"type"`
	Amount        *decimal.Decimal        `json:"amount" swaggertype:"string" example:"12.50"`
	Category      *string                 `json:"category"`
	Date          *models.Date            `json:"date" swaggertype:"string" example:"2024-03-15"`
	Description   *string                 `json:"description" binding:"omitempty,max=255"`
	Notes         *string                 `json:"notes" binding:"omitempty,max=1000"`
	PaymentMethod *string                 `json:"paymentMethod" binding:"omitempty,max=50"`
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Record a new income or expense
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string                   false "Ledger namespace"
// @Param       request            body   CreateTransactionRequest true  "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), ns, ledger.TransactionInput{
		Type:          req.Type,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          req.Date,
		Description:   req.Description,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "CREATE_TRANSACTION", "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{"type": tx.Type, "amount": tx.Amount.String(), "category": tx.Category})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetTransactions handles listing transactions with optional filters.
// @Summary     List transactions
// @Description Get a paginated list of transactions, newest first
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       type       query string false "Filter by type (income/expense)"
// @Param       category   query string false "Filter by category id"
// @Param       from       query string false "Earliest date (YYYY-MM-DD)"
// @Param       to         query string false "Latest date (YYYY-MM-DD)"
// @Param       min_amount query string false "Minimum amount"
// @Param       max_amount query string false "Maximum amount"
// @Param       page       query int    false "Page number (default 1, max 1000000)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), ns, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentTransactions handles listing the latest transactions.
// @Summary     Recent transactions
// @Description Get the most recent transactions by date
// @Tags        transactions
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       limit query int false "Number of transactions (default 5, max 100)"
// @Success     200 {object} map[string][]models.Transaction "Recent transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/recent [get]
func (h *TransactionHandler) GetRecentTransactions(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := queryInt(c, "limit", defaultRecentLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if limit < 1 || limit > maxRecentLimit {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be between 1 and 100"))
		return
	}

	txs, err := h.transactionService.RecentTransactions(c.Request.Context(), ns, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetTransaction handles retrieving a specific transaction.
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction handles updating an existing transaction.
// @Summary     Update transaction
// @Description Update fields of an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string                   false "Ledger namespace"
// @Param       id                 path   string                   true  "Transaction ID"
// @Param       request            body   UpdateTransactionRequest true  "Fields to change"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	id := c.Param("id")
	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), ns, id, ledger.TransactionPatch{
		Type:          req.Type,
		Amount:        req.Amount,
		Category:      req.Category,
		Date:          req.Date,
		Description:   req.Description,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "UPDATE_TRANSACTION", "transaction", id, c.ClientIP(),
		map[string]interface{}{"amount": tx.Amount.String(), "category": tx.Category})

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete transaction
// @Description Delete a transaction; deleting an unknown id succeeds
// @Tags        transactions
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), ns, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "DELETE_TRANSACTION", "transaction", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func parseTransactionFilter(c *gin.Context) (aggregate.TransactionFilter, error) {
	var f aggregate.TransactionFilter

	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if !t.Valid() {
			return f, apperrors.ErrInvalidTransactionType
		}
		f.Type = t
	}
	f.Category = c.Query("category")

	var err error
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}
	if f.MinAmount, err = queryDecimal(c, "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = queryDecimal(c, "max_amount"); err != nil {
		return f, err
	}
	return f, nil
}
