package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// Category may be a category id or the name of an expense category.
type CreateBudgetRequest struct {
	Category string              `json:"category" binding:"required"`
	Amount   *decimal.Decimal    `json:"amount" swaggertype:"string" example:"500"`
	Period   models.BudgetPeriod `json:"period" binding:"required"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Category *string              `json:"category"`
	Amount   *decimal.Decimal     `json:"amount" swaggertype:"string" example:"500"`
	Period   *models.BudgetPeriod `json:"period"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Set a spending limit on an expense category for a period
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string              false "Ledger namespace"
// @Param       request            body   CreateBudgetRequest true  "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), ns, ledger.BudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"category": budget.Category, "amount": budget.Amount.String(), "period": budget.Period})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets.
// @Summary     List budgets
// @Description Get all budgets, optionally of one period
// @Tags        budgets
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       period query string false "Filter by period (weekly/monthly/yearly)"
// @Success     200 {object} map[string][]models.Budget "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var period *models.BudgetPeriod
	if v := c.Query("period"); v != "" {
		p := models.BudgetPeriod(v)
		if !p.Valid() {
			respondWithError(c, apperrors.ErrInvalidBudgetPeriod)
			return
		}
		period = &p
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), ns, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Change a budget's category, amount or period
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string              false "Ledger namespace"
// @Param       id                 path   string              true  "Budget ID"
// @Param       request            body   UpdateBudgetRequest true  "Fields to change"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	id := c.Param("id")
	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), ns, id, ledger.BudgetPatch{
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "UPDATE_BUDGET", "budget", id, c.ClientIP(),
		map[string]interface{}{"amount": budget.Amount.String(), "period": budget.Period})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget; deleting an unknown id succeeds
// @Tags        budgets
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.budgetService.DeleteBudget(c.Request.Context(), ns, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "DELETE_BUDGET", "budget", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetBudgetProgress handles retrieving the spending progress for a budget.
// @Summary     Get budget progress
// @Description Get spending progress for a budget in its current period
// @Tags        budgets
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id path string true "Budget ID"
// @Success     200 {object} budget.Progress "Budget progress"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetBudgetProgress(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// GetAllBudgetProgress handles retrieving progress for every budget.
// @Summary     List budget progress
// @Description Get spending progress for all budgets in their current periods
// @Tags        budgets
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Success     200 {object} map[string][]budget.Progress "Budget progress"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/progress [get]
func (h *BudgetHandler) GetAllBudgetProgress(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.ListBudgetProgress(c.Request.Context(), ns)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
