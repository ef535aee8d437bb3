package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name  string              `json:"name" binding:"required,max=50"`
	Type  models.CategoryType `json:"type" binding:"required,category_type"`
	Color string              `json:"color" binding:"omitempty,hex_color"`
	Icon  string              `json:"icon" binding:"max=50"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
// The type of a category cannot change.
type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,hex_color"`
	Icon  *string `json:"icon" binding:"omitempty,max=50"`
}

// DeleteCategoryResponse reports how many transactions were moved.
type DeleteCategoryResponse struct {
	Message    string `json:"message"`
	Reassigned int    `json:"reassigned"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new income or expense category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string                false "Ledger namespace"
// @Param       request            body   CreateCategoryRequest true  "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), ns, ledger.CategoryInput{
		Name:  req.Name,
		Type:  req.Type,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "CREATE_CATEGORY", "category", cat.ID, c.ClientIP(),
		map[string]interface{}{"name": cat.Name, "type": cat.Type})

	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

// GetCategories handles listing categories
// @Summary     List categories
// @Description Get all categories, optionally of one type
// @Tags        categories
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       type query string false "Filter by type (income/expense)"
// @Success     200 {object} map[string][]models.Category "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var categoryType *models.CategoryType
	if v := c.Query("type"); v != "" {
		t := models.CategoryType(v)
		if t != models.CategoryTypeIncome && t != models.CategoryTypeExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'income' or 'expense'"))
			return
		}
		categoryType = &t
	}

	cats, err := h.categoryService.ListCategories(c.Request.Context(), ns, categoryType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GetCategory handles retrieving a specific category
// @Summary     Get category by ID
// @Description Get a specific category by ID
// @Tags        categories
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cat, err := h.categoryService.GetCategory(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// UpdateCategory handles updating a category
// @Summary     Update category
// @Description Rename or restyle a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       X-Ledger-Namespace header string                false "Ledger namespace"
// @Param       id                 path   string                true  "Category ID"
// @Param       request            body   UpdateCategoryRequest true  "Fields to change"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	id := c.Param("id")
	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), ns, id, ledger.CategoryPatch{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "UPDATE_CATEGORY", "category", id, c.ClientIP(),
		map[string]interface{}{"name": cat.Name, "color": cat.Color, "icon": cat.Icon})

	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// DeleteCategory handles deleting a category
// @Summary     Delete category
// @Description Delete a category. Categories used by budgets cannot be deleted; transactions block the delete unless reassign_to names another category of the same type.
// @Tags        categories
// @Produce     json
// @Param       X-Ledger-Namespace header string false "Ledger namespace"
// @Param       id          path  string true  "Category ID"
// @Param       reassign_to query string false "Category receiving the deleted category's transactions"
// @Success     200 {object} DeleteCategoryResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid reassignment target"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ns, err := getNamespace(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	opts := ledger.DeleteCategoryOptions{ReassignTo: strings.TrimSpace(c.Query("reassign_to"))}
	moved, err := h.categoryService.DeleteCategory(c.Request.Context(), ns, id, opts)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ns, "DELETE_CATEGORY", "category", id, c.ClientIP(),
		map[string]interface{}{"reassign_to": opts.ReassignTo, "reassigned": moved})

	c.JSON(http.StatusOK, DeleteCategoryResponse{Message: "Category deleted successfully", Reassigned: moved})
}
