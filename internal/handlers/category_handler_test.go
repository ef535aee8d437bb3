package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn func(ns string, in ledger.CategoryInput) (*models.Category, error)
	listCategoriesFn func(ns string, categoryType *models.CategoryType) ([]models.Category, error)
	getCategoryFn    func(ns, id string) (*models.Category, error)
	updateCategoryFn func(ns, id string, patch ledger.CategoryPatch) (*models.Category, error)
	deleteCategoryFn func(ns, id string, opts ledger.DeleteCategoryOptions) (int, error)
}

func (m *mockCategoryService) CreateCategory(_ context.Context, ns string, in ledger.CategoryInput) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ns, in)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) ListCategories(_ context.Context, ns string, categoryType *models.CategoryType) ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ns, categoryType)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategory(_ context.Context, ns, id string) (*models.Category, error) {
	if m.getCategoryFn != nil {
		return m.getCategoryFn(ns, id)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, ns, id string, patch ledger.CategoryPatch) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(ns, id, patch)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, ns, id string, opts ledger.DeleteCategoryOptions) (int, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ns, id, opts)
	}
	return 0, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("", injectNamespace("alice"))
	g.POST("/categories", handler.CreateCategory)
	g.GET("/categories", handler.GetCategories)
	g.GET("/categories/:id", handler.GetCategory)
	g.PUT("/categories/:id", handler.UpdateCategory)
	g.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_ string, in ledger.CategoryInput) (*models.Category, error) {
				return &models.Category{ID: "c1", Name: in.Name, Type: in.Type, Color: in.Color}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Pets","type":"expense","color":"#abc"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Pets" {
			t.Errorf("expected Pets, got %v", cat["name"])
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"type":"expense"}`},
		{"invalid type", `{"name":"Pets","type":"transfer"}`},
		{"invalid color", `{"name":"Pets","type":"expense","color":"red"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/categories", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(string, ledger.CategoryInput) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","type":"expense"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("filters by type", func(t *testing.T) {
		var got *models.CategoryType
		svc := &mockCategoryService{
			listCategoriesFn: func(_ string, categoryType *models.CategoryType) ([]models.Category, error) {
				got = categoryType
				return models.DefaultCategories()[:3], nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories?type=income", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || *got != models.CategoryTypeIncome {
			t.Errorf("expected income filter, got %v", got)
		}
		if n := len(parseJSON(t, rec)["categories"].([]interface{})); n != 3 {
			t.Errorf("expected 3 categories, got %d", n)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/categories?type=both", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(string, string, ledger.CategoryPatch) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/categories/missing", `{"name":"Pets"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on empty name", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/categories/4", `{"name":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("passes reassign target", func(t *testing.T) {
		var got ledger.DeleteCategoryOptions
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ string, opts ledger.DeleteCategoryOptions) (int, error) {
				got = opts
				return 3, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/categories/4?reassign_to=8", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.ReassignTo != "8" {
			t.Errorf("expected reassign_to 8, got %q", got.ReassignTo)
		}
		if parseJSON(t, rec)["reassigned"].(float64) != 3 {
			t.Error("expected reassigned count 3")
		}
	})

	t.Run("returns 409 when in use", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(string, string, ledger.DeleteCategoryOptions) (int, error) {
				return 0, apperrors.ErrCategoryInUse
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/categories/4", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}
