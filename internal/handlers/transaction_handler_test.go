package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"expensert/internal/aggregate"
	apperrors "expensert/internal/errors"
	"expensert/internal/ledger"
	"expensert/internal/models"
	"expensert/internal/pagination"
	"expensert/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn  func(ns string, in ledger.TransactionInput) (*models.Transaction, error)
	listTransactionsFn   func(ns string, filter aggregate.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	recentTransactionsFn func(ns string, limit int) ([]models.Transaction, error)
	getTransactionFn     func(ns, id string) (*models.Transaction, error)
	updateTransactionFn  func(ns, id string, patch ledger.TransactionPatch) (*models.Transaction, error)
	deleteTransactionFn  func(ns, id string) error
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, ns string, in ledger.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ns, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) ListTransactions(_ context.Context, ns string, filter aggregate.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ns, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) RecentTransactions(_ context.Context, ns string, limit int) ([]models.Transaction, error) {
	if m.recentTransactionsFn != nil {
		return m.recentTransactionsFn(ns, limit)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransaction(_ context.Context, ns, id string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(ns, id)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, ns, id string, patch ledger.TransactionPatch) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(ns, id, patch)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, ns, id string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(ns, id)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("", injectNamespace("alice"))
	g.POST("/transactions", handler.CreateTransaction)
	g.GET("/transactions", handler.GetTransactions)
	g.GET("/transactions/recent", handler.GetRecentTransactions)
	g.GET("/transactions/:id", handler.GetTransaction)
	g.PUT("/transactions/:id", handler.UpdateTransaction)
	g.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got ledger.TransactionInput
		svc := &mockTransactionService{
			createTransactionFn: func(ns string, in ledger.TransactionInput) (*models.Transaction, error) {
				if ns != "alice" {
					t.Errorf("expected namespace alice, got %s", ns)
				}
				got = in
				return &models.Transaction{ID: "t1", Type: in.Type, Amount: *in.Amount, Category: "4", Date: in.Date}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":"12.50","category":"Food","date":"2024-03-10","paymentMethod":"Cash"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || got.Amount.String() != "12.5" {
			t.Errorf("expected amount 12.5 to reach the service, got %v", got.Amount)
		}
		if got.Date.String() != "2024-03-10" || got.PaymentMethod != "Cash" {
			t.Errorf("unexpected input: %+v", got)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["amount"] != "12.5" {
			t.Errorf("expected amount serialised as \"12.5\", got %v", tx["amount"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_TRANSACTION" {
			t.Errorf("expected CREATE_TRANSACTION audit entry, got %v", audit.actions)
		}
	})

	t.Run("accepts numeric amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"income","amount":1500,"category":"1","date":"2024-03-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"type":"expense","amount":"1","category":"4"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":"1","category":"4","date":"10/03/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes service errors through", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(string, ledger.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrNegativeAmount
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":"-1","category":"4","date":"2024-03-10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NEGATIVE_AMOUNT")
	})

	t.Run("returns 400 without namespace", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/transactions", handler.CreateTransaction)

		rec := doRequest(r, "POST", "/transactions", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_NAMESPACE")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		var gotFilter aggregate.TransactionFilter
		var gotPage pagination.PageRequest
		svc := &mockTransactionService{
			listTransactionsFn: func(_ string, f aggregate.TransactionFilter, p pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter, gotPage = f, p
				resp := pagination.NewPageResponse([]models.Transaction{{ID: "t1"}}, 1, 10, 1)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET",
			"/transactions?type=expense&category=4&from=2024-03-01&to=2024-03-31&min_amount=5&max_amount=100.5&page=1&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Type != models.TransactionTypeExpense || gotFilter.Category != "4" {
			t.Errorf("unexpected filter: %+v", gotFilter)
		}
		if gotFilter.From.String() != "2024-03-01" || gotFilter.To.String() != "2024-03-31" {
			t.Errorf("unexpected date bounds: %s..%s", gotFilter.From, gotFilter.To)
		}
		if gotFilter.MaxAmount == nil || gotFilter.MaxAmount.String() != "100.5" {
			t.Errorf("unexpected max amount: %v", gotFilter.MaxAmount)
		}
		if gotPage.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", gotPage.PageSize)
		}
		if parseJSON(t, rec)["total_items"].(float64) != 1 {
			t.Error("expected total_items 1")
		}
	})

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"invalid type", "?type=transfer", "INVALID_TRANSACTION_TYPE"},
		{"invalid date", "?from=yesterday", "INVALID_INPUT"},
		{"inverted range", "?from=2024-03-31&to=2024-03-01", "INVALID_INPUT"},
		{"invalid amount", "?min_amount=lots", "INVALID_INPUT"},
		{"page size too large", "?page_size=1000", "INVALID_INPUT"},
		{"page too large", "?page=1000001", "INVALID_INPUT"},
		{"page overflowing offset", "?page=100000000000000000", "INVALID_INPUT"},
		{"amount out of range", "?max_amount=1e1000000000", "INVALID_INPUT"},
		{"amount too precise", "?min_amount=0.000000001", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

			rec := doRequest(r, "GET", "/transactions"+tt.query, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), tt.code)
		})
	}
}

func TestTransactionHandler_GetRecentTransactions(t *testing.T) {
	t.Run("uses default limit", func(t *testing.T) {
		var gotLimit int
		svc := &mockTransactionService{
			recentTransactionsFn: func(_ string, limit int) ([]models.Transaction, error) {
				gotLimit = limit
				return []models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/recent", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotLimit != 5 {
			t.Errorf("expected limit 5, got %d", gotLimit)
		}
	})

	t.Run("returns 400 on zero limit", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/recent?limit=0", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionFn: func(string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("sends only provided fields", func(t *testing.T) {
		var got ledger.TransactionPatch
		svc := &mockTransactionService{
			updateTransactionFn: func(_, id string, patch ledger.TransactionPatch) (*models.Transaction, error) {
				got = patch
				return &models.Transaction{ID: id}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/t1", `{"notes":"split with Sam"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Notes == nil || *got.Notes != "split with Sam" {
			t.Errorf("expected notes to be set, got %v", got.Notes)
		}
		if got.Amount != nil || got.Type != nil || got.Date != nil {
			t.Errorf("expected other fields to be nil, got %+v", got)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotID string
		svc := &mockTransactionService{
			deleteTransactionFn: func(_, id string) error {
				gotID = id
				return nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/transactions/t1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != "t1" {
			t.Errorf("expected id t1, got %s", gotID)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_TRANSACTION" {
			t.Errorf("expected DELETE_TRANSACTION audit entry, got %v", audit.actions)
		}
	})
}
