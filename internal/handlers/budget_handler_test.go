package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"weddingbudget/internal/allocation"
	apperrors "weddingbudget/internal/errors"
	"weddingbudget/internal/middleware"
	"weddingbudget/internal/models"
	"weddingbudget/internal/pagination"
	"weddingbudget/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	validateStepFn      func(key string, payload []byte) (allocation.Step, error)
	calculateFn         func(ctx context.Context, userID string, in allocation.Input) (*allocation.Result, error)
	listCalculationsFn  func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCalculation], error)
	getCalculationFn    func(userID, calculationID string) (*services.CalculationDetail, error)
	deleteCalculationFn func(userID, calculationID string) error
}

func (m *mockBudgetService) Options() services.BudgetOptions {
	return services.BudgetOptions{
		Categories: allocation.DefaultTables().Categories,
		VenueTypes: []services.NamedFactor{{Key: "barn", Multiplier: 0.85}},
		Steps:      allocation.StepOrder,
	}
}

func (m *mockBudgetService) ValidateStep(key string, payload []byte) (allocation.Step, error) {
	if m.validateStepFn != nil {
		return m.validateStepFn(key, payload)
	}
	return allocation.ParseStep(key, payload)
}

func (m *mockBudgetService) Calculate(ctx context.Context, userID string, in allocation.Input) (*allocation.Result, error) {
	if m.calculateFn != nil {
		return m.calculateFn(ctx, userID, in)
	}
	return &allocation.Result{}, nil
}

func (m *mockBudgetService) ListCalculations(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCalculation], error) {
	if m.listCalculationsFn != nil {
		return m.listCalculationsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.BudgetCalculation{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetCalculation(userID, calculationID string) (*services.CalculationDetail, error) {
	if m.getCalculationFn != nil {
		return m.getCalculationFn(userID, calculationID)
	}
	return &services.CalculationDetail{}, nil
}

func (m *mockBudgetService) DeleteCalculation(userID, calculationID string) error {
	if m.deleteCalculationFn != nil {
		return m.deleteCalculationFn(userID, calculationID)
	}
	return nil
}

func (m *mockBudgetService) Wait() {}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

const testCalculationID = "0190f3a2-7b1c-7d4e-8f00-0000000000c1"

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	r.GET("/budget/options", handler.GetOptions)
	r.POST("/budget/steps/:step", handler.ValidateStep)
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budget/calculate", handler.Calculate)
	auth.GET("/budget/calculations", handler.ListCalculations)
	auth.GET("/budget/calculations/:id", handler.GetCalculation)
	auth.DELETE("/budget/calculations/:id", handler.DeleteCalculation)
	return r
}

func TestBudgetHandler_GetOptions(t *testing.T) {
	handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
	r := setupBudgetRouter(handler)

	rec := doRequest(r, "GET", "/budget/options", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	categories := result["categories"].([]interface{})
	if len(categories) != 9 {
		t.Errorf("expected 9 categories, got %d", len(categories))
	}
	steps := result["steps"].([]interface{})
	if steps[0] != "budget" {
		t.Errorf("expected first step budget, got %v", steps[0])
	}
}

func TestBudgetHandler_ValidateStep(t *testing.T) {
	t.Run("returns 200 for a valid step", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budget/steps/guests", `{"guest_count":75}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["step"] != "guests" || result["valid"] != true {
			t.Errorf("unexpected response: %v", result)
		}
		value := result["value"].(map[string]interface{})
		if value["guest_count"].(float64) != 75 {
			t.Errorf("expected guest_count 75, got %v", value["guest_count"])
		}
	})

	t.Run("returns 404 for an unknown step", func(t *testing.T) {
		called := false
		svc := &mockBudgetService{
			validateStepFn: func(string, []byte) (allocation.Step, error) {
				called = true
				return nil, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budget/steps/dessert", `{}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNKNOWN_WIZARD_STEP")
		if called {
			t.Error("service should not be called for unknown steps")
		}
	})

	t.Run("returns 400 when the service rejects the value", func(t *testing.T) {
		svc := &mockBudgetService{
			validateStepFn: func(string, []byte) (allocation.Step, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidBudgetInput, "season: must be one of autumn, spring, summer, winter")
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budget/steps/season", `{"season":"monsoon"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_BUDGET_INPUT")
	})
}

func TestBudgetHandler_Calculate(t *testing.T) {
	t.Run("returns 200 with result", func(t *testing.T) {
		var gotUser string
		var gotInput allocation.Input
		svc := &mockBudgetService{
			calculateFn: func(_ context.Context, userID string, in allocation.Input) (*allocation.Result, error) {
				gotUser, gotInput = userID, in
				engine, err := allocation.NewEngine(allocation.DefaultTables(), nil)
				if err != nil {
					return nil, err
				}
				return engine.Calculate(in), nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budget/calculate",
			`{"total_budget":15000,"guest_count":80,"venue_type":"hotel","style":"elegant","season":"summer"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID {
			t.Errorf("expected owner %s, got %s", testUserID, gotUser)
		}
		if gotInput.TotalBudget != 15000 || gotInput.VenueType != "hotel" {
			t.Errorf("unexpected input: %+v", gotInput)
		}
		result := parseJSON(t, rec)["result"].(map[string]interface{})
		if result["efficiency"] != "medium" {
			t.Errorf("expected medium efficiency, got %v", result["efficiency"])
		}
		categories := result["categories"].([]interface{})
		first := categories[0].(map[string]interface{})
		if first["id"] != "venue" || first["rank"].(float64) != 1 {
			t.Errorf("expected venue ranked first, got %v", first)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "zero budget", body: `{"total_budget":0,"guest_count":80,"venue_type":"hotel","style":"elegant","season":"summer"}`},
		{name: "negative guests", body: `{"total_budget":15000,"guest_count":-1,"venue_type":"hotel","style":"elegant","season":"summer"}`},
		{name: "unknown venue", body: `{"total_budget":15000,"guest_count":80,"venue_type":"igloo","style":"elegant","season":"summer"}`},
		{name: "unknown style", body: `{"total_budget":15000,"guest_count":80,"venue_type":"hotel","style":"gothic","season":"summer"}`},
		{name: "missing season", body: `{"total_budget":15000,"guest_count":80,"venue_type":"hotel","style":"elegant"}`},
		{name: "malformed json", body: `{"total_budget":`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			svc := &mockBudgetService{
				calculateFn: func(context.Context, string, allocation.Input) (*allocation.Result, error) {
					t.Fatal("service should not be called for invalid input")
					return nil, nil
				},
			}
			r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "POST", "/budget/calculate", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_BUDGET_INPUT")
		})
	}

	t.Run("runs anonymously without auth", func(t *testing.T) {
		gotUser := "unset"
		svc := &mockBudgetService{
			calculateFn: func(_ context.Context, userID string, in allocation.Input) (*allocation.Result, error) {
				gotUser = userID
				return &allocation.Result{TotalBudget: in.TotalBudget}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := gin.New()
		r.POST("/budget/calculate", handler.Calculate)

		rec := doRequest(r, "POST", "/budget/calculate",
			`{"total_budget":15000,"guest_count":80,"venue_type":"hotel","style":"elegant","season":"summer"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != "" {
			t.Errorf("expected anonymous call, got owner %q", gotUser)
		}
	})
}

func TestBudgetHandler_SetsLogContext(t *testing.T) {
	svc := &mockBudgetService{
		calculateFn: func(context.Context, string, allocation.Input) (*allocation.Result, error) {
			return &allocation.Result{TotalBudget: 15000, Efficiency: allocation.TierMedium}, nil
		},
		getCalculationFn: func(userID, id string) (*services.CalculationDetail, error) {
			return &services.CalculationDetail{
				Calculation: &models.BudgetCalculation{Base: models.Base{ID: id}, UserID: userID},
			}, nil
		},
	}
	handler := NewBudgetHandler(svc, &mockAuditService{})

	var efficiency, calculationID string
	r := gin.New()
	r.Use(injectUserID(testUserID), func(c *gin.Context) {
		c.Next()
		efficiency = c.GetString(middleware.EfficiencyKey)
		calculationID = c.GetString(middleware.CalculationIDKey)
	})
	r.POST("/budget/calculate", handler.Calculate)
	r.GET("/budget/calculations/:id", handler.GetCalculation)

	doRequest(r, "POST", "/budget/calculate",
		`{"total_budget":15000,"guest_count":80,"venue_type":"hotel","style":"elegant","season":"summer"}`)
	if efficiency != "medium" {
		t.Errorf("expected efficiency medium in context, got %q", efficiency)
	}

	doRequest(r, "GET", "/budget/calculations/"+testCalculationID, "")
	if calculationID != testCalculationID {
		t.Errorf("expected calculation id %s in context, got %q", testCalculationID, calculationID)
	}
}

func TestBudgetHandler_ListCalculations(t *testing.T) {
	t.Run("passes pagination through", func(t *testing.T) {
		var gotPage pagination.PageRequest
		svc := &mockBudgetService{
			listCalculationsFn: func(_ string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCalculation], error) {
				gotPage = page
				data := []models.BudgetCalculation{{Base: models.Base{ID: testCalculationID}, UserID: testUserID, TotalBudget: 15000}}
				resp := pagination.NewPageResponse(data, page.Page, page.PageSize, 11)
				return &resp, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget/calculations?page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("expected page 2 size 5, got %+v", gotPage)
		}
		result := parseJSON(t, rec)
		if result["total_pages"].(float64) != 3 {
			t.Errorf("expected 3 pages, got %v", result["total_pages"])
		}
		item := result["data"].([]interface{})[0].(map[string]interface{})
		if _, leaked := item["result"]; leaked {
			t.Error("list items should not embed the stored result document")
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget/calculations?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestBudgetHandler_GetCalculation(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		svc := &mockBudgetService{
			getCalculationFn: func(userID, id string) (*services.CalculationDetail, error) {
				return &services.CalculationDetail{
					Calculation: &models.BudgetCalculation{Base: models.Base{ID: id}, UserID: userID},
					Result:      &allocation.Result{TotalBudget: 15000, Efficiency: allocation.TierMedium},
				}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget/calculations/"+testCalculationID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		calc := result["calculation"].(map[string]interface{})
		if calc["id"] != testCalculationID {
			t.Errorf("expected id %s, got %v", testCalculationID, calc["id"])
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget/calculations/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			getCalculationFn: func(string, string) (*services.CalculationDetail, error) {
				return nil, apperrors.ErrCalculationNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budget/calculations/"+testCalculationID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CALCULATION_NOT_FOUND")
	})
}

func TestBudgetHandler_DeleteCalculation(t *testing.T) {
	t.Run("returns 200 and audits", func(t *testing.T) {
		audit := &mockAuditService{}
		var deleted string
		svc := &mockBudgetService{
			deleteCalculationFn: func(_, id string) error {
				deleted = id
				return nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/budget/calculations/"+testCalculationID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != testCalculationID {
			t.Errorf("expected %s deleted, got %s", testCalculationID, deleted)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_CALCULATION" || audit.entries[0].resourceID != testCalculationID {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 404 and skips audit when not found", func(t *testing.T) {
		audit := &mockAuditService{}
		svc := &mockBudgetService{
			deleteCalculationFn: func(string, string) error { return apperrors.ErrCalculationNotFound },
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/budget/calculations/"+testCalculationID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %+v", audit.entries)
		}
	})
}
