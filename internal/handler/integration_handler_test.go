package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/token"
)

// ---- mock implementations ----

type mockIntegrationQuerier struct {
	customerInfoFn    func(cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error)
	productStatusFn   func(cqrs.ProductStatusQuery) (*models.ProductStatusView, error)
	accountBalanceFn  func(cqrs.AccountBalanceQuery) (*models.AccountBalanceView, error)
	depositAccountsFn func(cqrs.DepositAccountsQuery) ([]models.DemandDepositAccount, error)
	hasProductFn      func(cqrs.ProductOwnershipQuery) bool
}

func (m *mockIntegrationQuerier) CustomerInfo(_ context.Context, q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error) {
	if m.customerInfoFn != nil {
		return m.customerInfoFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockIntegrationQuerier) ProductStatus(q cqrs.ProductStatusQuery) (*models.ProductStatusView, error) {
	if m.productStatusFn != nil {
		return m.productStatusFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockIntegrationQuerier) AccountBalance(q cqrs.AccountBalanceQuery) (*models.AccountBalanceView, error) {
	if m.accountBalanceFn != nil {
		return m.accountBalanceFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockIntegrationQuerier) DepositAccounts(q cqrs.DepositAccountsQuery) ([]models.DemandDepositAccount, error) {
	if m.depositAccountsFn != nil {
		return m.depositAccountsFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockIntegrationQuerier) HasProduct(q cqrs.ProductOwnershipQuery) bool {
	if m.hasProductFn != nil {
		return m.hasProductFn(q)
	}
	return false
}

type mockSavingsOpener struct {
	openFn func(cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error)
}

func (m *mockSavingsOpener) OpenAccount(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
	if m.openFn != nil {
		return m.openFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newIntegrationTestRouter(queries IntegrationQuerier, commands SavingsOpener) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewIntegrationHandler(queries, commands)
	api := r.Group("/api/integration")
	api.POST("/customer-info", h.GetCustomerInfo)
	api.POST("/savings-accounts", h.CreateSavingsAccount)
	api.POST("/product-status", h.GetProductStatus)
	api.POST("/account-balance", h.GetAccountBalance)
	api.POST("/deposit-accounts", h.GetDepositAccounts)
	api.POST("/check-product-ownership", h.CheckProductOwnership)
	return r
}

func doRequest(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (bool, map[string]any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not the uniform envelope: %v", err)
	}
	var data map[string]any
	if len(envelope.Data) > 0 {
		// validation failures carry a list here; object payloads decode, the
		// rest stay nil
		_ = json.Unmarshal(envelope.Data, &data)
	}
	return envelope.Success, data
}

// ---- test data ----

var testToken = token.EncodeGroupToken("010-1234-5678")

var testSnapshot = &models.CustomerInfoView{
	CustomerID:   7,
	CustomerName: "Kim Hana",
	PhoneNumber:  "01012345678",
	Status:       models.StatusActive,
	TotalBalance: 300000,
	ResponseTime: time.Now().UTC(),
}

var testSavingsAccount = &models.SavingsAccount{
	AccountNumber: "506-123456-12345",
	CustomerID:    7,
	ProductID:     1,
	ProductName:   "installment savings",
	Balance:       100000,
	IsActive:      true,
	Status:        models.StatusActive,
}

// ---- tests ----

func TestGetCustomerInfo(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		customerInfoFn func(cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error)
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]any{"groupCustomerToken": testToken, "requestingService": "hanacard"},
			customerInfoFn: func(q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error) { return testSnapshot, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - malformed token",
			body:           map[string]any{"groupCustomerToken": "garbage"},
			customerInfoFn: func(q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error) { return nil, models.ErrTokenFormat },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - unknown customer",
			body:           map[string]any{"groupCustomerToken": testToken},
			customerInfoFn: func(q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error) { return nil, models.ErrCustomerNotFound },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing token",
			body:           map[string]any{"requestingService": "hanacard"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error - store failure",
			body:           map[string]any{"groupCustomerToken": testToken},
			customerInfoFn: func(q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error) { return nil, fmt.Errorf("connection refused") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIntegrationTestRouter(&mockIntegrationQuerier{customerInfoFn: tt.customerInfoFn}, &mockSavingsOpener{})
			w := doRequest(router, http.MethodPost, "/api/integration/customer-info", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			success, _ := decodeEnvelope(t, w)
			if success != (tt.expectedStatus == http.StatusOK) {
				t.Errorf("envelope success flag %v does not match status %d", success, w.Code)
			}
		})
	}
}

func TestCreateSavingsAccount(t *testing.T) {
	validBody := func() map[string]any {
		return map[string]any{
			"customerInfoToken":       testToken,
			"productId":               1,
			"preferentialRate":        "0.5",
			"applicationAmount":       100000,
			"withdrawalAccountNumber": "110-123456-12345",
			"withdrawalBankName":      "hanabank",
		}
	}

	tests := []struct {
		name           string
		body           any
		openFn         func(cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error)
		expectedStatus int
	}{
		{
			name:           "success - funded application answers 200",
			body:           validBody(),
			openFn:         func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) { return testSavingsAccount, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "conflict - insufficient funds aborts origination",
			body: validBody(),
			openFn: func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
				return nil, fmt.Errorf("%w: withdrawal: %w", models.ErrTransactionFailed, models.ErrInsufficientFunds)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "bad request - funded application without source account",
			body: validBody(),
			openFn: func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
				return nil, models.ErrFundingSourceRequired
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - account number space exhausted",
			body: validBody(),
			openFn: func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
				return nil, models.ErrAccountNumberCollision
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "bad request - unknown product",
			body: validBody(),
			openFn: func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
				return nil, models.ErrProductNotFound
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing product id",
			body:           map[string]any{"customerInfoToken": testToken},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - malformed token rejected before the command",
			body: map[string]any{
				"customerInfoToken": "garbage",
				"productId":         1,
			},
			openFn: func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
				t.Fatal("command must not run for a malformed token")
				return nil, nil
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIntegrationTestRouter(&mockIntegrationQuerier{}, &mockSavingsOpener{openFn: tt.openFn})
			w := doRequest(router, http.MethodPost, "/api/integration/savings-accounts", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateSavingsAccountPassesDecodedPhone(t *testing.T) {
	var got cqrs.OpenSavingsAccountCommand
	router := newIntegrationTestRouter(&mockIntegrationQuerier{}, &mockSavingsOpener{
		openFn: func(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
			got = cmd
			return testSavingsAccount, nil
		},
	})

	w := doRequest(router, http.MethodPost, "/api/integration/savings-accounts", map[string]any{
		"customerInfoToken": testToken,
		"productId":         1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got.PhoneNumber != "01012345678" {
		t.Errorf("expected digits-only phone 01012345678, got %q", got.PhoneNumber)
	}
}

func TestCheckProductOwnership(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		hasProduct  bool
		wantStatus  int
		wantFlagSet bool
	}{
		{
			name:        "customer holds the product",
			body:        map[string]any{"groupCustomerToken": testToken, "productId": 1},
			hasProduct:  true,
			wantStatus:  http.StatusOK,
			wantFlagSet: true,
		},
		{
			name:       "malformed token still answers 200 false",
			body:       map[string]any{"groupCustomerToken": "garbage", "productId": 1},
			hasProduct: false,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing product id answers 200 false",
			body:       map[string]any{"groupCustomerToken": testToken},
			hasProduct: false,
			wantStatus: http.StatusOK,
		},
		{
			name:       "negative product id answers 200 false",
			body:       map[string]any{"groupCustomerToken": testToken, "productId": -1},
			hasProduct: false,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token is still rejected",
			body:       map[string]any{"productId": 1},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIntegrationTestRouter(&mockIntegrationQuerier{
				hasProductFn: func(cqrs.ProductOwnershipQuery) bool { return tt.hasProduct },
			}, &mockSavingsOpener{})
			w := doRequest(router, http.MethodPost, "/api/integration/check-product-ownership", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			_, data := decodeEnvelope(t, w)
			if data["hasProduct"] != tt.wantFlagSet {
				t.Errorf("expected hasProduct=%v, got %v", tt.wantFlagSet, data["hasProduct"])
			}
		})
	}
}

func TestGetProductStatus(t *testing.T) {
	router := newIntegrationTestRouter(&mockIntegrationQuerier{
		productStatusFn: func(q cqrs.ProductStatusQuery) (*models.ProductStatusView, error) {
			return &models.ProductStatusView{SavingsCount: 1, DepositCount: 2, TotalProducts: 3}, nil
		},
	}, &mockSavingsOpener{})

	w := doRequest(router, http.MethodPost, "/api/integration/product-status", map[string]any{"customerInfoToken": testToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	_, data := decodeEnvelope(t, w)
	if data["totalProducts"] != float64(3) {
		t.Errorf("expected totalProducts 3, got %v", data["totalProducts"])
	}
}

func TestGetAccountBalance(t *testing.T) {
	router := newIntegrationTestRouter(&mockIntegrationQuerier{
		accountBalanceFn: func(q cqrs.AccountBalanceQuery) (*models.AccountBalanceView, error) {
			return &models.AccountBalanceView{TotalBalance: 500000, AccountCount: 2}, nil
		},
	}, &mockSavingsOpener{})

	w := doRequest(router, http.MethodPost, "/api/integration/account-balance", map[string]any{"customerInfoToken": testToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	_, data := decodeEnvelope(t, w)
	if data["totalBalance"] != float64(500000) {
		t.Errorf("expected totalBalance 500000, got %v", data["totalBalance"])
	}
}
