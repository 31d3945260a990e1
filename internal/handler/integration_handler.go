package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/middleware"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/token"
	"github.com/shopspring/decimal"
)

// IntegrationQuerier defines the read-side operations used by
// IntegrationHandler.
type IntegrationQuerier interface {
	CustomerInfo(ctx context.Context, q cqrs.CustomerInfoQuery) (*models.CustomerInfoView, error)
	ProductStatus(q cqrs.ProductStatusQuery) (*models.ProductStatusView, error)
	AccountBalance(q cqrs.AccountBalanceQuery) (*models.AccountBalanceView, error)
	DepositAccounts(q cqrs.DepositAccountsQuery) ([]models.DemandDepositAccount, error)
	HasProduct(q cqrs.ProductOwnershipQuery) bool
}

// SavingsOpener defines the origination operation used by IntegrationHandler.
type SavingsOpener interface {
	OpenAccount(cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error)
}

// IntegrationHandler serves the group-internal API consumed by sibling
// financial services. Callers authenticate with opaque customer tokens, not
// JWTs.
type IntegrationHandler struct {
	queries  IntegrationQuerier
	commands SavingsOpener
}

func NewIntegrationHandler(queries IntegrationQuerier, commands SavingsOpener) *IntegrationHandler {
	return &IntegrationHandler{queries: queries, commands: commands}
}

type CustomerInfoRequest struct {
	GroupCustomerToken string `json:"groupCustomerToken" validate:"required"`
	InfoType           string `json:"infoType"`
	RequestingService  string `json:"requestingService"`
	// consentToken is accepted for wire compatibility but not yet enforced.
	ConsentToken string `json:"consentToken"`
}

type ProductStatusRequest struct {
	CustomerInfoToken string `json:"customerInfoToken" validate:"required"`
	RequestingService string `json:"requestingService"`
}

type AccountBalanceRequest struct {
	CustomerInfoToken string `json:"customerInfoToken" validate:"required"`
	AccountNumber     string `json:"accountNumber"`
}

type DepositAccountsRequest struct {
	CustomerInfoToken string `json:"customerInfoToken" validate:"required"`
}

// CheckProductOwnershipRequest leaves ProductID unvalidated on purpose: a
// missing or non-positive id resolves to hasProduct=false like every other
// undetermined input on this path.
type CheckProductOwnershipRequest struct {
	GroupCustomerToken string `json:"groupCustomerToken" validate:"required"`
	ProductID          int64  `json:"productId"`
}

type CreateSavingsAccountRequest struct {
	CustomerInfoToken       string          `json:"customerInfoToken" validate:"required"`
	ProductID               int64           `json:"productId" validate:"required,gt=0"`
	PreferentialRate        decimal.Decimal `json:"preferentialRate"`
	ApplicationAmount       int64           `json:"applicationAmount" validate:"gte=0"`
	AutoTransferEnabled     bool            `json:"autoTransferEnabled"`
	TransferDay             int             `json:"transferDay" validate:"gte=0,lte=31"`
	MonthlyTransferAmount   int64           `json:"monthlyTransferAmount" validate:"gte=0"`
	WithdrawalAccountNumber string          `json:"withdrawalAccountNumber"`
	WithdrawalBankName      string          `json:"withdrawalBankName"`
}

// respondDomainError maps the domain error taxonomy to HTTP statuses:
// malformed tokens, misses and bad amounts are the caller's fault (400),
// contended outcomes are conflicts (409), everything else is unexpected
// (500).
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrTokenFormat):
		middleware.RespondError(c, http.StatusBadRequest, "Invalid customer token")
	case errors.Is(err, models.ErrCustomerNotFound):
		middleware.RespondError(c, http.StatusBadRequest, "Customer not found")
	case errors.Is(err, models.ErrProductNotFound):
		middleware.RespondError(c, http.StatusBadRequest, "Savings product not found")
	case errors.Is(err, models.ErrAccountNotFound):
		middleware.RespondError(c, http.StatusBadRequest, "Account not found")
	case errors.Is(err, models.ErrInvalidAmount):
		middleware.RespondError(c, http.StatusBadRequest, "Amount must be greater than zero")
	case errors.Is(err, models.ErrFundingSourceRequired):
		middleware.RespondError(c, http.StatusBadRequest, "Withdrawal account required for funded application")
	case errors.Is(err, models.ErrNonZeroBalanceClose):
		middleware.RespondError(c, http.StatusBadRequest, "Account balance must be zero before closing")
	case errors.Is(err, models.ErrInsufficientFunds):
		middleware.RespondError(c, http.StatusConflict, "Insufficient funds")
	case errors.Is(err, models.ErrAccountNumberCollision):
		middleware.RespondError(c, http.StatusConflict, "Could not allocate an account number")
	default:
		middleware.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// GetCustomerInfo resolves a group customer token to the full holdings
// snapshot.
func (h *IntegrationHandler) GetCustomerInfo(c *gin.Context) {
	var req CustomerInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.queries.CustomerInfo(c.Request.Context(), cqrs.CustomerInfoQuery{
		Token:             req.GroupCustomerToken,
		InfoType:          req.InfoType,
		RequestingService: req.RequestingService,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Customer information retrieved", view)
}

// CreateSavingsAccount originates a savings account for the token's customer.
func (h *IntegrationHandler) CreateSavingsAccount(c *gin.Context) {
	var req CreateSavingsAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	phone, err := token.DecodePhone(req.CustomerInfoToken)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	account, err := h.commands.OpenAccount(cqrs.OpenSavingsAccountCommand{
		PhoneNumber:             phone,
		ProductID:               req.ProductID,
		PreferentialRate:        req.PreferentialRate,
		ApplicationAmount:       req.ApplicationAmount,
		AutoTransferEnabled:     req.AutoTransferEnabled,
		TransferDay:             req.TransferDay,
		MonthlyTransferAmount:   req.MonthlyTransferAmount,
		WithdrawalAccountNumber: req.WithdrawalAccountNumber,
		WithdrawalBankName:      req.WithdrawalBankName,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Savings account created", account)
}

// GetProductStatus counts the customer's holdings per product category.
func (h *IntegrationHandler) GetProductStatus(c *gin.Context) {
	var req ProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.queries.ProductStatus(cqrs.ProductStatusQuery{
		Token:             req.CustomerInfoToken,
		RequestingService: req.RequestingService,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Product status retrieved", view)
}

// GetAccountBalance aggregates the customer's active demand-deposit balances.
func (h *IntegrationHandler) GetAccountBalance(c *gin.Context) {
	var req AccountBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.queries.AccountBalance(cqrs.AccountBalanceQuery{
		Token:         req.CustomerInfoToken,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Account balance retrieved", view)
}

// GetDepositAccounts lists the customer's active demand-deposit accounts.
func (h *IntegrationHandler) GetDepositAccounts(c *gin.Context) {
	var req DepositAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	accounts, err := h.queries.DepositAccounts(cqrs.DepositAccountsQuery{Token: req.CustomerInfoToken})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Deposit accounts retrieved", accounts)
}

// CheckProductOwnership answers the ownership question. The answer is always
// 200: an undecodable token or unknown customer yields hasProduct=false
// rather than an error, so callers can gate eligibility on the boolean alone.
func (h *IntegrationHandler) CheckProductOwnership(c *gin.Context) {
	var req CheckProductOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	hasProduct := h.queries.HasProduct(cqrs.ProductOwnershipQuery{
		Token:     req.GroupCustomerToken,
		ProductID: req.ProductID,
	})
	middleware.RespondSuccess(c, http.StatusOK, "Product ownership check completed", models.ProductOwnershipView{
		HasProduct: hasProduct,
		ProductID:  req.ProductID,
	})
}
