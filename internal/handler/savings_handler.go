package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/middleware"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/utils"
)

// defaultTransactionLimit caps the history page when the caller gives none.
const defaultTransactionLimit = 20

// SavingsCommander defines the write-side operations used by SavingsHandler.
type SavingsCommander interface {
	Deposit(cqrs.DepositToSavingsCommand) (*models.SavingsAccount, error)
	Withdraw(cqrs.WithdrawFromSavingsCommand) (*models.SavingsAccount, error)
	Close(cqrs.CloseSavingsAccountCommand) (*models.SavingsAccount, error)
}

// ProductCatalog lists the active savings products.
type ProductCatalog interface {
	ListActive() ([]models.SavingsProduct, error)
}

// AccountReader resolves an account for the ownership check on channel routes.
type AccountReader interface {
	GetByAccountNumber(accountNumber string) (*models.SavingsAccount, error)
}

// LedgerReader pages the transaction history of an account.
type LedgerReader interface {
	ListByAccount(accountNumber string, limit int) ([]models.Transaction, error)
}

// SavingsHandler serves the bank's own channel. Account routes sit behind the
// JWT middleware and only operate on accounts owned by the authenticated
// customer; the product catalog is public.
type SavingsHandler struct {
	commands SavingsCommander
	products ProductCatalog
	accounts AccountReader
	ledger   LedgerReader
}

func NewSavingsHandler(commands SavingsCommander, products ProductCatalog, accounts AccountReader, ledger LedgerReader) *SavingsHandler {
	return &SavingsHandler{commands: commands, products: products, accounts: accounts, ledger: ledger}
}

type AmountRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// ListProducts returns the active savings product catalog.
func (h *SavingsHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListActive()
	if err != nil {
		middleware.RespondError(c, http.StatusInternalServerError, "Failed to list savings products")
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Savings products retrieved", products)
}

// accountNumberParam validates the 3-6-5 dashed format before any store
// round trip.
func accountNumberParam(c *gin.Context) (string, bool) {
	accountNumber := c.Param("accountNumber")
	if !utils.ValidateSavingsAccountNumber(accountNumber) {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid account number format")
		return "", false
	}
	return accountNumber, true
}

// ownedAccountNumber resolves the path account and checks it belongs to the
// authenticated customer. Responds and returns false otherwise.
func (h *SavingsHandler) ownedAccountNumber(c *gin.Context) (string, bool) {
	accountNumber, ok := accountNumberParam(c)
	if !ok {
		return "", false
	}
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		middleware.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	account, err := h.accounts.GetByAccountNumber(accountNumber)
	if err != nil {
		respondDomainError(c, err)
		return "", false
	}
	if account.CustomerID != customerID {
		middleware.RespondError(c, http.StatusForbidden, "You can only manage your own accounts")
		return "", false
	}
	return accountNumber, true
}

// Deposit credits a savings account.
func (h *SavingsHandler) Deposit(c *gin.Context) {
	accountNumber, ok := h.ownedAccountNumber(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.Deposit(cqrs.DepositToSavingsCommand{
		AccountNumber: accountNumber,
		Amount:        req.Amount,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Deposit completed", account)
}

// Withdraw debits a savings account.
func (h *SavingsHandler) Withdraw(c *gin.Context) {
	accountNumber, ok := h.ownedAccountNumber(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.Withdraw(cqrs.WithdrawFromSavingsCommand{
		AccountNumber: accountNumber,
		Amount:        req.Amount,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Withdrawal completed", account)
}

// Close terminally closes a zero-balance savings account.
func (h *SavingsHandler) Close(c *gin.Context) {
	accountNumber, ok := h.ownedAccountNumber(c)
	if !ok {
		return
	}

	account, err := h.commands.Close(cqrs.CloseSavingsAccountCommand{AccountNumber: accountNumber})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Account closed", account)
}

// ListTransactions returns the account's most recent ledger entries, newest
// first.
func (h *SavingsHandler) ListTransactions(c *gin.Context) {
	accountNumber, ok := h.ownedAccountNumber(c)
	if !ok {
		return
	}

	limit := defaultTransactionLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.RespondError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transactions, err := h.ledger.ListByAccount(accountNumber, limit)
	if err != nil {
		middleware.RespondError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	middleware.RespondSuccess(c, http.StatusOK, "Transactions retrieved", transactions)
}
