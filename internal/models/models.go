package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account lifecycle statuses shared by every account kind.
const (
	StatusActive  = "ACTIVE"
	StatusClosed  = "CLOSED"
	StatusMatured = "MATURED"
)

// Account type tags used in aggregated views.
const (
	AccountTypeDemandDeposit = "DEMAND_DEPOSIT"
	AccountTypeSavings       = "SAVINGS"
	AccountTypeLoan          = "LOAN"
	AccountTypeInvestment    = "INVESTMENT"
)

// Transaction types recorded in the ledger.
const (
	TxnDeposit    = "deposit"
	TxnWithdrawal = "withdrawal"
)

// Customer is a retail customer. PhoneNumber is stored digits-only and is the
// sole join key used by sibling services in the financial group.
type Customer struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber"`
	CustomerGrade string    `json:"customerGrade"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// DemandDepositAccount is a checking account. Balance is in whole won and must
// never go negative.
type DemandDepositAccount struct {
	AccountNumber string    `json:"accountNumber"`
	CustomerID    int64     `json:"-"`
	AccountName   string    `json:"accountName"`
	BankCode      string    `json:"bankCode"`
	Balance       int64     `json:"balance"`
	IsActive      bool      `json:"isActive"`
	Status        string    `json:"status"`
	OpenDate      time.Time `json:"openDate"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// Withdraw debits the account in memory. The repository enforces the same
// invariant again with a conditional UPDATE so concurrent withdrawals cannot
// overdraw the row.
func (a *DemandDepositAccount) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

// Deposit credits the account in memory.
func (a *DemandDepositAccount) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.Balance += amount
	return nil
}

// SavingsProduct is immutable reference data seeded by migration.
type SavingsProduct struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	BaseRate   decimal.Decimal `json:"baseRate"`
	TermMonths int             `json:"termMonths"`
	IsActive   bool            `json:"isActive"`
}

// SavingsAccount is an installment savings account. FinalRate is always
// BaseRate + PreferentialRate; balance starts at zero and only changes through
// deposit and withdrawal operations.
type SavingsAccount struct {
	AccountNumber    string          `json:"accountNumber"`
	CustomerID       int64           `json:"-"`
	ProductID        int64           `json:"productId"`
	ProductName      string          `json:"productName"`
	AccountName      string          `json:"accountName"`
	Balance          int64           `json:"balance"`
	BaseRate         decimal.Decimal `json:"baseRate"`
	PreferentialRate decimal.Decimal `json:"preferentialRate"`
	FinalRate        decimal.Decimal `json:"finalRate"`
	StartDate        time.Time       `json:"startDate"`
	MaturityDate     time.Time       `json:"maturityDate"`
	AutoTransfer     AutoTransfer    `json:"autoTransfer"`
	IsActive         bool            `json:"isActive"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdTimestamp"`
	UpdatedAt        time.Time       `json:"updatedTimestamp"`
}

// AutoTransfer is declarative scheduling metadata stored with a savings
// account. No scheduler runs here; the configuration is persisted as-is for
// the transfer engine that executes monthly debits.
type AutoTransfer struct {
	Enabled                 bool   `json:"enabled"`
	TransferDay             int    `json:"transferDay,omitempty"`
	MonthlyAmount           int64  `json:"monthlyAmount,omitempty"`
	WithdrawalAccountNumber string `json:"withdrawalAccountNumber,omitempty"`
	WithdrawalBankName      string `json:"withdrawalBankName,omitempty"`
}

// Deposit credits the savings account in memory.
func (a *SavingsAccount) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.Balance += amount
	return nil
}

// Withdraw debits the savings account in memory.
func (a *SavingsAccount) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

// Close marks the account closed. Accounts are never hard-deleted.
func (a *SavingsAccount) Close() error {
	if a.Balance != 0 {
		return ErrNonZeroBalanceClose
	}
	a.Status = StatusClosed
	a.IsActive = false
	return nil
}

// LoanAccount is a read-only aggregation target.
type LoanAccount struct {
	AccountNumber   string          `json:"accountNumber"`
	CustomerID      int64           `json:"-"`
	ProductName     string          `json:"productName"`
	LoanAmount      int64           `json:"loanAmount"`
	RemainingAmount int64           `json:"remainingAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	MonthlyPayment  int64           `json:"monthlyPayment"`
	StartDate       time.Time       `json:"startDate"`
	MaturityDate    time.Time       `json:"maturityDate"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdTimestamp"`
}

// InvestmentAccount is a read-only aggregation target.
type InvestmentAccount struct {
	AccountNumber    string    `json:"accountNumber"`
	CustomerID       int64     `json:"-"`
	ProductName      string    `json:"productName"`
	InvestmentAmount int64     `json:"investmentAmount"`
	CurrentValue     int64     `json:"currentValue"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdTimestamp"`
}

// Transaction is a ledger entry for a single deposit or withdrawal leg.
type Transaction struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	AccountKind   string    `json:"accountKind"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Reference     string    `json:"reference,omitempty"`
	CreatedAt     time.Time `json:"createdTimestamp"`
}
