package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountInfo is the normalized account shape returned to sibling services.
type AccountInfo struct {
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	AccountName   string    `json:"accountName"`
	Balance       int64     `json:"balance"`
	OpenDate      time.Time `json:"openDate"`
	Status        string    `json:"status"`
}

// ProductInfo is the normalized product-holding shape returned to sibling
// services. Rate and date fields are populated where the product kind has
// them.
type ProductInfo struct {
	ProductID        int64            `json:"productId"`
	ProductName      string           `json:"productName"`
	ProductType      string           `json:"productType"`
	ProductCode      string           `json:"productCode,omitempty"`
	Amount           int64            `json:"amount"`
	RemainingAmount  int64            `json:"remainingAmount,omitempty"`
	InterestRate     *decimal.Decimal `json:"interestRate,omitempty"`
	BaseRate         *decimal.Decimal `json:"baseRate,omitempty"`
	PreferentialRate *decimal.Decimal `json:"preferentialRate,omitempty"`
	MonthlyPayment   int64            `json:"monthlyPayment,omitempty"`
	StartDate        *time.Time       `json:"startDate,omitempty"`
	MaturityDate     *time.Time       `json:"maturityDate,omitempty"`
	SubscriptionDate time.Time        `json:"subscriptionDate"`
	Status           string           `json:"status"`
}

// CustomerInfoView is the full snapshot handed to a sibling service after a
// successful token resolution. TotalBalance is a net-worth style signed
// figure (savings + investments - loans), not a cash balance.
type CustomerInfoView struct {
	CustomerID    int64         `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	PhoneNumber   string        `json:"phoneNumber"`
	Email         string        `json:"email"`
	CustomerGrade string        `json:"customerGrade"`
	Status        string        `json:"status"`
	Accounts      []AccountInfo `json:"accounts"`
	Products      []ProductInfo `json:"products"`
	TotalBalance  int64         `json:"totalBalance"`
	ResponseTime  time.Time     `json:"responseTime"`
}

// ProductStatusView counts holdings per product category.
type ProductStatusView struct {
	SavingsCount    int `json:"savingsCount"`
	LoanCount       int `json:"loanCount"`
	InvestmentCount int `json:"investmentCount"`
	DepositCount    int `json:"depositCount"`
	TotalProducts   int `json:"totalProducts"`
}

// AccountBalanceView is the aggregate demand-deposit cash position.
type AccountBalanceView struct {
	TotalBalance int64 `json:"totalBalance"`
	AccountCount int   `json:"accountCount"`
}

// ProductOwnershipView answers the check-product-ownership call.
type ProductOwnershipView struct {
	HasProduct bool  `json:"hasProduct"`
	ProductID  int64 `json:"productId"`
}
