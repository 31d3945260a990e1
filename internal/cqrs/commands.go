package cqrs

import "github.com/shopspring/decimal"

// OpenSavingsAccountCommand originates a savings account for the customer
// owning PhoneNumber. ApplicationAmount > 0 requests same-transaction funding
// from WithdrawalAccountNumber.
type OpenSavingsAccountCommand struct {
	PhoneNumber             string
	ProductID               int64
	PreferentialRate        decimal.Decimal
	ApplicationAmount       int64
	AutoTransferEnabled     bool
	TransferDay             int
	MonthlyTransferAmount   int64
	WithdrawalAccountNumber string
	WithdrawalBankName      string
}

// DepositToSavingsCommand credits an existing savings account.
type DepositToSavingsCommand struct {
	AccountNumber string
	Amount        int64
}

// WithdrawFromSavingsCommand debits an existing savings account.
type WithdrawFromSavingsCommand struct {
	AccountNumber string
	Amount        int64
}

// CloseSavingsAccountCommand terminally closes a zero-balance account.
type CloseSavingsAccountCommand struct {
	AccountNumber string
}

// LoginCommand authenticates a customer on the bank's own channel.
type LoginCommand struct {
	Email    string
	Password string
}

// RefreshTokenCommand exchanges a valid JWT for a fresh one.
type RefreshTokenCommand struct {
	Token string
}
