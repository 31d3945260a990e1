package cqrs

// ---------- Integration queries ----------

// CustomerInfoQuery resolves a group customer token to a full holdings
// snapshot.
type CustomerInfoQuery struct {
	Token             string
	InfoType          string
	RequestingService string
}

// ProductStatusQuery counts holdings per product category for a token.
type ProductStatusQuery struct {
	Token             string
	RequestingService string
}

// AccountBalanceQuery aggregates active demand-deposit balances for a token.
type AccountBalanceQuery struct {
	Token         string
	AccountNumber string
}

// DepositAccountsQuery lists active demand-deposit accounts for a token.
type DepositAccountsQuery struct {
	Token string
}

// ProductOwnershipQuery asks whether the token's customer holds an active
// instance of ProductID. Never errors; ambiguity resolves to false.
type ProductOwnershipQuery struct {
	Token     string
	ProductID int64
}
