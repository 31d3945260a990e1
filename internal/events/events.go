package events

import "time"

// Event types
const (
	SavingsAccountOpened = "savings.account.opened"
	SavingsAccountClosed = "savings.account.closed"
	TransactionCreated   = "transaction.created"
	BalanceUpdated       = "balance.updated"
)

// Stream names
const (
	SavingsEventsStream     = "savings.events"
	TransactionEventsStream = "transaction.events"
)

// Event is the base structure written to a stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// SavingsAccountOpenedEvent is published after a successful origination
// commit.
type SavingsAccountOpenedEvent struct {
	AccountNumber string `json:"accountNumber"`
	CustomerID    int64  `json:"customerId"`
	PhoneNumber   string `json:"phoneNumber"`
	ProductID     int64  `json:"productId"`
	FinalRate     string `json:"finalRate"`
	Balance       int64  `json:"balance"`
}

// SavingsAccountClosedEvent is published when a zero-balance account is
// terminally closed.
type SavingsAccountClosedEvent struct {
	AccountNumber string `json:"accountNumber"`
	CustomerID    int64  `json:"customerId"`
}

// TransactionCreatedEvent is published for every persisted ledger entry.
type TransactionCreatedEvent struct {
	TransactionID string `json:"transactionId"`
	AccountNumber string `json:"accountNumber"`
	AccountKind   string `json:"accountKind"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
}

// BalanceUpdatedEvent carries the post-transaction balance of an account.
type BalanceUpdatedEvent struct {
	AccountNumber string `json:"accountNumber"`
	CustomerID    int64  `json:"customerId"`
	NewBalance    int64  `json:"newBalance"`
	Change        int64  `json:"change"`
}
