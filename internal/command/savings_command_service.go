package command

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kopofin/hanabank/internal/cqrs"
	"github.com/kopofin/hanabank/internal/events"
	"github.com/kopofin/hanabank/internal/models"
	"github.com/kopofin/hanabank/internal/utils"
	"github.com/shopspring/decimal"
)

// maxAccountNumberAttempts bounds regeneration before the origination fails
// with a collision error.
const maxAccountNumberAttempts = 5

// CustomerResolver resolves the phone number the origination request carries.
type CustomerResolver interface {
	GetByPhone(phone string) (*models.Customer, error)
}

// ProductReader reads the savings product catalog.
type ProductReader interface {
	GetByID(id int64) (*models.SavingsProduct, error)
}

// SavingsStore persists savings accounts and their balance mutations.
type SavingsStore interface {
	CreateTx(tx *sql.Tx, a *models.SavingsAccount) error
	GetByAccountNumber(accountNumber string) (*models.SavingsAccount, error)
	ExistsByAccountNumber(accountNumber string) (bool, error)
	DepositTx(tx *sql.Tx, accountNumber string, amount int64) error
	Deposit(accountNumber string, amount int64) error
	Withdraw(accountNumber string, amount int64) error
	Close(accountNumber string) error
}

// FundingSource debits and credits the demand-deposit side of the
// origination funding legs.
type FundingSource interface {
	WithdrawTx(tx *sql.Tx, accountNumber string, amount int64) error
	DepositTx(tx *sql.Tx, accountNumber string, amount int64) error
}

// LedgerWriter records one entry per money-movement leg.
type LedgerWriter interface {
	CreateTx(tx *sql.Tx, t *models.Transaction) error
	Create(t *models.Transaction) error
}

// EventPublisher appends domain events to a stream after commit.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// SavingsCommandService owns every write path for savings accounts. The
// origination runs account creation, source withdrawal and initial deposit in
// one database transaction: a failure at any step leaves no account row, no
// ledger entries and both balances untouched.
type SavingsCommandService struct {
	db        *sql.DB
	customers CustomerResolver
	products  ProductReader
	savings   SavingsStore
	deposits  FundingSource
	ledger    LedgerWriter
	publisher EventPublisher
}

func NewSavingsCommandService(
	db *sql.DB,
	customers CustomerResolver,
	products ProductReader,
	savings SavingsStore,
	deposits FundingSource,
	ledger LedgerWriter,
	publisher EventPublisher,
) *SavingsCommandService {
	return &SavingsCommandService{
		db:        db,
		customers: customers,
		products:  products,
		savings:   savings,
		deposits:  deposits,
		ledger:    ledger,
		publisher: publisher,
	}
}

// OpenAccount originates a savings account for the customer owning the phone
// number and, when an application amount is given, funds it from the
// withdrawal account in the same transaction.
func (s *SavingsCommandService) OpenAccount(cmd cqrs.OpenSavingsAccountCommand) (*models.SavingsAccount, error) {
	if cmd.ApplicationAmount < 0 {
		return nil, models.ErrInvalidAmount
	}
	if cmd.ApplicationAmount > 0 && cmd.WithdrawalAccountNumber == "" {
		return nil, models.ErrFundingSourceRequired
	}

	customer, err := s.customers.GetByPhone(cmd.PhoneNumber)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(cmd.ProductID)
	if err != nil {
		return nil, err
	}

	accountNumber, err := s.generateAccountNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	startDate := now.Truncate(24 * time.Hour)
	account := &models.SavingsAccount{
		AccountNumber:    accountNumber,
		CustomerID:       customer.ID,
		ProductID:        product.ID,
		ProductName:      product.Name,
		AccountName:      product.Name,
		Balance:          0,
		BaseRate:         product.BaseRate,
		PreferentialRate: cmd.PreferentialRate,
		FinalRate:        finalRate(product.BaseRate, cmd.PreferentialRate),
		StartDate:        startDate,
		MaturityDate:     maturityDate(startDate, product.TermMonths),
		AutoTransfer: models.AutoTransfer{
			Enabled:                 cmd.AutoTransferEnabled,
			TransferDay:             cmd.TransferDay,
			MonthlyAmount:           cmd.MonthlyTransferAmount,
			WithdrawalAccountNumber: cmd.WithdrawalAccountNumber,
			WithdrawalBankName:      cmd.WithdrawalBankName,
		},
		IsActive:  true,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin origination transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.savings.CreateTx(tx, account); err != nil {
		return nil, err
	}

	if cmd.ApplicationAmount > 0 {
		if err := s.fund(tx, account, cmd.WithdrawalAccountNumber, cmd.ApplicationAmount); err != nil {
			return nil, err
		}
		account.Balance = cmd.ApplicationAmount
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit origination: %w", err)
	}

	log.Printf("Savings account opened: %s (customer %d, product %d, balance %d)",
		account.AccountNumber, customer.ID, product.ID, account.Balance)

	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.SavingsEventsStream, events.SavingsAccountOpened, events.SavingsAccountOpenedEvent{
		AccountNumber: account.AccountNumber,
		CustomerID:    customer.ID,
		PhoneNumber:   customer.PhoneNumber,
		ProductID:     product.ID,
		FinalRate:     account.FinalRate.String(),
		Balance:       account.Balance,
	}); err != nil {
		log.Printf("Failed to publish savings.account.opened event: %v", err)
	}

	return account, nil
}

// fund performs the withdraw-then-deposit legs and their ledger entries
// inside the origination transaction. Any failure aborts the whole
// origination, wrapped so callers can still distinguish insufficient funds.
func (s *SavingsCommandService) fund(tx *sql.Tx, account *models.SavingsAccount, sourceAccount string, amount int64) error {
	now := time.Now().UTC()

	if err := s.deposits.WithdrawTx(tx, sourceAccount, amount); err != nil {
		return fmt.Errorf("%w: withdrawal from %s: %w", models.ErrTransactionFailed, sourceAccount, err)
	}
	if err := s.ledger.CreateTx(tx, &models.Transaction{
		ID:            uuid.NewString(),
		AccountNumber: sourceAccount,
		AccountKind:   models.AccountTypeDemandDeposit,
		Type:          models.TxnWithdrawal,
		Amount:        amount,
		Reference:     "savings origination " + account.AccountNumber,
		CreatedAt:     now,
	}); err != nil {
		return fmt.Errorf("%w: %w", models.ErrTransactionFailed, err)
	}

	if err := s.savings.DepositTx(tx, account.AccountNumber, amount); err != nil {
		return fmt.Errorf("%w: deposit to %s: %w", models.ErrTransactionFailed, account.AccountNumber, err)
	}
	if err := s.ledger.CreateTx(tx, &models.Transaction{
		ID:            uuid.NewString(),
		AccountNumber: account.AccountNumber,
		AccountKind:   models.AccountTypeSavings,
		Type:          models.TxnDeposit,
		Amount:        amount,
		Reference:     "initial funding",
		CreatedAt:     now,
	}); err != nil {
		return fmt.Errorf("%w: %w", models.ErrTransactionFailed, err)
	}

	return nil
}

// Deposit credits an existing savings account and records the ledger entry.
func (s *SavingsCommandService) Deposit(cmd cqrs.DepositToSavingsCommand) (*models.SavingsAccount, error) {
	if err := s.savings.Deposit(cmd.AccountNumber, cmd.Amount); err != nil {
		return nil, err
	}
	s.recordAndPublish(cmd.AccountNumber, models.TxnDeposit, cmd.Amount)
	account, err := s.savings.GetByAccountNumber(cmd.AccountNumber)
	if err != nil {
		return nil, err
	}
	s.publishBalance(account, cmd.Amount)
	return account, nil
}

// Withdraw debits an existing savings account and records the ledger entry.
func (s *SavingsCommandService) Withdraw(cmd cqrs.WithdrawFromSavingsCommand) (*models.SavingsAccount, error) {
	if err := s.savings.Withdraw(cmd.AccountNumber, cmd.Amount); err != nil {
		return nil, err
	}
	s.recordAndPublish(cmd.AccountNumber, models.TxnWithdrawal, cmd.Amount)
	account, err := s.savings.GetByAccountNumber(cmd.AccountNumber)
	if err != nil {
		return nil, err
	}
	s.publishBalance(account, -cmd.Amount)
	return account, nil
}

func (s *SavingsCommandService) publishBalance(account *models.SavingsAccount, change int64) {
	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountNumber: account.AccountNumber,
		CustomerID:    account.CustomerID,
		NewBalance:    account.Balance,
		Change:        change,
	}); err != nil {
		log.Printf("Failed to publish balance.updated event: %v", err)
	}
}

// Close terminally closes a zero-balance account.
func (s *SavingsCommandService) Close(cmd cqrs.CloseSavingsAccountCommand) (*models.SavingsAccount, error) {
	if err := s.savings.Close(cmd.AccountNumber); err != nil {
		return nil, err
	}
	account, err := s.savings.GetByAccountNumber(cmd.AccountNumber)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.SavingsEventsStream, events.SavingsAccountClosed, events.SavingsAccountClosedEvent{
		AccountNumber: account.AccountNumber,
		CustomerID:    account.CustomerID,
	}); err != nil {
		log.Printf("Failed to publish savings.account.closed event: %v", err)
	}
	return account, nil
}

func (s *SavingsCommandService) recordAndPublish(accountNumber, txnType string, amount int64) {
	txn := &models.Transaction{
		ID:            uuid.NewString(),
		AccountNumber: accountNumber,
		AccountKind:   models.AccountTypeSavings,
		Type:          txnType,
		Amount:        amount,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.ledger.Create(txn); err != nil {
		log.Printf("Failed to record %s ledger entry for %s: %v", txnType, accountNumber, err)
	}
	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: txn.ID,
		AccountNumber: accountNumber,
		AccountKind:   models.AccountTypeSavings,
		Type:          txnType,
		Amount:        amount,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}
}

// generateAccountNumber regenerates on collision up to the attempt budget.
func (s *SavingsCommandService) generateAccountNumber() (string, error) {
	for i := 0; i < maxAccountNumberAttempts; i++ {
		candidate := utils.GenerateSavingsAccountNumber()
		exists, err := s.savings.ExistsByAccountNumber(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", models.ErrAccountNumberCollision
}

// finalRate is the product base rate plus the preferential bonus. Decimal
// arithmetic keeps 1.8 + 0.5 exactly 2.3.
func finalRate(base, preferential decimal.Decimal) decimal.Decimal {
	return base.Add(preferential)
}

// maturityDate adds the product term in calendar months.
func maturityDate(start time.Time, termMonths int) time.Time {
	return start.AddDate(0, termMonths, 0)
}
