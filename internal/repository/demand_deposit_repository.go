package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// DemandDepositRepository handles checking accounts. Balance mutations run
// through conditional UPDATEs so the non-negative invariant holds under
// concurrent withdrawals, and the transactional variants participate in the
// origination unit of work.
type DemandDepositRepository struct {
	db *sql.DB
}

func NewDemandDepositRepository(db *sql.DB) *DemandDepositRepository {
	return &DemandDepositRepository{db: db}
}

const demandDepositColumns = `account_number, customer_id, account_name, bank_code, balance, is_active, status, open_date, created_at, updated_at`

// ListActiveByCustomer returns only active accounts; closed checking accounts
// never appear in aggregated views.
func (r *DemandDepositRepository) ListActiveByCustomer(customerID int64) ([]models.DemandDepositAccount, error) {
	query := `
		SELECT ` + demandDepositColumns + `
		FROM demand_deposit_accounts
		WHERE customer_id = $1 AND is_active
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list demand deposit accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.DemandDepositAccount
	for rows.Next() {
		var a models.DemandDepositAccount
		if err := rows.Scan(
			&a.AccountNumber, &a.CustomerID, &a.AccountName, &a.BankCode,
			&a.Balance, &a.IsActive, &a.Status, &a.OpenDate,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan demand deposit account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *DemandDepositRepository) GetByAccountNumber(accountNumber string) (*models.DemandDepositAccount, error) {
	query := `SELECT ` + demandDepositColumns + ` FROM demand_deposit_accounts WHERE account_number = $1`
	var a models.DemandDepositAccount
	err := r.db.QueryRow(query, accountNumber).Scan(
		&a.AccountNumber, &a.CustomerID, &a.AccountName, &a.BankCode,
		&a.Balance, &a.IsActive, &a.Status, &a.OpenDate,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get demand deposit account: %w", err)
	}
	return &a, nil
}

// WithdrawTx debits the account inside the caller's transaction. The balance
// guard is in the WHERE clause: zero rows affected means either a missing
// account or insufficient funds, disambiguated with a follow-up read so the
// caller gets the precise error.
func (r *DemandDepositRepository) WithdrawTx(tx *sql.Tx, accountNumber string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	query := `
		UPDATE demand_deposit_accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE account_number = $1 AND is_active AND status = 'ACTIVE' AND balance >= $2
	`
	result, err := tx.Exec(query, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("failed to withdraw from %s: %w", accountNumber, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		err := tx.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM demand_deposit_accounts WHERE account_number = $1 AND is_active AND status = 'ACTIVE')`,
			accountNumber,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check account %s: %w", accountNumber, err)
		}
		if !exists {
			return models.ErrAccountNotFound
		}
		return models.ErrInsufficientFunds
	}
	return nil
}

// DepositTx credits the account inside the caller's transaction.
func (r *DemandDepositRepository) DepositTx(tx *sql.Tx, accountNumber string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	query := `
		UPDATE demand_deposit_accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE account_number = $1 AND is_active AND status = 'ACTIVE'
	`
	result, err := tx.Exec(query, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit to %s: %w", accountNumber, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}
