package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// SavingsAccountRepository persists installment savings accounts. Origination
// runs inside a caller-owned transaction so a funding failure rolls the new
// account row back with everything else.
type SavingsAccountRepository struct {
	db *sql.DB
}

func NewSavingsAccountRepository(db *sql.DB) *SavingsAccountRepository {
	return &SavingsAccountRepository{db: db}
}

const savingsSelect = `
	SELECT a.account_number, a.customer_id, a.product_id, p.name, a.account_name,
	       a.balance, a.base_rate, a.preferential_rate, a.final_rate,
	       a.start_date, a.maturity_date,
	       a.auto_transfer_enabled, a.transfer_day, a.monthly_transfer_amount,
	       a.withdrawal_account_number, a.withdrawal_bank_name,
	       a.is_active, a.status, a.created_at, a.updated_at
	FROM savings_accounts a
	JOIN savings_products p ON p.id = a.product_id
`

func scanSavingsAccount(scan func(dest ...any) error) (*models.SavingsAccount, error) {
	var (
		a           models.SavingsAccount
		transferDay sql.NullInt64
		monthly     sql.NullInt64
		wdAccount   sql.NullString
		wdBank      sql.NullString
	)
	err := scan(
		&a.AccountNumber, &a.CustomerID, &a.ProductID, &a.ProductName, &a.AccountName,
		&a.Balance, &a.BaseRate, &a.PreferentialRate, &a.FinalRate,
		&a.StartDate, &a.MaturityDate,
		&a.AutoTransfer.Enabled, &transferDay, &monthly,
		&wdAccount, &wdBank,
		&a.IsActive, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.AutoTransfer.TransferDay = int(transferDay.Int64)
	a.AutoTransfer.MonthlyAmount = monthly.Int64
	a.AutoTransfer.WithdrawalAccountNumber = wdAccount.String
	a.AutoTransfer.WithdrawalBankName = wdBank.String
	return &a, nil
}

// CreateTx inserts the new account with its auto-transfer configuration
// stored as-is.
func (r *SavingsAccountRepository) CreateTx(tx *sql.Tx, a *models.SavingsAccount) error {
	query := `
		INSERT INTO savings_accounts (
			account_number, customer_id, product_id, account_name, balance,
			base_rate, preferential_rate, final_rate, start_date, maturity_date,
			auto_transfer_enabled, transfer_day, monthly_transfer_amount,
			withdrawal_account_number, withdrawal_bank_name,
			is_active, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	var (
		transferDay sql.NullInt64
		monthly     sql.NullInt64
		wdAccount   sql.NullString
		wdBank      sql.NullString
	)
	if a.AutoTransfer.TransferDay > 0 {
		transferDay = sql.NullInt64{Int64: int64(a.AutoTransfer.TransferDay), Valid: true}
	}
	if a.AutoTransfer.MonthlyAmount > 0 {
		monthly = sql.NullInt64{Int64: a.AutoTransfer.MonthlyAmount, Valid: true}
	}
	if a.AutoTransfer.WithdrawalAccountNumber != "" {
		wdAccount = sql.NullString{String: a.AutoTransfer.WithdrawalAccountNumber, Valid: true}
	}
	if a.AutoTransfer.WithdrawalBankName != "" {
		wdBank = sql.NullString{String: a.AutoTransfer.WithdrawalBankName, Valid: true}
	}
	_, err := tx.Exec(query,
		a.AccountNumber, a.CustomerID, a.ProductID, a.AccountName, a.Balance,
		a.BaseRate, a.PreferentialRate, a.FinalRate, a.StartDate, a.MaturityDate,
		a.AutoTransfer.Enabled, transferDay, monthly, wdAccount, wdBank,
		a.IsActive, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create savings account: %w", err)
	}
	return nil
}

func (r *SavingsAccountRepository) GetByAccountNumber(accountNumber string) (*models.SavingsAccount, error) {
	row := r.db.QueryRow(savingsSelect+` WHERE a.account_number = $1`, accountNumber)
	a, err := scanSavingsAccount(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get savings account: %w", err)
	}
	return a, nil
}

func (r *SavingsAccountRepository) ListByCustomer(customerID int64) ([]models.SavingsAccount, error) {
	rows, err := r.db.Query(savingsSelect+` WHERE a.customer_id = $1 ORDER BY a.created_at`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.SavingsAccount
	for rows.Next() {
		a, err := scanSavingsAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// ExistsByAccountNumber backs the collision check during number generation.
func (r *SavingsAccountRepository) ExistsByAccountNumber(accountNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM savings_accounts WHERE account_number = $1)`,
		accountNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number: %w", err)
	}
	return exists, nil
}

// DepositTx credits the savings account inside the caller's transaction.
func (r *SavingsAccountRepository) DepositTx(tx *sql.Tx, accountNumber string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	result, err := tx.Exec(`
		UPDATE savings_accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE account_number = $1 AND is_active AND status = 'ACTIVE'
	`, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit to savings %s: %w", accountNumber, err)
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

// Withdraw debits atomically with the balance guard in the WHERE clause.
func (r *SavingsAccountRepository) Withdraw(accountNumber string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	result, err := r.db.Exec(`
		UPDATE savings_accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE account_number = $1 AND is_active AND status = 'ACTIVE' AND balance >= $2
	`, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("failed to withdraw from savings %s: %w", accountNumber, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		err := r.db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM savings_accounts WHERE account_number = $1 AND is_active AND status = 'ACTIVE')`,
			accountNumber,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check savings account %s: %w", accountNumber, err)
		}
		if !exists {
			return models.ErrAccountNotFound
		}
		return models.ErrInsufficientFunds
	}
	return nil
}

// Deposit credits outside any surrounding transaction.
func (r *SavingsAccountRepository) Deposit(accountNumber string, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	result, err := r.db.Exec(`
		UPDATE savings_accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE account_number = $1 AND is_active AND status = 'ACTIVE'
	`, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit to savings %s: %w", accountNumber, err)
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

// Close marks the account closed. Accounts are never hard-deleted; the guard
// rejects any remaining balance.
func (r *SavingsAccountRepository) Close(accountNumber string) error {
	result, err := r.db.Exec(`
		UPDATE savings_accounts
		SET status = 'CLOSED', is_active = FALSE, updated_at = NOW()
		WHERE account_number = $1 AND status = 'ACTIVE' AND balance = 0
	`, accountNumber)
	if err != nil {
		return fmt.Errorf("failed to close savings %s: %w", accountNumber, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		err := r.db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM savings_accounts WHERE account_number = $1 AND status = 'ACTIVE')`,
			accountNumber,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check savings account %s: %w", accountNumber, err)
		}
		if !exists {
			return models.ErrAccountNotFound
		}
		return models.ErrNonZeroBalanceClose
	}
	return nil
}
