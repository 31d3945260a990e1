package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// TransactionRepository records the ledger entry for every deposit and
// withdrawal leg.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertTransaction = `
	INSERT INTO transactions (id, account_number, account_kind, type, amount, reference, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// CreateTx writes a ledger entry inside the caller's transaction so a
// rolled-back origination leaves no ledger trace.
func (r *TransactionRepository) CreateTx(tx *sql.Tx, t *models.Transaction) error {
	_, err := tx.Exec(insertTransaction,
		t.ID, t.AccountNumber, t.AccountKind, t.Type, t.Amount, t.Reference, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// Create writes a ledger entry outside any surrounding transaction.
func (r *TransactionRepository) Create(t *models.Transaction) error {
	_, err := r.db.Exec(insertTransaction,
		t.ID, t.AccountNumber, t.AccountKind, t.Type, t.Amount, t.Reference, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// ListByAccount returns the most recent entries first.
func (r *TransactionRepository) ListByAccount(accountNumber string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, account_number, account_kind, type, amount, COALESCE(reference, ''), created_at
		FROM transactions
		WHERE account_number = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountNumber, &t.AccountKind, &t.Type, &t.Amount, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
