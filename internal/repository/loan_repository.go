package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// LoanRepository is a read-only aggregation source; loan servicing lives in a
// separate system.
type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) ListByCustomer(customerID int64) ([]models.LoanAccount, error) {
	query := `
		SELECT account_number, customer_id, product_name, loan_amount, remaining_amount,
		       interest_rate, monthly_payment, start_date, maturity_date, status, created_at
		FROM loan_accounts
		WHERE customer_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan accounts: %w", err)
	}
	defer rows.Close()

	var loans []models.LoanAccount
	for rows.Next() {
		var l models.LoanAccount
		if err := rows.Scan(
			&l.AccountNumber, &l.CustomerID, &l.ProductName, &l.LoanAmount, &l.RemainingAmount,
			&l.InterestRate, &l.MonthlyPayment, &l.StartDate, &l.MaturityDate, &l.Status, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan account: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
