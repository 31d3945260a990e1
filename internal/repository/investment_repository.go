package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// InvestmentRepository is a read-only aggregation source; valuation updates
// arrive from the brokerage system.
type InvestmentRepository struct {
	db *sql.DB
}

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) ListByCustomer(customerID int64) ([]models.InvestmentAccount, error) {
	query := `
		SELECT account_number, customer_id, product_name, investment_amount, current_value, status, created_at
		FROM investment_accounts
		WHERE customer_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment accounts: %w", err)
	}
	defer rows.Close()

	var investments []models.InvestmentAccount
	for rows.Next() {
		var i models.InvestmentAccount
		if err := rows.Scan(
			&i.AccountNumber, &i.CustomerID, &i.ProductName, &i.InvestmentAmount,
			&i.CurrentValue, &i.Status, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investment account: %w", err)
		}
		investments = append(investments, i)
	}
	return investments, rows.Err()
}
