package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// SavingsProductRepository reads the immutable product catalog seeded by
// migration.
type SavingsProductRepository struct {
	db *sql.DB
}

func NewSavingsProductRepository(db *sql.DB) *SavingsProductRepository {
	return &SavingsProductRepository{db: db}
}

func (r *SavingsProductRepository) GetByID(id int64) (*models.SavingsProduct, error) {
	query := `SELECT id, name, base_rate, term_months, is_active FROM savings_products WHERE id = $1 AND is_active`
	var p models.SavingsProduct
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.BaseRate, &p.TermMonths, &p.IsActive)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get savings product: %w", err)
	}
	return &p, nil
}

func (r *SavingsProductRepository) ListActive() ([]models.SavingsProduct, error) {
	rows, err := r.db.Query(`SELECT id, name, base_rate, term_months, is_active FROM savings_products WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings products: %w", err)
	}
	defer rows.Close()

	var products []models.SavingsProduct
	for rows.Next() {
		var p models.SavingsProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.BaseRate, &p.TermMonths, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan savings product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
