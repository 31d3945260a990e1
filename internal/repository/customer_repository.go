package repository

import (
	"database/sql"
	"fmt"

	"github.com/kopofin/hanabank/internal/models"
)

// CustomerRepository is the customer directory. Phone numbers are stored
// digits-only; callers must normalize before lookup.
type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, username, password_hash, name, email, phone_number, customer_grade, is_active, created_at, updated_at`

func scanCustomer(row *sql.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.Username, &c.PasswordHash, &c.Name, &c.Email,
		&c.PhoneNumber, &c.CustomerGrade, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// GetByPhone resolves the cross-service identity anchor. A miss is
// ErrCustomerNotFound, distinct from a malformed-token failure.
func (r *CustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1 AND is_active`
	return scanCustomer(r.db.QueryRow(query, phone))
}

// GetByEmail supports channel login.
func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1 AND is_active`
	return scanCustomer(r.db.QueryRow(query, email))
}

func (r *CustomerRepository) GetByID(id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRow(query, id))
}
