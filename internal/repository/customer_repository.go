package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// CustomerRepository handles customer rows in the durable store.
type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer and assigns its ID. The password must already be
// hashed by the caller.
func (r *CustomerRepository) Create(customer *models.Customer) error {
	customer.ID = uuid.NewString()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO customers (customer_id, username, password_hash, first_name, last_name, email, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		customer.ID, customer.Username, customer.PasswordHash,
		customer.FirstName, customer.LastName, customer.Email,
		customer.PhoneNumber, customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(id string) (*models.Customer, error) {
	return r.getBy("customer_id", id)
}

func (r *CustomerRepository) GetByUsername(username string) (*models.Customer, error) {
	return r.getBy("username", username)
}

func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	return r.getBy("email", email)
}

func (r *CustomerRepository) GetByPhoneNumber(phone string) (*models.Customer, error) {
	return r.getBy("phone_number", phone)
}

func (r *CustomerRepository) getBy(column, value string) (*models.Customer, error) {
	query := fmt.Sprintf(`
		SELECT customer_id, username, password_hash, first_name, last_name, email, phone_number, created_at
		FROM customers
		WHERE %s = $1
	`, column)
	var c models.Customer
	err := r.db.QueryRow(query, value).Scan(
		&c.ID, &c.Username, &c.PasswordHash,
		&c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}
