package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// AccountRepository handles account rows in the durable store. It is the
// authoritative source of truth; the in-process cache layers on top of it.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(account *models.Account) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	query := `
		INSERT INTO accounts (account_number, customer_id, account_type, balance, min_balance_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		account.AccountNumber, account.CustomerID, string(account.AccountType),
		account.Balance.String(), account.MinBalanceThreshold.String(),
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByAccountNumber(accountNumber string) (*models.Account, error) {
	query := `
		SELECT account_number, customer_id, account_type, balance, min_balance_threshold, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
	`
	return r.scanAccount(r.db.QueryRow(query, accountNumber))
}

func (r *AccountRepository) GetByCustomerID(customerID string) (*models.Account, error) {
	query := `
		SELECT account_number, customer_id, account_type, balance, min_balance_threshold, created_at, updated_at
		FROM accounts
		WHERE customer_id = $1
	`
	return r.scanAccount(r.db.QueryRow(query, customerID))
}

func (r *AccountRepository) UpdateBalance(accountNumber string, newBalance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE account_number = $3
	`
	result, err := r.db.Exec(query, newBalance.String(), time.Now().UTC(), accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %w", ErrNotFound)
	}
	return nil
}

// LastAccountNumber returns the highest numeric account number in the store,
// or 0 when no accounts exist.
func (r *AccountRepository) LastAccountNumber() (int64, error) {
	var last int64
	query := `SELECT COALESCE(MAX(CAST(account_number AS BIGINT)), 0) FROM accounts`
	if err := r.db.QueryRow(query).Scan(&last); err != nil {
		return 0, fmt.Errorf("failed to get last account number: %w", err)
	}
	return last, nil
}

// Snapshots reads every account joined with its owner's contact details,
// straight from the store. The alert monitor depends on this bypassing any
// cached view.
func (r *AccountRepository) Snapshots() ([]models.BalanceSnapshot, error) {
	query := `
		SELECT a.account_number, a.balance, a.min_balance_threshold,
		       c.first_name, c.last_name, c.email
		FROM accounts a
		JOIN customers c ON a.customer_id = c.customer_id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan balances: %w", err)
	}
	defer rows.Close()

	var snapshots []models.BalanceSnapshot
	for rows.Next() {
		var (
			s                    models.BalanceSnapshot
			balance, threshold   string
			firstName, lastName  string
		)
		if err := rows.Scan(&s.AccountNumber, &balance, &threshold, &firstName, &lastName, &s.Email); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		if s.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("invalid balance for account %s: %w", s.AccountNumber, err)
		}
		if s.Threshold, err = decimal.NewFromString(threshold); err != nil {
			return nil, fmt.Errorf("invalid threshold for account %s: %w", s.AccountNumber, err)
		}
		s.HolderName = firstName + " " + lastName
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read balance rows: %w", err)
	}
	return snapshots, nil
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a                  models.Account
		accountType        string
		balance, threshold string
	)
	err := row.Scan(
		&a.AccountNumber, &a.CustomerID, &accountType,
		&balance, &threshold, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	a.AccountType = models.AccountType(accountType)
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("invalid balance for account %s: %w", a.AccountNumber, err)
	}
	if a.MinBalanceThreshold, err = decimal.NewFromString(threshold); err != nil {
		return nil, fmt.Errorf("invalid threshold for account %s: %w", a.AccountNumber, err)
	}
	return &a, nil
}
