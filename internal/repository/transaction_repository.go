package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// TransactionRepository handles the append-only transaction ledger.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts a ledger entry and assigns its ID. Entries are never
// updated or deleted.
func (r *TransactionRepository) Append(txn *models.Transaction) error {
	txn.ID = uuid.NewString()
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}
	_, err := r.db.Exec(insertTransactionSQL,
		txn.ID, txn.AccountNumber, string(txn.Type),
		txn.Amount.String(), txn.Timestamp, txn.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// ListForAccount returns every ledger entry for the account, newest first.
func (r *TransactionRepository) ListForAccount(accountNumber string) ([]models.Transaction, error) {
	query := `
		SELECT transaction_id, account_number, transaction_type, amount, timestamp, description
		FROM transactions
		WHERE account_number = $1
		ORDER BY timestamp DESC
	`
	rows, err := r.db.Query(query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var (
			t           models.Transaction
			txnType     string
			amount      string
			description sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.AccountNumber, &txnType, &amount, &t.Timestamp, &description); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = models.TransactionType(txnType)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount on transaction %s: %w", t.ID, err)
		}
		t.Description = description.String
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txns, nil
}

const insertTransactionSQL = `
	INSERT INTO transactions (transaction_id, account_number, transaction_type, amount, timestamp, description)
	VALUES ($1, $2, $3, $4, $5, $6)
`
