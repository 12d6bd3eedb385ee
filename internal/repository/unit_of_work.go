package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// UnitOfWork commits multi-row changes as one store transaction. A transfer
// must never leave the ledger with one side updated and the other not.
type UnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Transfer writes both balance updates and both ledger entries atomically.
// Both transactions are assigned IDs on success; on error nothing is
// committed and the passed records are left untouched by the store.
func (u *UnitOfWork) Transfer(fromNumber, toNumber string, fromBalance, toBalance decimal.Decimal, outTxn, inTxn *models.Transaction) error {
	tx, err := u.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if err := updateBalanceTx(tx, fromNumber, fromBalance, now); err != nil {
		return err
	}
	if err := updateBalanceTx(tx, toNumber, toBalance, now); err != nil {
		return err
	}

	outTxn.ID = uuid.NewString()
	inTxn.ID = uuid.NewString()
	for _, txn := range []*models.Transaction{outTxn, inTxn} {
		if txn.Timestamp.IsZero() {
			txn.Timestamp = now
		}
		if _, err := tx.Exec(insertTransactionSQL,
			txn.ID, txn.AccountNumber, string(txn.Type),
			txn.Amount.String(), txn.Timestamp, txn.Description,
		); err != nil {
			return fmt.Errorf("failed to append transfer transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

func updateBalanceTx(tx *sql.Tx, accountNumber string, balance decimal.Decimal, now time.Time) error {
	result, err := tx.Exec(
		`UPDATE accounts SET balance = $1, updated_at = $2 WHERE account_number = $3`,
		balance.String(), now, accountNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s %w", accountNumber, ErrNotFound)
	}
	return nil
}
