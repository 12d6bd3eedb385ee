package repository

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	return db
}

var seq int

func seedCustomer(t *testing.T, db *sql.DB) *models.Customer {
	t.Helper()
	seq++
	customer := &models.Customer{
		Username:     fmt.Sprintf("user%d", seq),
		PasswordHash: "hashed",
		FirstName:    "Ada",
		LastName:     fmt.Sprintf("Lovelace%d", seq),
		Email:        fmt.Sprintf("user%d@example.com", seq),
		PhoneNumber:  fmt.Sprintf("07000%05d", seq),
	}
	require.NoError(t, NewCustomerRepository(db).Create(customer))
	return customer
}

func seedAccount(t *testing.T, db *sql.DB, customerID, number, balance string) *models.Account {
	t.Helper()
	account := &models.Account{
		AccountNumber:       number,
		CustomerID:          customerID,
		AccountType:         models.AccountTypeSavings,
		Balance:             decimal.RequireFromString(balance),
		MinBalanceThreshold: decimal.NewFromInt(500),
	}
	require.NoError(t, NewAccountRepository(db).Create(account))
	return account
}

func TestCustomerCreateAndLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	customer := seedCustomer(t, db)

	require.NotEmpty(t, customer.ID)
	require.False(t, customer.CreatedAt.IsZero())

	byID, err := repo.GetByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.Username, byID.Username)

	byUsername, err := repo.GetByUsername(customer.Username)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, byUsername.ID)

	byEmail, err := repo.GetByEmail(customer.Email)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, byEmail.ID)

	byPhone, err := repo.GetByPhoneNumber(customer.PhoneNumber)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, byPhone.ID)
}

func TestCustomerNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewCustomerRepository(db).GetByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	customer := seedCustomer(t, db)

	dup := &models.Customer{
		Username:     customer.Username,
		PasswordHash: "hashed",
		FirstName:    "Other",
		LastName:     "Person",
		Email:        "other@example.com",
		PhoneNumber:  "0700099999",
	}
	assert.ErrorIs(t, repo.Create(dup), ErrDuplicate)
}

func TestAccountCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	customer := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "750.50")

	got, err := repo.GetByAccountNumber("1000000001")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.CustomerID)
	assert.Equal(t, models.AccountTypeSavings, got.AccountType)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("750.50")))
	assert.True(t, got.MinBalanceThreshold.Equal(decimal.NewFromInt(500)))

	byCustomer, err := repo.GetByCustomerID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000000001", byCustomer.AccountNumber)

	_, err = repo.GetByAccountNumber("1000000099")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountUpdateBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	customer := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "1000")

	require.NoError(t, repo.UpdateBalance("1000000001", decimal.RequireFromString("1234.56")))
	got, err := repo.GetByAccountNumber("1000000001")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1234.56")))

	assert.ErrorIs(t, repo.UpdateBalance("1000000099", decimal.NewFromInt(1)), ErrNotFound)
}

func TestLastAccountNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)

	last, err := repo.LastAccountNumber()
	require.NoError(t, err)
	assert.EqualValues(t, 0, last)

	customer := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "100")
	other := seedCustomer(t, db)
	seedAccount(t, db, other.ID, "1000000002", "100")

	last, err = repo.LastAccountNumber()
	require.NoError(t, err)
	assert.EqualValues(t, 1000000002, last)
}

func TestSnapshotsJoinOwnerContact(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	customer := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "120")

	snapshots, err := repo.Snapshots()
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	s := snapshots[0]
	assert.Equal(t, "1000000001", s.AccountNumber)
	assert.Equal(t, customer.FullName(), s.HolderName)
	assert.Equal(t, customer.Email, s.Email)
	assert.True(t, s.BelowThreshold())
}

func TestTransactionAppendAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	customer := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "100")

	first := &models.Transaction{
		AccountNumber: "1000000001",
		Type:          models.TransactionDeposit,
		Amount:        decimal.NewFromInt(100),
		Description:   "Initial deposit",
	}
	require.NoError(t, repo.Append(first))
	require.NotEmpty(t, first.ID)

	second := &models.Transaction{
		AccountNumber: "1000000001",
		Type:          models.TransactionWithdrawal,
		Amount:        decimal.NewFromInt(25),
	}
	require.NoError(t, repo.Append(second))

	txns, err := repo.ListForAccount("1000000001")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionWithdrawal, txns[0].Type)
	assert.Equal(t, models.TransactionDeposit, txns[1].Type)
	assert.Equal(t, "Initial deposit", txns[1].Description)

	empty, err := repo.ListForAccount("1000000099")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUnitOfWorkTransferCommitsBothSides(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)
	other := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "1000")
	seedAccount(t, db, other.ID, "1000000002", "200")

	outTxn := &models.Transaction{
		AccountNumber: "1000000001",
		Type:          models.TransactionTransferOut,
		Amount:        decimal.NewFromInt(300),
		Description:   "Transfer to 1000000002",
	}
	inTxn := &models.Transaction{
		AccountNumber: "1000000002",
		Type:          models.TransactionTransferIn,
		Amount:        decimal.NewFromInt(300),
		Description:   "Transfer from 1000000001",
	}
	err := NewUnitOfWork(db).Transfer("1000000001", "1000000002",
		decimal.NewFromInt(700), decimal.NewFromInt(500), outTxn, inTxn)
	require.NoError(t, err)

	accounts := NewAccountRepository(db)
	from, err := accounts.GetByAccountNumber("1000000001")
	require.NoError(t, err)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(700)))
	to, err := accounts.GetByAccountNumber("1000000002")
	require.NoError(t, err)
	assert.True(t, to.Balance.Equal(decimal.NewFromInt(500)))

	txns := NewTransactionRepository(db)
	fromTxns, err := txns.ListForAccount("1000000001")
	require.NoError(t, err)
	require.Len(t, fromTxns, 1)
	assert.Equal(t, models.TransactionTransferOut, fromTxns[0].Type)
	toTxns, err := txns.ListForAccount("1000000002")
	require.NoError(t, err)
	require.Len(t, toTxns, 1)
	assert.Equal(t, models.TransactionTransferIn, toTxns[0].Type)
}

func TestUnitOfWorkTransferRollsBackOnMissingAccount(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db)
	seedAccount(t, db, customer.ID, "1000000001", "1000")

	outTxn := &models.Transaction{
		AccountNumber: "1000000001",
		Type:          models.TransactionTransferOut,
		Amount:        decimal.NewFromInt(300),
	}
	inTxn := &models.Transaction{
		AccountNumber: "1000000099",
		Type:          models.TransactionTransferIn,
		Amount:        decimal.NewFromInt(300),
	}
	err := NewUnitOfWork(db).Transfer("1000000001", "1000000099",
		decimal.NewFromInt(700), decimal.NewFromInt(300), outTxn, inTxn)
	assert.ErrorIs(t, err, ErrNotFound)

	// The debit side must not have been committed.
	from, err := NewAccountRepository(db).GetByAccountNumber("1000000001")
	require.NoError(t, err)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(1000)))

	txns, err := NewTransactionRepository(db).ListForAccount("1000000001")
	require.NoError(t, err)
	assert.Empty(t, txns)
}
