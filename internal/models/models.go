package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account and fixes its minimum-balance policy.
type AccountType string

const (
	AccountTypeSavings AccountType = "savings"
	AccountTypeCurrent AccountType = "current"
)

// MinBalanceFor returns the minimum-balance threshold assigned at account
// creation: 500 for savings, 1000 for current, 500 for anything unrecognized.
func MinBalanceFor(accountType AccountType) decimal.Decimal {
	switch accountType {
	case AccountTypeSavings:
		return decimal.NewFromInt(500)
	case AccountTypeCurrent:
		return decimal.NewFromInt(1000)
	default:
		return decimal.NewFromInt(500)
	}
}

// TransactionType is the kind of ledger entry.
type TransactionType string

const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
)

type Customer struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	CreatedAt    time.Time `json:"createdTimestamp"`
}

// FullName is the holder name used in reports and alerts.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Account struct {
	AccountNumber       string          `json:"accountNumber"`
	CustomerID          string          `json:"-"`
	AccountType         AccountType     `json:"accountType"`
	Balance             decimal.Decimal `json:"balance"`
	MinBalanceThreshold decimal.Decimal `json:"minBalanceThreshold"`
	CreatedAt           time.Time       `json:"createdTimestamp"`
	UpdatedAt           time.Time       `json:"updatedTimestamp"`
}

// AvailableFunds is the upper bound on a single debit: the portion of the
// balance above the minimum-balance threshold.
func (a *Account) AvailableFunds() decimal.Decimal {
	return a.Balance.Sub(a.MinBalanceThreshold)
}

// Transaction is an immutable ledger entry. Records are appended by the
// ledger service at the moment a balance change commits and never mutated.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"-"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	Description   string          `json:"description,omitempty"`
}

// BalanceSnapshot is one row of the monitor's store-direct scan: an account
// joined with its owner's contact details.
type BalanceSnapshot struct {
	AccountNumber string
	Balance       decimal.Decimal
	Threshold     decimal.Decimal
	HolderName    string
	Email         string
}

// BelowThreshold reports whether the snapshot is under its minimum balance.
func (s BalanceSnapshot) BelowThreshold() bool {
	return s.Balance.LessThan(s.Threshold)
}

// Session pairs a logged-in customer with their account.
type Session struct {
	Customer *Customer
	Account  *Account
}
