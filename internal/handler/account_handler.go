package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/ledger"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// Ledger is the slice of the ledger service used by AccountHandler.
type Ledger interface {
	AccountForCustomer(customerID string) *models.Account
	Deposit(accountNumber string, amount decimal.Decimal) *models.Account
	Withdraw(accountNumber string, amount decimal.Decimal) ledger.Outcome
	Transfer(fromNumber, toNumber string, amount decimal.Decimal) ledger.Outcome
	History(accountNumber string) []models.Transaction
}

// AccountHandler exposes the ledger operations for the authenticated
// customer's account.
type AccountHandler struct {
	ledger Ledger
}

func NewAccountHandler(ledger Ledger) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	ToAccountNumber string          `json:"toAccountNumber" validate:"required,numeric"`
	Amount          decimal.Decimal `json:"amount"`
}

type OutcomeResponse struct {
	Outcome ledger.Outcome  `json:"outcome"`
	Account *models.Account `json:"account,omitempty"`
}

type HistoryResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

// GetAccount returns the authenticated customer's account details.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, ok := h.ownAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, account)
}

// History returns the account's transactions, newest first.
func (h *AccountHandler) History(c *gin.Context) {
	account, ok := h.ownAccount(c)
	if !ok {
		return
	}
	txns := h.ledger.History(account.AccountNumber)
	if txns == nil {
		txns = []models.Transaction{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Transactions: txns})
}

// Deposit credits the authenticated customer's account.
func (h *AccountHandler) Deposit(c *gin.Context) {
	account, ok := h.ownAccount(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		RespondWithError(c, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}

	updated := h.ledger.Deposit(account.AccountNumber, req.Amount)
	if updated == nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to deposit")
		return
	}
	c.JSON(http.StatusOK, OutcomeResponse{Outcome: ledger.OutcomeSuccessful, Account: updated})
}

// Withdraw debits the authenticated customer's account, subject to the
// minimum-balance policy.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	account, ok := h.ownAccount(c)
	if !ok {
		return
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		RespondWithError(c, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}

	outcome := h.ledger.Withdraw(account.AccountNumber, req.Amount)
	c.JSON(statusForOutcome(outcome), OutcomeResponse{Outcome: outcome})
}

// Transfer moves funds from the authenticated customer's account to another.
func (h *AccountHandler) Transfer(c *gin.Context) {
	account, ok := h.ownAccount(c)
	if !ok {
		return
	}
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := ValidateRequest(req); validationErrors != nil {
		RespondWithValidationError(c, validationErrors)
		return
	}
	if !req.Amount.IsPositive() {
		RespondWithError(c, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}
	if req.ToAccountNumber == account.AccountNumber {
		RespondWithError(c, http.StatusBadRequest, "Cannot transfer to the same account")
		return
	}

	outcome := h.ledger.Transfer(account.AccountNumber, req.ToAccountNumber, req.Amount)
	c.JSON(statusForOutcome(outcome), OutcomeResponse{Outcome: outcome})
}

func (h *AccountHandler) ownAccount(c *gin.Context) (*models.Account, bool) {
	customerID, ok := GetCustomerID(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	account := h.ledger.AccountForCustomer(customerID)
	if account == nil {
		RespondWithError(c, http.StatusNotFound, "Account not found")
		return nil, false
	}
	return account, true
}

func statusForOutcome(outcome ledger.Outcome) int {
	switch outcome {
	case ledger.OutcomeSuccessful:
		return http.StatusOK
	case ledger.OutcomeInsufficientBalance:
		return http.StatusUnprocessableEntity
	case ledger.OutcomeAccountNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
