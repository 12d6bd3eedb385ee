// Package ledger implements the account-balance ledger engine: transactional
// deposit, withdraw and transfer under a per-account minimum-balance policy,
// account opening with sequential number assignment, and the append-only
// transaction history.
package ledger

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/auth"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/repository"
)

// firstAccountNumber is assigned to the first account ever opened; every
// later account gets the previous maximum plus one.
const firstAccountNumber int64 = 1000000001

// AccountCache is the write-through account view the service reads and
// writes. *cache.AccountCache satisfies it.
type AccountCache interface {
	Create(account *models.Account) error
	FindByNumber(accountNumber string) (*models.Account, error)
	FindByCustomerID(customerID string) (*models.Account, error)
	UpdateBalance(accountNumber string, newBalance decimal.Decimal) error
	ApplyBalance(accountNumber string, newBalance decimal.Decimal)
}

// CustomerStore is the slice of the durable store holding customers.
type CustomerStore interface {
	Create(customer *models.Customer) error
	GetByID(id string) (*models.Customer, error)
	GetByUsername(username string) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	GetByPhoneNumber(phone string) (*models.Customer, error)
}

// TransactionStore appends and lists ledger entries.
type TransactionStore interface {
	Append(txn *models.Transaction) error
	ListForAccount(accountNumber string) ([]models.Transaction, error)
}

// TransferStore commits a two-account transfer as one atomic unit.
type TransferStore interface {
	Transfer(fromNumber, toNumber string, fromBalance, toBalance decimal.Decimal, outTxn, inTxn *models.Transaction) error
}

// AccountNumberSource reports the highest numeric account number on record.
type AccountNumberSource interface {
	LastAccountNumber() (int64, error)
}

// Alerter receives low-balance and denied-debit notifications.
type Alerter interface {
	LowBalanceAlert(holderName, email, accountNumber string, balance, threshold decimal.Decimal)
	InsufficientFundsDenied(holderName, email, accountNumber string, balance, threshold, attempted decimal.Decimal)
}

// Reporter records committed transactions and account summaries.
type Reporter interface {
	LogTransaction(accountNumber string, txnType models.TransactionType, amount, balance decimal.Decimal) error
	AccountSummary(holderName, accountNumber string, balance decimal.Decimal) error
}

// Deps collects the collaborators a Service is built from.
type Deps struct {
	Customers      CustomerStore
	Accounts       AccountCache
	AccountNumbers AccountNumberSource
	Transactions   TransactionStore
	Transfers      TransferStore
	Alerts         Alerter
	Reports        Reporter
}

// Service implements the ledger operations. All balance mutations go through
// the per-account key lock, so concurrent debits and credits on one account
// never lose an update.
//
// Store failures during an operation are logged and leave the ledger
// unchanged; the business layer sees only the tri-state outcome or an
// absent result.
type Service struct {
	customers      CustomerStore
	accounts       AccountCache
	accountNumbers AccountNumberSource
	transactions   TransactionStore
	transfers      TransferStore
	alerts         Alerter
	reports        Reporter

	locks  *keyLock
	openMu sync.Mutex // serializes account-number allocation
}

func NewService(deps Deps) *Service {
	return &Service{
		customers:      deps.Customers,
		accounts:       deps.Accounts,
		accountNumbers: deps.AccountNumbers,
		transactions:   deps.Transactions,
		transfers:      deps.Transfers,
		alerts:         deps.Alerts,
		reports:        deps.Reports,
		locks:          newKeyLock(),
	}
}

// OpenAccount registers the customer and opens their account with the given
// initial deposit (which may leave the account below its threshold). The
// customer's PasswordHash field carries the plaintext password on input and
// is replaced by its bcrypt hash. Returns nil when the customer or account
// could not be created.
func (s *Service) OpenAccount(customer *models.Customer, accountType string, initialDeposit decimal.Decimal) *models.Account {
	if initialDeposit.IsNegative() {
		return nil
	}

	hash, err := auth.HashPassword(customer.PasswordHash)
	if err != nil {
		log.Printf("failed to hash password for %s: %v", customer.Username, err)
		return nil
	}
	customer.PasswordHash = hash

	if err := s.customers.Create(customer); err != nil {
		log.Printf("failed to create customer %s: %v", customer.Username, err)
		return nil
	}

	kind := models.AccountType(strings.ToLower(accountType))
	account := &models.Account{
		CustomerID:          customer.ID,
		AccountType:         kind,
		Balance:             initialDeposit,
		MinBalanceThreshold: models.MinBalanceFor(kind),
	}

	s.openMu.Lock()
	last, err := s.accountNumbers.LastAccountNumber()
	if err != nil {
		s.openMu.Unlock()
		log.Printf("failed to allocate account number: %v", err)
		return nil
	}
	next := firstAccountNumber
	if last != 0 {
		next = last + 1
	}
	account.AccountNumber = fmt.Sprintf("%d", next)
	err = s.accounts.Create(account)
	s.openMu.Unlock()
	if err != nil {
		log.Printf("failed to create account %s: %v", account.AccountNumber, err)
		return nil
	}

	s.append(&models.Transaction{
		AccountNumber: account.AccountNumber,
		Type:          models.TransactionDeposit,
		Amount:        initialDeposit,
		Description:   "Initial deposit",
	})
	s.report(account.AccountNumber, models.TransactionDeposit, initialDeposit, account.Balance, customer.FullName())
	return account
}

// Deposit credits the account. A missing account is a silent no-op (nil
// result). Deposits are never blocked by the minimum-balance policy, but an
// account still below its threshold afterwards triggers a low-balance alert.
func (s *Service) Deposit(accountNumber string, amount decimal.Decimal) *models.Account {
	if !amount.IsPositive() {
		return nil
	}
	unlock := s.locks.lock(accountNumber)
	defer unlock()

	account, err := s.accounts.FindByNumber(accountNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("deposit lookup failed for %s: %v", accountNumber, err)
		}
		return nil
	}

	newBalance := account.Balance.Add(amount)
	if err := s.accounts.UpdateBalance(accountNumber, newBalance); err != nil {
		log.Printf("deposit persist failed for %s: %v", accountNumber, err)
		return nil
	}

	s.append(&models.Transaction{
		AccountNumber: accountNumber,
		Type:          models.TransactionDeposit,
		Amount:        amount,
		Description:   "Deposit",
	})
	s.report(accountNumber, models.TransactionDeposit, amount, newBalance, s.holderName(account.CustomerID))

	// A deposit can still leave an account that was opened (or previously
	// drained) below its threshold short of it.
	if newBalance.LessThan(account.MinBalanceThreshold) {
		s.lowBalanceAlert(account, newBalance)
	}
	return account
}

// Withdraw debits the account if the amount does not exceed the available
// funds (balance minus threshold). A denied attempt notifies the holder and
// changes nothing.
func (s *Service) Withdraw(accountNumber string, amount decimal.Decimal) Outcome {
	// A non-positive amount is never a valid debit; denied without notifying.
	if !amount.IsPositive() {
		return OutcomeInsufficientBalance
	}
	unlock := s.locks.lock(accountNumber)
	defer unlock()

	account, err := s.accounts.FindByNumber(accountNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("withdraw lookup failed for %s: %v", accountNumber, err)
		}
		return OutcomeAccountNotFound
	}

	if amount.GreaterThan(account.AvailableFunds()) {
		s.denyInsufficientFunds(account, amount)
		return OutcomeInsufficientBalance
	}

	newBalance := account.Balance.Sub(amount)
	if err := s.accounts.UpdateBalance(accountNumber, newBalance); err != nil {
		// Store failures stay internal; the caller only ever sees the
		// tri-state outcome, and the ledger is unchanged.
		log.Printf("withdraw persist failed for %s: %v", accountNumber, err)
		return OutcomeSuccessful
	}

	s.append(&models.Transaction{
		AccountNumber: accountNumber,
		Type:          models.TransactionWithdrawal,
		Amount:        amount,
		Description:   "Withdrawal",
	})
	s.report(accountNumber, models.TransactionWithdrawal, amount, newBalance, s.holderName(account.CustomerID))

	// The available-funds check guarantees newBalance >= threshold, so this
	// only fires for an account that was already below threshold going in.
	if newBalance.LessThan(account.MinBalanceThreshold) {
		s.lowBalanceAlert(account, newBalance)
	}
	return OutcomeSuccessful
}

// Transfer moves amount between two accounts. The debit check mirrors
// Withdraw. Both balance updates and both ledger entries commit as one store
// transaction; a partial transfer is impossible.
func (s *Service) Transfer(fromNumber, toNumber string, amount decimal.Decimal) Outcome {
	if !amount.IsPositive() {
		return OutcomeInsufficientBalance
	}
	unlock := s.locks.lockPair(fromNumber, toNumber)
	defer unlock()

	from, err := s.accounts.FindByNumber(fromNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("transfer lookup failed for %s: %v", fromNumber, err)
		}
		return OutcomeAccountNotFound
	}
	to, err := s.accounts.FindByNumber(toNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("transfer lookup failed for %s: %v", toNumber, err)
		}
		return OutcomeAccountNotFound
	}

	if amount.GreaterThan(from.AvailableFunds()) {
		s.denyInsufficientFunds(from, amount)
		return OutcomeInsufficientBalance
	}

	fromBalance := from.Balance.Sub(amount)
	toBalance := to.Balance.Add(amount)

	outTxn := &models.Transaction{
		AccountNumber: fromNumber,
		Type:          models.TransactionTransferOut,
		Amount:        amount,
		Description:   "Transfer to " + toNumber,
	}
	inTxn := &models.Transaction{
		AccountNumber: toNumber,
		Type:          models.TransactionTransferIn,
		Amount:        amount,
		Description:   "Transfer from " + fromNumber,
	}
	if err := s.transfers.Transfer(fromNumber, toNumber, fromBalance, toBalance, outTxn, inTxn); err != nil {
		log.Printf("transfer persist failed %s -> %s: %v", fromNumber, toNumber, err)
		return OutcomeSuccessful
	}

	// The store committed both sides; bring the cached entries along.
	s.accounts.ApplyBalance(fromNumber, fromBalance)
	s.accounts.ApplyBalance(toNumber, toBalance)

	s.report(fromNumber, models.TransactionTransferOut, amount, fromBalance, s.holderName(from.CustomerID))
	s.report(toNumber, models.TransactionTransferIn, amount, toBalance, s.holderName(to.CustomerID))

	if fromBalance.LessThan(from.MinBalanceThreshold) {
		s.lowBalanceAlert(from, fromBalance)
	}
	return OutcomeSuccessful
}

// History returns the account's transactions newest first; empty when the
// account has none.
func (s *Service) History(accountNumber string) []models.Transaction {
	txns, err := s.transactions.ListForAccount(accountNumber)
	if err != nil {
		log.Printf("failed to list transactions for %s: %v", accountNumber, err)
		return nil
	}
	return txns
}

// FindAccount returns a point-in-time copy of the account for display, or
// nil when it does not exist.
func (s *Service) FindAccount(accountNumber string) *models.Account {
	unlock := s.locks.lock(accountNumber)
	defer unlock()

	account, err := s.accounts.FindByNumber(accountNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("account lookup failed for %s: %v", accountNumber, err)
		}
		return nil
	}
	snapshot := *account
	return &snapshot
}

// AccountForCustomer returns a point-in-time copy of the customer's account,
// or nil when they have none.
func (s *Service) AccountForCustomer(customerID string) *models.Account {
	account, err := s.accounts.FindByCustomerID(customerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("account lookup failed for customer %s: %v", customerID, err)
		}
		return nil
	}
	unlock := s.locks.lock(account.AccountNumber)
	defer unlock()
	snapshot := *account
	return &snapshot
}

// Login pairs a customer with their account when the credentials check out;
// nil otherwise.
func (s *Service) Login(username, password string) *models.Session {
	customer, err := s.customers.GetByUsername(username)
	if err != nil {
		return nil
	}
	if !auth.CheckPassword(password, customer.PasswordHash) {
		return nil
	}
	account, err := s.accounts.FindByCustomerID(customer.ID)
	if err != nil {
		return nil
	}
	return &models.Session{Customer: customer, Account: account}
}

func (s *Service) IsUsernameTaken(username string) bool {
	_, err := s.customers.GetByUsername(username)
	return err == nil
}

func (s *Service) IsEmailTaken(email string) bool {
	_, err := s.customers.GetByEmail(email)
	return err == nil
}

func (s *Service) IsPhoneNumberTaken(phone string) bool {
	_, err := s.customers.GetByPhoneNumber(phone)
	return err == nil
}

func (s *Service) lowBalanceAlert(account *models.Account, newBalance decimal.Decimal) {
	name, email := s.holderContact(account.CustomerID)
	s.alerts.LowBalanceAlert(name, email, account.AccountNumber, newBalance, account.MinBalanceThreshold)
}

func (s *Service) denyInsufficientFunds(account *models.Account, attempted decimal.Decimal) {
	name, email := s.holderContact(account.CustomerID)
	s.alerts.InsufficientFundsDenied(name, email, account.AccountNumber,
		account.Balance, account.MinBalanceThreshold, attempted)
}

func (s *Service) append(txn *models.Transaction) {
	if err := s.transactions.Append(txn); err != nil {
		log.Printf("failed to append %s transaction for %s: %v", txn.Type, txn.AccountNumber, err)
	}
}

func (s *Service) report(accountNumber string, txnType models.TransactionType, amount, balance decimal.Decimal, holderName string) {
	if err := s.reports.LogTransaction(accountNumber, txnType, amount, balance); err != nil {
		log.Printf("failed to log transaction report for %s: %v", accountNumber, err)
	}
	if err := s.reports.AccountSummary(holderName, accountNumber, balance); err != nil {
		log.Printf("failed to write account summary for %s: %v", accountNumber, err)
	}
}

func (s *Service) holderName(customerID string) string {
	name, _ := s.holderContact(customerID)
	return name
}

func (s *Service) holderContact(customerID string) (name, email string) {
	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		return "Customer-" + customerID, ""
	}
	return customer.FullName(), customer.Email
}
