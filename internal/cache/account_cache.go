// Package cache holds the in-process account cache. The durable store stays
// authoritative; every write goes to the store first and the cached entry is
// then mutated in place, so a cached read never needs a freshness check.
//
// Entries are trusted indefinitely: there is no eviction and no TTL. The only
// legal mutation path for an account is this cache, so entries cannot go
// stale from inside the process. The alert monitor reads the store directly
// and never consults this cache.
package cache

import (
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// Store is the slice of the durable store the cache synchronizes with.
// *repository.AccountRepository satisfies it.
type Store interface {
	Create(account *models.Account) error
	GetByAccountNumber(accountNumber string) (*models.Account, error)
	GetByCustomerID(customerID string) (*models.Account, error)
	UpdateBalance(accountNumber string, newBalance decimal.Decimal) error
}

// AccountCache is a write-through cache keyed by account number. Entries are
// live *models.Account values shared by reference across callers; balance
// updates mutate them in place under the cache lock.
//
// Callers that read a balance and then write one derived from it must
// additionally hold the ledger's per-account lock; the cache lock alone does
// not make read-modify-write sequences atomic.
type AccountCache struct {
	store Store

	mu       sync.RWMutex
	byNumber map[string]*models.Account
}

func New(store Store) *AccountCache {
	return &AccountCache{
		store:    store,
		byNumber: make(map[string]*models.Account),
	}
}

// Create persists the account to the store, then caches it. The cache is not
// touched when the store write fails.
func (c *AccountCache) Create(account *models.Account) error {
	if err := c.store.Create(account); err != nil {
		return err
	}
	c.mu.Lock()
	c.byNumber[account.AccountNumber] = account
	c.mu.Unlock()
	return nil
}

// FindByNumber returns the cached entry when present, without consulting the
// store. On a miss the account is loaded from the store and cached.
func (c *AccountCache) FindByNumber(accountNumber string) (*models.Account, error) {
	c.mu.RLock()
	hit := c.byNumber[accountNumber]
	c.mu.RUnlock()
	if hit != nil {
		return hit, nil
	}

	account, err := c.store.GetByAccountNumber(accountNumber)
	if err != nil {
		return nil, err
	}
	return c.insert(account), nil
}

// FindByCustomerID scans cached entries for the owner and falls back to the
// store on a miss.
func (c *AccountCache) FindByCustomerID(customerID string) (*models.Account, error) {
	c.mu.RLock()
	for _, a := range c.byNumber {
		if a.CustomerID == customerID {
			c.mu.RUnlock()
			return a, nil
		}
	}
	c.mu.RUnlock()

	account, err := c.store.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	return c.insert(account), nil
}

// UpdateBalance persists the new balance to the store and, when the account
// is cached, mutates the cached entry in place.
func (c *AccountCache) UpdateBalance(accountNumber string, newBalance decimal.Decimal) error {
	if err := c.store.UpdateBalance(accountNumber, newBalance); err != nil {
		return err
	}
	c.ApplyBalance(accountNumber, newBalance)
	return nil
}

// ApplyBalance mutates the cached balance without a store write. It is used
// after a multi-account change already committed in one store transaction,
// keeping the cache coherent with what the store holds.
func (c *AccountCache) ApplyBalance(accountNumber string, newBalance decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.byNumber[accountNumber]; ok {
		cached.Balance = newBalance
	}
}

func (c *AccountCache) insert(account *models.Account) *models.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent loader may have inserted the same account; keep the
	// existing entry so every caller shares one reference.
	if existing, ok := c.byNumber[account.AccountNumber]; ok {
		return existing
	}
	c.byNumber[account.AccountNumber] = account
	log.Printf("account %s cached in memory", account.AccountNumber)
	return account
}
