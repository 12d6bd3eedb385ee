// Package monitor runs the background low-balance scanner. It polls the
// durable store directly — never the account cache — so the scan always sees
// committed truth, and it alerts once per continuous below-threshold episode
// rather than once per scan.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// BalanceReader reads every account joined with its owner straight from the
// store. *repository.AccountRepository satisfies it.
type BalanceReader interface {
	Snapshots() ([]models.BalanceSnapshot, error)
}

// Alerter receives the low-balance notifications.
type Alerter interface {
	LowBalanceAlert(holderName, email, accountNumber string, balance, threshold decimal.Decimal)
}

// AlertMonitor scans account balances on a fixed delay and fires one alert
// per dip below the minimum-balance threshold. The alerted set is in-memory
// only; after a restart an account still below threshold is alerted once
// more.
type AlertMonitor struct {
	store    BalanceReader
	alerts   Alerter
	interval time.Duration
	delay    time.Duration

	// alerted holds accounts currently below threshold that were already
	// notified. Only the scan loop touches it.
	alerted map[string]struct{}
}

func New(store BalanceReader, alerts Alerter, interval, startupDelay time.Duration) *AlertMonitor {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &AlertMonitor{
		store:    store,
		alerts:   alerts,
		interval: interval,
		delay:    startupDelay,
		alerted:  make(map[string]struct{}),
	}
}

// Start runs the scan loop until ctx is cancelled. Scheduling is fixed-delay:
// each next scan is timed from the end of the previous one, so a slow store
// can never make cycles overlap.
func (m *AlertMonitor) Start(ctx context.Context) error {
	log.Printf("balance alert monitor started (interval=%s)", m.interval)
	timer := time.NewTimer(m.delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("balance alert monitor stopping")
			return ctx.Err()
		case <-timer.C:
			m.scanOnce()
			timer.Reset(m.interval)
		}
	}
}

// scanOnce performs one full scan cycle. A store failure aborts the cycle
// and leaves the alerted set untouched; the next cycle retries.
func (m *AlertMonitor) scanOnce() {
	snapshots, err := m.store.Snapshots()
	if err != nil {
		log.Printf("balance scan failed, skipping cycle: %v", err)
		return
	}

	stillBelow := make(map[string]struct{})
	for _, s := range snapshots {
		if !s.BelowThreshold() {
			continue
		}
		stillBelow[s.AccountNumber] = struct{}{}
		if _, already := m.alerted[s.AccountNumber]; already {
			continue
		}
		log.Printf("low balance detected (account=%s balance=%s threshold=%s), sending alert",
			s.AccountNumber, s.Balance.StringFixed(2), s.Threshold.StringFixed(2))
		m.alerts.LowBalanceAlert(s.HolderName, s.Email, s.AccountNumber, s.Balance, s.Threshold)
		m.alerted[s.AccountNumber] = struct{}{}
	}

	// Accounts that recovered to or above threshold re-arm for a future dip.
	for accountNumber := range m.alerted {
		if _, below := stillBelow[accountNumber]; !below {
			delete(m.alerted, accountNumber)
		}
	}
}
