package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

type fakeStore struct {
	snapshots []models.BalanceSnapshot
	err       error
	scans     int
}

func (s *fakeStore) Snapshots() ([]models.BalanceSnapshot, error) {
	s.scans++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.BalanceSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out, nil
}

func (s *fakeStore) setBalance(accountNumber string, balance int64) {
	for i := range s.snapshots {
		if s.snapshots[i].AccountNumber == accountNumber {
			s.snapshots[i].Balance = decimal.NewFromInt(balance)
		}
	}
}

type fakeAlerter struct {
	alerts []string
}

func (a *fakeAlerter) LowBalanceAlert(_, _, accountNumber string, _, _ decimal.Decimal) {
	a.alerts = append(a.alerts, accountNumber)
}

func snapshot(accountNumber string, balance, threshold int64) models.BalanceSnapshot {
	return models.BalanceSnapshot{
		AccountNumber: accountNumber,
		Balance:       decimal.NewFromInt(balance),
		Threshold:     decimal.NewFromInt(threshold),
		HolderName:    "Test Holder",
		Email:         "holder@example.com",
	}
}

func TestScanAlertsOncePerEpisode(t *testing.T) {
	store := &fakeStore{snapshots: []models.BalanceSnapshot{snapshot("1000000001", 100, 500)}}
	alerts := &fakeAlerter{}
	m := New(store, alerts, time.Minute, 0)

	// Five consecutive below-threshold cycles produce exactly one alert.
	for i := 0; i < 5; i++ {
		m.scanOnce()
	}
	assert.Equal(t, []string{"1000000001"}, alerts.alerts)
}

func TestScanRearmsAfterRecovery(t *testing.T) {
	store := &fakeStore{snapshots: []models.BalanceSnapshot{snapshot("1000000001", 100, 500)}}
	alerts := &fakeAlerter{}
	m := New(store, alerts, time.Minute, 0)

	m.scanOnce()
	require.Len(t, alerts.alerts, 1)

	// Recovery above threshold re-arms the account.
	store.setBalance("1000000001", 900)
	m.scanOnce()
	require.Len(t, alerts.alerts, 1)

	// The next dip alerts again.
	store.setBalance("1000000001", 200)
	m.scanOnce()
	assert.Equal(t, []string{"1000000001", "1000000001"}, alerts.alerts)
}

func TestScanExactThresholdIsHealthy(t *testing.T) {
	store := &fakeStore{snapshots: []models.BalanceSnapshot{snapshot("1000000001", 500, 500)}}
	alerts := &fakeAlerter{}
	m := New(store, alerts, time.Minute, 0)

	m.scanOnce()
	assert.Empty(t, alerts.alerts)
}

func TestScanTracksAccountsIndependently(t *testing.T) {
	store := &fakeStore{snapshots: []models.BalanceSnapshot{
		snapshot("1000000001", 100, 500),
		snapshot("1000000002", 2000, 1000),
	}}
	alerts := &fakeAlerter{}
	m := New(store, alerts, time.Minute, 0)

	m.scanOnce()
	require.Equal(t, []string{"1000000001"}, alerts.alerts)

	// The second account dips while the first stays below.
	store.setBalance("1000000002", 800)
	m.scanOnce()
	assert.Equal(t, []string{"1000000001", "1000000002"}, alerts.alerts)
}

func TestScanStoreFailureSkipsCycle(t *testing.T) {
	store := &fakeStore{snapshots: []models.BalanceSnapshot{snapshot("1000000001", 100, 500)}}
	alerts := &fakeAlerter{}
	m := New(store, alerts, time.Minute, 0)

	m.scanOnce()
	require.Len(t, alerts.alerts, 1)

	// A failed scan must not reset episode state, or the next good scan
	// would re-alert an account that never recovered.
	store.err = errors.New("store down")
	m.scanOnce()
	store.err = nil
	m.scanOnce()
	assert.Len(t, alerts.alerts, 1)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{snapshots: []models.BalanceSnapshot{snapshot("1000000001", 100, 500)}}
	alerts := &fakeAlerter{}
	m := New(store, alerts, time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	// Let a few cycles run, then stop.
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
	assert.GreaterOrEqual(t, store.scans, 1)
}

func TestNewDefaultsInterval(t *testing.T) {
	m := New(&fakeStore{}, &fakeAlerter{}, 0, 0)
	assert.Equal(t, 60*time.Second, m.interval)
}
