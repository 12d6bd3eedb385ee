package notify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/config"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

func newTestWriter(t *testing.T) (*ReportWriter, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := NewReportWriter(dir)
	require.NoError(t, err)
	return w, dir
}

func readReport(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestLogTransactionAppends(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.LogTransaction("1000000001", models.TransactionDeposit,
		decimal.NewFromInt(100), decimal.NewFromInt(1100)))
	require.NoError(t, w.LogTransaction("1000000001", models.TransactionWithdrawal,
		decimal.NewFromInt(50), decimal.NewFromInt(1050)))

	content := readReport(t, dir, "1000000001_transactions.txt")
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "DEPOSIT")
	assert.Contains(t, lines[0], "100.00")
	assert.Contains(t, lines[1], "WITHDRAWAL")
	assert.Contains(t, lines[1], "1050.00")
}

func TestAccountSummaryRewrites(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.AccountSummary("Ada Lovelace", "1000000001", decimal.NewFromInt(900)))
	require.NoError(t, w.AccountSummary("Ada Lovelace", "1000000001", decimal.NewFromInt(750)))

	content := readReport(t, dir, "1000000001_summary.txt")
	assert.Contains(t, content, "Ada Lovelace")
	assert.Contains(t, content, "750.00")
	assert.NotContains(t, content, "900.00", "summary must hold only the latest balance")
}

func TestAlertReportsAppendToOneFile(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.LowBalanceAlert("Ada Lovelace", "1000000001",
		decimal.NewFromInt(100), decimal.NewFromInt(500)))
	require.NoError(t, w.InsufficientFundsDenied("Ada Lovelace", "1000000001",
		decimal.NewFromInt(600), decimal.NewFromInt(500), decimal.NewFromInt(200)))

	content := readReport(t, dir, "1000000001_alerts.txt")
	assert.Contains(t, content, "LOW BALANCE ALERT")
	assert.Contains(t, content, "INSUFFICIENT FUNDS ATTEMPT")
	assert.Contains(t, content, "attempted=200.00")
}

func TestNewReportWriterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	_, err := NewReportWriter(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEmailSenderDisabledSkipsSend(t *testing.T) {
	// Host is unset; a real send attempt would fail loudly.
	s := NewEmailSender(config.MailConfig{Enabled: false})
	assert.NoError(t, s.SendLowBalance("holder@example.com", "1000000001",
		decimal.NewFromInt(100), decimal.NewFromInt(500)))
	assert.NoError(t, s.SendInsufficientFunds("holder@example.com", "1000000001",
		decimal.NewFromInt(600), decimal.NewFromInt(500), decimal.NewFromInt(200)))
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "XXXX-0001", maskAccount("1000000001"))
	assert.Equal(t, "1234", maskAccount("1234"))
	assert.Equal(t, "42", maskAccount("42"))
}

func TestNotifierWritesReportWithoutEmailAddress(t *testing.T) {
	w, dir := newTestWriter(t)
	n := NewNotifier(w, NewEmailSender(config.MailConfig{Enabled: false}))

	n.LowBalanceAlert("Ada Lovelace", "", "1000000001",
		decimal.NewFromInt(100), decimal.NewFromInt(500))

	content := readReport(t, dir, "1000000001_alerts.txt")
	assert.Contains(t, content, "LOW BALANCE ALERT")
}
