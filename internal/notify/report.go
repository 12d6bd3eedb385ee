package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// ReportWriter maintains the human-readable per-account report files: an
// append-only transaction log and a rewritten account summary. Failures are
// returned for logging by the caller but carry no business meaning.
type ReportWriter struct {
	dir string
}

func NewReportWriter(dir string) (*ReportWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report dir: %w", err)
	}
	return &ReportWriter{dir: dir}, nil
}

// LogTransaction appends one line to the account's transaction log.
func (w *ReportWriter) LogTransaction(accountNumber string, txnType models.TransactionType, amount, balance decimal.Decimal) error {
	path := filepath.Join(w.dir, accountNumber+"_transactions.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening transaction log: %w", err)
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, err = fmt.Fprintf(f, "%s\t%-15s\t%12s\t%12s\n",
		timestamp, txnType, amount.StringFixed(2), balance.StringFixed(2))
	if err != nil {
		return fmt.Errorf("writing transaction log: %w", err)
	}
	return nil
}

// AccountSummary rewrites the account's summary file.
func (w *ReportWriter) AccountSummary(holderName, accountNumber string, balance decimal.Decimal) error {
	path := filepath.Join(w.dir, accountNumber+"_summary.txt")
	content := fmt.Sprintf(
		"========== ACCOUNT SUMMARY ==========\n"+
			"Holder Name : %s\n"+
			"Account No  : %s\n"+
			"Balance     : %s\n"+
			"=====================================\n",
		holderName, accountNumber, balance.StringFixed(2))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing account summary: %w", err)
	}
	return nil
}

// LowBalanceAlert appends a low-balance notice to the account's report file.
func (w *ReportWriter) LowBalanceAlert(holderName, accountNumber string, balance, threshold decimal.Decimal) error {
	path := filepath.Join(w.dir, accountNumber+"_alerts.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening alert report: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f,
		"[%s] LOW BALANCE ALERT holder=%s account=%s balance=%s threshold=%s\n",
		time.Now().Format("2006-01-02 15:04:05"), holderName, accountNumber,
		balance.StringFixed(2), threshold.StringFixed(2))
	if err != nil {
		return fmt.Errorf("writing alert report: %w", err)
	}
	return nil
}

// InsufficientFundsDenied appends a denied-transaction notice to the
// account's report file.
func (w *ReportWriter) InsufficientFundsDenied(holderName, accountNumber string, balance, threshold, attempted decimal.Decimal) error {
	path := filepath.Join(w.dir, accountNumber+"_alerts.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening alert report: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f,
		"[%s] INSUFFICIENT FUNDS ATTEMPT holder=%s account=%s attempted=%s balance=%s threshold=%s\n",
		time.Now().Format("2006-01-02 15:04:05"), holderName, accountNumber,
		attempted.StringFixed(2), balance.StringFixed(2), threshold.StringFixed(2))
	if err != nil {
		return fmt.Errorf("writing alert report: %w", err)
	}
	return nil
}
