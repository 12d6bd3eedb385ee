// Package notify delivers human-facing balance notifications: a per-account
// report file sink and a best-effort SMTP email sink. Delivery failures are
// logged and never surfaced to the ledger.
package notify

import (
	"log"

	"github.com/shopspring/decimal"
)

// Notifier fans a notification out to the report and email sinks.
type Notifier struct {
	reports *ReportWriter
	email   *EmailSender
}

func NewNotifier(reports *ReportWriter, email *EmailSender) *Notifier {
	return &Notifier{reports: reports, email: email}
}

// LowBalanceAlert records a below-threshold notice in the report file and
// emails the holder. Both sinks are best-effort.
func (n *Notifier) LowBalanceAlert(holderName, email, accountNumber string, balance, threshold decimal.Decimal) {
	if err := n.reports.LowBalanceAlert(holderName, accountNumber, balance, threshold); err != nil {
		log.Printf("failed to write low-balance report for %s: %v", accountNumber, err)
	}
	if email == "" {
		return
	}
	if err := n.email.SendLowBalance(email, accountNumber, balance, threshold); err != nil {
		log.Printf("failed to send low-balance email for %s: %v", accountNumber, err)
	}
}

// InsufficientFundsDenied records a denied-debit notice in the report file
// and emails the holder. Both sinks are best-effort.
func (n *Notifier) InsufficientFundsDenied(holderName, email, accountNumber string, balance, threshold, attempted decimal.Decimal) {
	if err := n.reports.InsufficientFundsDenied(holderName, accountNumber, balance, threshold, attempted); err != nil {
		log.Printf("failed to write denial report for %s: %v", accountNumber, err)
	}
	if email == "" {
		return
	}
	if err := n.email.SendInsufficientFunds(email, accountNumber, balance, threshold, attempted); err != nil {
		log.Printf("failed to send denial email for %s: %v", accountNumber, err)
	}
}
