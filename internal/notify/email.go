package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/config"
)

// EmailSender delivers balance notices over SMTP. When mail is disabled it
// silently skips every send; callers treat delivery as best-effort either way.
type EmailSender struct {
	cfg config.MailConfig
}

func NewEmailSender(cfg config.MailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) SendLowBalance(toEmail, accountNumber string, balance, threshold decimal.Decimal) error {
	if !s.cfg.Enabled {
		return nil
	}
	masked := maskAccount(accountNumber)
	subject := "Low Balance Alert - Account " + masked
	body := fmt.Sprintf(
		"Dear Customer,\r\n\r\n"+
			"Your account %s has a current balance of %s, which is below the "+
			"minimum threshold of %s.\r\n\r\n"+
			"Please add funds to avoid future transaction denials.\r\n",
		masked, balance.StringFixed(2), threshold.StringFixed(2))
	return s.send(toEmail, subject, body)
}

func (s *EmailSender) SendInsufficientFunds(toEmail, accountNumber string, balance, threshold, attempted decimal.Decimal) error {
	if !s.cfg.Enabled {
		return nil
	}
	masked := maskAccount(accountNumber)
	subject := "Transaction Denied - Minimum Balance Policy (" + masked + ")"
	body := fmt.Sprintf(
		"Dear Customer,\r\n\r\n"+
			"Your transaction request of %s for account %s was denied because it "+
			"would reduce the balance below the minimum required threshold.\r\n\r\n"+
			"Attempted Amount : %s\r\n"+
			"Current Balance  : %s\r\n"+
			"Min. Threshold   : %s\r\n\r\n"+
			"Please deposit funds and try again.\r\n",
		attempted.StringFixed(2), masked,
		attempted.StringFixed(2), balance.StringFixed(2), threshold.StringFixed(2))
	return s.send(toEmail, subject, body)
}

func (s *EmailSender) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// maskAccount hides all but the last four digits of an account number.
func maskAccount(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return "XXXX-" + accountNumber[len(accountNumber)-4:]
}
