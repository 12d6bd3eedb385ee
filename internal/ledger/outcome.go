package ledger

// Outcome is the tri-state result of a debit operation. Denials and missing
// accounts are expected business outcomes, not errors.
type Outcome string

const (
	OutcomeSuccessful          Outcome = "SUCCESSFUL"
	OutcomeInsufficientBalance Outcome = "INSUFFICIENT_BALANCE"
	OutcomeAccountNotFound     Outcome = "ACCOUNT_NOT_FOUND"
)
