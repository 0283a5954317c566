package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a mirrored personal-ledger entry.
type TransactionType string

const (
	// TransactionExpense records money the local member spent or paid out.
	TransactionExpense TransactionType = "expense"
	// TransactionIncome records money the local member received.
	TransactionIncome TransactionType = "income"
)

// Transaction is one entry mirrored into the personal spending ledger.
type Transaction struct {
	Type     TransactionType
	Amount   decimal.Decimal
	Category string
	Date     time.Time
	Note     string
}

// PersonalLedger is the external spending-ledger collaborator. Bills and
// settlements involving a group's local member are mirrored into it when
// the group opts in. Mirroring is best-effort: a failure is logged and
// never rolls back the group mutation that triggered it.
type PersonalLedger interface {
	AddTransaction(ctx context.Context, tx Transaction) error
}

type noopLedger struct{}

func (noopLedger) AddTransaction(context.Context, Transaction) error { return nil }

// NopLedger returns a PersonalLedger that discards every transaction.
func NopLedger() PersonalLedger { return noopLedger{} }
