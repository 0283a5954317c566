package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/models"
)

// Balances computes each member's signed net position from a group's full
// bill and settlement history. Positive means the member is owed money,
// negative means they owe.
//
// It is a pure fold, recomputed fresh on every call:
//   - each bill contribution credits the payer
//   - each bill split debits the owing member
//   - each settlement credits the paying member (their debt shrinks) and
//     debits the receiver (they are owed less)
//
// Members with no entries are absent from the result; callers treat absence
// as zero. The per-split Settled flag is deliberately ignored: it is a
// reminder signal, not part of the money model.
func Balances(bills []models.Bill, settlements []models.Settlement) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)

	add := func(memberID string, amount decimal.Decimal) {
		balances[memberID] = balances[memberID].Add(amount)
	}

	for i := range bills {
		b := &bills[i]
		for _, c := range b.Contributions {
			add(c.MemberID, c.Amount)
		}
		for _, s := range b.Splits {
			add(s.MemberID, s.Share.Neg())
		}
	}

	for _, s := range settlements {
		add(s.FromID, s.Amount)
		add(s.ToID, s.Amount.Neg())
	}

	return balances
}
