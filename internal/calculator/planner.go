package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is one proposed payment edge of a settlement plan.
type Transfer struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
}

type party struct {
	memberID  string
	remaining decimal.Decimal
}

// Plan computes a set of directed transfers that zeroes every balance,
// minimizing edge count with greedy largest-first matching: the biggest
// remaining debtor repeatedly pays the biggest remaining creditor, and
// whichever side hits zero advances. Each step retires at least one party,
// so at most creditors+debtors-1 edges are produced.
//
// Balances within Epsilon of zero are treated as settled. An all-settled
// input yields an empty plan, indistinguishable from any other degenerate
// input: callers must check for the "already settled" case themselves.
func Plan(balances map[string]decimal.Decimal) []Transfer {
	var creditors, debtors []party
	for memberID, bal := range balances {
		switch {
		case bal.GreaterThan(Epsilon):
			creditors = append(creditors, party{memberID, bal})
		case bal.LessThan(Epsilon.Neg()):
			debtors = append(debtors, party{memberID, bal.Neg()})
		}
	}
	sortByMagnitude(creditors)
	sortByMagnitude(debtors)

	var plan []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		plan = append(plan, Transfer{
			FromID: debtor.memberID,
			ToID:   creditor.memberID,
			Amount: amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThanOrEqual(Epsilon) {
			i++
		}
		if creditor.remaining.LessThanOrEqual(Epsilon) {
			j++
		}
	}
	return plan
}

// sortByMagnitude orders parties by descending remaining amount, breaking
// ties by member ID so plans are deterministic.
func sortByMagnitude(parties []party) {
	sort.Slice(parties, func(a, b int) bool {
		if !parties[a].remaining.Equal(parties[b].remaining) {
			return parties[a].remaining.GreaterThan(parties[b].remaining)
		}
		return parties[a].memberID < parties[b].memberID
	})
}
