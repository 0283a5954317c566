// Package calculator implements the pure computation engines of the group
// expense ledger: bill allocation, balance aggregation and settlement
// planning. Everything in this package is synchronous, side-effect-free and
// deterministic; ordering of participants is significant because the last
// participant in entry order absorbs rounding residue.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/apperrors"
	"github.com/junman99/fingrow-sub000/internal/models"
)

// Epsilon is one minor currency unit. Differences below it are treated as
// rounding drift, not money.
var Epsilon = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// BillSpec is the input to Allocate.
type BillSpec struct {
	// Amount is the base subtotal, or the final receipt total when
	// AmountIsFinal is set.
	Amount decimal.Decimal

	// AmountIsFinal marks Amount as the final receipt total. Only valid
	// together with an exact split: the entered values are base shares and
	// the difference to Amount becomes an implicit proportional tax or
	// discount.
	AmountIsFinal bool

	Tax               decimal.Decimal
	TaxIsPercent      bool
	Discount          decimal.Decimal
	DiscountIsPercent bool

	// Participants lists member IDs in entry order.
	Participants []string

	Split models.SplitMode
}

// MemberShare is one participant's computed amount.
type MemberShare struct {
	MemberID string
	Amount   decimal.Decimal
}

// Allocation is the result of allocating one bill.
type Allocation struct {
	// Subtotal is the base amount the shares were computed from.
	Subtotal decimal.Decimal

	// Tax and Discount are the resolved absolute values (percentages
	// applied, implicit values inferred).
	Tax      decimal.Decimal
	Discount decimal.Decimal

	// FinalAmount = Subtotal + Tax - Discount, quantized to minor units.
	FinalAmount decimal.Decimal

	// BaseShares and FinalShares are ordered like the participant list.
	// FinalShares always sum to FinalAmount exactly.
	BaseShares  []MemberShare
	FinalShares []MemberShare
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// Allocate computes each participant's base and final share for a bill
// specification. It never persists anything; callers check the error before
// writing a bill.
func Allocate(spec BillSpec) (*Allocation, error) {
	if len(spec.Participants) == 0 {
		return nil, validationErr("bill must have at least one participant")
	}
	seen := make(map[string]bool, len(spec.Participants))
	for _, p := range spec.Participants {
		if p == "" {
			return nil, validationErr("participant ID cannot be empty")
		}
		if seen[p] {
			return nil, validationErr("duplicate participant %q", p)
		}
		seen[p] = true
	}
	if !spec.Amount.IsPositive() {
		return nil, validationErr("amount must be positive")
	}
	if spec.Tax.IsNegative() {
		return nil, validationErr("tax cannot be negative")
	}
	if spec.Discount.IsNegative() {
		return nil, validationErr("discount cannot be negative")
	}

	switch spec.Split.Kind {
	case models.SplitEqual, models.SplitShares, models.SplitExact:
	default:
		return nil, validationErr("unknown split mode %q", spec.Split.Kind)
	}
	if spec.AmountIsFinal && spec.Split.Kind != models.SplitExact {
		return nil, validationErr("final-total entry requires an exact split")
	}

	alloc := &Allocation{}
	if spec.AmountIsFinal {
		// The entered exact values are base shares; the gap between their
		// sum and the receipt total is an implicit tax or discount.
		subtotal := decimal.Zero
		for _, p := range spec.Participants {
			subtotal = subtotal.Add(spec.Split.Exacts[p].Round(2))
		}
		if !subtotal.IsPositive() {
			return nil, validationErr("exact base shares must sum to a positive subtotal")
		}
		alloc.Subtotal = subtotal
		alloc.FinalAmount = spec.Amount.Round(2)
		if delta := alloc.FinalAmount.Sub(subtotal); delta.IsNegative() {
			alloc.Discount = delta.Neg()
		} else {
			alloc.Tax = delta
		}
	} else {
		alloc.Subtotal = spec.Amount.Round(2)
		alloc.Tax = resolveRate(spec.Tax, spec.TaxIsPercent, alloc.Subtotal)
		alloc.Discount = resolveRate(spec.Discount, spec.DiscountIsPercent, alloc.Subtotal)
		alloc.FinalAmount = alloc.Subtotal.Add(alloc.Tax).Sub(alloc.Discount).Round(2)
		if alloc.FinalAmount.IsNegative() {
			return nil, validationErr("discount exceeds the taxed subtotal")
		}
	}

	// Exact splits without proportional tax carry final amounts directly;
	// there is no separate base-share stage to reconcile.
	if spec.Split.Kind == models.SplitExact && !spec.Split.ProportionalTax && !spec.AmountIsFinal {
		finals, err := exactShares(spec.Participants, spec.Split.Exacts, alloc.FinalAmount, "final amount")
		if err != nil {
			return nil, err
		}
		alloc.BaseShares = finals
		alloc.FinalShares = finals
		return alloc, nil
	}

	base, err := baseShares(spec, alloc.Subtotal)
	if err != nil {
		return nil, err
	}
	alloc.BaseShares = base
	alloc.FinalShares = distribute(base, alloc.Subtotal, alloc.Tax.Sub(alloc.Discount), alloc.FinalAmount)
	return alloc, nil
}

// resolveRate turns a tax or discount entry into an absolute amount.
func resolveRate(rate decimal.Decimal, isPercent bool, subtotal decimal.Decimal) decimal.Decimal {
	if isPercent {
		return subtotal.Mul(rate).Div(hundred).Round(2)
	}
	return rate.Round(2)
}

// baseShares divides the subtotal among participants per the split mode.
func baseShares(spec BillSpec, subtotal decimal.Decimal) ([]MemberShare, error) {
	n := len(spec.Participants)
	shares := make([]MemberShare, n)

	switch spec.Split.Kind {
	case models.SplitEqual:
		// Truncate per head; the last participant absorbs the remainder so
		// the shares sum to the subtotal exactly (10.00/3 -> 3.33 3.33 3.34).
		per := subtotal.Div(decimal.NewFromInt(int64(n))).Truncate(2)
		rest := subtotal
		for i, p := range spec.Participants {
			if i < n-1 {
				shares[i] = MemberShare{MemberID: p, Amount: per}
				rest = rest.Sub(per)
			} else {
				shares[i] = MemberShare{MemberID: p, Amount: rest}
			}
		}

	case models.SplitShares:
		var totalWeight int64
		for _, p := range spec.Participants {
			totalWeight += weightOf(spec.Split.Weights, p)
		}
		rest := subtotal
		tw := decimal.NewFromInt(totalWeight)
		for i, p := range spec.Participants {
			if i < n-1 {
				w := decimal.NewFromInt(weightOf(spec.Split.Weights, p))
				amt := subtotal.Mul(w).Div(tw).Round(2)
				shares[i] = MemberShare{MemberID: p, Amount: amt}
				rest = rest.Sub(amt)
			} else {
				shares[i] = MemberShare{MemberID: p, Amount: rest}
			}
		}

	case models.SplitExact:
		return exactShares(spec.Participants, spec.Split.Exacts, subtotal, "subtotal")
	}

	return shares, nil
}

// exactShares validates entered amounts against a target sum and normalizes
// the last participant so the total is exact.
func exactShares(participants []string, entries map[string]decimal.Decimal, target decimal.Decimal, targetName string) ([]MemberShare, error) {
	shares := make([]MemberShare, len(participants))
	sum := decimal.Zero
	for i, p := range participants {
		amt := entries[p].Round(2)
		if amt.IsNegative() {
			return nil, validationErr("exact amount for %q cannot be negative", p)
		}
		shares[i] = MemberShare{MemberID: p, Amount: amt}
		sum = sum.Add(amt)
	}
	diff := target.Sub(sum)
	if diff.Abs().GreaterThan(Epsilon) {
		return nil, validationErr("exact amounts sum to %s, expected %s %s", sum, targetName, target)
	}
	if !diff.IsZero() {
		last := len(shares) - 1
		shares[last].Amount = shares[last].Amount.Add(diff)
	}
	return shares, nil
}

// distribute spreads the tax/discount adjustment across participants in
// proportion to their base shares. Every share but the last is rounded per
// participant; the last share is whatever is left of the final amount, which
// keeps the sum exact despite the per-participant rounding.
func distribute(base []MemberShare, subtotal, adjustment, finalAmount decimal.Decimal) []MemberShare {
	finals := make([]MemberShare, len(base))
	rest := finalAmount
	for i, bs := range base {
		if i < len(base)-1 {
			amt := bs.Amount.Add(bs.Amount.Mul(adjustment).Div(subtotal)).Round(2)
			finals[i] = MemberShare{MemberID: bs.MemberID, Amount: amt}
			rest = rest.Sub(amt)
		} else {
			finals[i] = MemberShare{MemberID: bs.MemberID, Amount: rest}
		}
	}
	return finals
}

func weightOf(weights map[string]int64, memberID string) int64 {
	if w, ok := weights[memberID]; ok && w > 0 {
		return w
	}
	return 1
}
