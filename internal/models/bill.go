package models

import "github.com/shopspring/decimal"

// SplitKind discriminates how a bill's subtotal is divided.
type SplitKind string

const (
	// SplitEqual divides the subtotal evenly among participants.
	SplitEqual SplitKind = "equal"
	// SplitShares divides the subtotal by per-participant weights.
	SplitShares SplitKind = "shares"
	// SplitExact uses per-participant amounts entered directly.
	SplitExact SplitKind = "exact"
)

// SplitMode is a tagged variant describing a bill's split strategy.
// Use the constructors below; a zero SplitMode is not valid.
type SplitMode struct {
	Kind SplitKind `json:"kind"`

	// Weights holds per-member weights for SplitShares. A missing or
	// non-positive weight counts as 1.
	Weights map[string]int64 `json:"weights,omitempty"`

	// Exacts holds per-member entered amounts for SplitExact.
	Exacts map[string]decimal.Decimal `json:"exacts,omitempty"`

	// ProportionalTax applies only to SplitExact: when true the entered
	// values are base (pre-tax) shares and tax/discount is spread across
	// participants in proportion to them; when false the entered values
	// are final amounts with tax/discount already folded in.
	ProportionalTax bool `json:"proportionalTax,omitempty"`
}

// EqualSplit returns the equal split mode.
func EqualSplit() SplitMode {
	return SplitMode{Kind: SplitEqual}
}

// SharesSplit returns a weighted split mode.
func SharesSplit(weights map[string]int64) SplitMode {
	return SplitMode{Kind: SplitShares, Weights: weights}
}

// ExactSplit returns an exact-amounts split mode. With proportionalTax the
// values are base shares that must sum to the subtotal; without it they are
// final amounts that must sum to the bill's final total.
func ExactSplit(values map[string]decimal.Decimal, proportionalTax bool) SplitMode {
	return SplitMode{Kind: SplitExact, Exacts: values, ProportionalTax: proportionalTax}
}

// Split is one participant's final owed share of a bill.
type Split struct {
	MemberID string          `json:"memberId"`
	Share    decimal.Decimal `json:"share"`

	// Settled is a reminder flag toggled per split. It is deliberately
	// decoupled from balance accounting: balances are computed from
	// contributions and splits, never from this flag.
	Settled bool `json:"settled,omitempty"`
}

// Contribution is one payer's actual cash outlay toward a bill.
// The contributions of a bill always sum to its final amount exactly.
type Contribution struct {
	MemberID string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

// Bill represents a shared expense after allocation: the stored record
// carries both the entered specification (amount, tax, discount, split
// mode) and the computed splits and contributions.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// GroupID is the group this bill belongs to.
	GroupID string `json:"groupId"`

	// Title is the human-readable name for the bill.
	Title string `json:"title"`

	// Amount is the base subtotal before tax and discount. When a bill is
	// entered as a final receipt total with exact base shares, Amount is
	// normalized to the sum of the entered bases and the tax/discount
	// fields absorb the remainder.
	Amount decimal.Decimal `json:"amount"`

	// Tax and Discount adjust the subtotal. When the *IsPercent flag is
	// set the value is a percentage of the subtotal, otherwise an
	// absolute amount.
	Tax               decimal.Decimal `json:"tax"`
	TaxIsPercent      bool            `json:"taxIsPercent,omitempty"`
	Discount          decimal.Decimal `json:"discount"`
	DiscountIsPercent bool            `json:"discountIsPercent,omitempty"`

	// FinalAmount is the subtotal adjusted by tax and discount; what the
	// participants collectively owe and the payers collectively paid.
	FinalAmount decimal.Decimal `json:"finalAmount"`

	// Participants lists the member IDs splitting this bill, in entry
	// order. Order matters: the last participant absorbs rounding residue.
	Participants []string `json:"participants"`

	// Split records the strategy the splits were computed with.
	Split SplitMode `json:"split"`

	// Contributions records what each payer actually put down.
	Contributions []Contribution `json:"contributions"`

	// Splits records each participant's final owed share.
	Splits []Split `json:"splits"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"createdAt"`
}
