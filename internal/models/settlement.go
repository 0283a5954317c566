package models

import "github.com/shopspring/decimal"

// Settlement represents a payment between two group members to clear debt.
// It is a bookkeeping entry only; no payment rail is involved.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// FromID is the member who paid (debtor settling up).
	FromID string `json:"fromId"`

	// ToID is the member who received payment (creditor being paid).
	ToID string `json:"toId"`

	// Amount is the payment amount.
	Amount decimal.Decimal `json:"amount"`

	// BillID optionally links the settlement to a specific bill.
	BillID string `json:"billId,omitempty"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`
}
