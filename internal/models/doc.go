// Package models defines the core domain models for the group expense ledger.
//
// # Models
//
//   - Group: Aggregate root holding members, bills and settlements
//   - Member: A person participating in a group's expenses
//   - Bill: A shared expense with per-participant splits and per-payer contributions
//   - Settlement: A recorded transfer between two members
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed as ID strings to
// avoid circular references and keep the group serializable as one record.
//
// 2. **Money as decimal**: every amount is a decimal.Decimal quantized to
// two decimal places (minor units). Sums that the invariants require to be
// exact (splits vs. final amount, contributions vs. final amount) are made
// exact at allocation time, not merely close.
//
// 3. **Tagged split modes**: SplitMode is built only through its
// constructors (EqualSplit, SharesSplit, ExactSplit) so that weight maps,
// exact-amount maps and the proportional-tax flag cannot appear in invalid
// combinations.
//
// 4. **Derived state is never persisted**: balances and settlement plans
// are recomputed from the bill and settlement history on every read.
package models
