// Package apperrors defines the sentinel errors shared across the ledger.
// Callers classify failures with errors.Is.
package apperrors

import "errors"

// ErrNotFound indicates that a requested group, member, bill or settlement
// could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks before
// anything was persisted.
var ErrValidation = errors.New("validation error")

// ErrMemberHasHistory indicates an attempt to delete a member that appears
// in bill or settlement history. Such members can only be archived.
var ErrMemberHasHistory = errors.New("member has recorded history")
