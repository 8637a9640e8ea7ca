// =============================================================================
// Monthly Transaction Report - Shared Types
// =============================================================================
//
// This package contains the types shared by the row sources, the normalizer,
// the XML writer and the notifier, kept here to avoid import cycles:
//   - RawRecord            : one row as read from a tabular source
//   - CanonicalTransaction : one row after normalization, ready for the report
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW INPUT
// =============================================================================

// RawRecord is a single source row keyed by column header.
// The key set is arbitrary; any field may be missing.
type RawRecord map[string]string

// =============================================================================
// CANONICAL TRANSACTION
// =============================================================================

// Status is the lifecycle label of a transaction.
type Status string

const (
	StatusApproved   Status = "approved"
	StatusChargeback Status = "chargeback"
	StatusReversed   Status = "reversed"
	StatusRefunded   Status = "refunded"
	StatusPending    Status = "pending"
	StatusDeclined   Status = "declined"
	StatusUnknown    Status = "unknown"
)

// knownStatuses are the labels accepted from source data.
// StatusUnknown is only ever assigned, never accepted.
var knownStatuses = map[Status]bool{
	StatusApproved:   true,
	StatusChargeback: true,
	StatusReversed:   true,
	StatusRefunded:   true,
	StatusPending:    true,
	StatusDeclined:   true,
}

// ParseStatus reports whether s (already trimmed and lowercased) is an
// accepted status label.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if knownStatuses[st] {
		return st, true
	}
	return StatusUnknown, false
}

// TxnType is the direction of a transaction.
type TxnType string

const (
	TypeDebit  TxnType = "DEBIT"
	TypeCredit TxnType = "CREDIT"
)

// ParseTxnType reports whether s (already trimmed and uppercased) is DEBIT or CREDIT.
func ParseTxnType(s string) (TxnType, bool) {
	switch TxnType(s) {
	case TypeDebit, TypeCredit:
		return TxnType(s), true
	}
	return TypeDebit, false
}

// DefaultCurrency is used when a row carries no currency.
const DefaultCurrency = "BRL"

// CanonicalTransaction is a transaction after normalization, deduplication
// and validation.
type CanonicalTransaction struct {
	// ID is the dedup key; unique within one report.
	ID string

	Status Status

	// Date is the calendar date in YYYY-MM-DD form, inside the target month.
	Date string

	// Amount is strictly positive and rounded to two fractional digits.
	Amount decimal.Decimal

	// Currency is uppercase, "BRL" when the source had none.
	Currency string

	Type TxnType

	// MerchantID has '.', '/' and '-' removed.
	MerchantID string

	// Network is a non-negative integer, 1 when the source was unparsable.
	Network int

	// Category is uppercase, equal to Type when the source had none.
	Category string
}

// AmountString renders the amount with exactly two fractional digits.
func (t CanonicalTransaction) AmountString() string {
	return t.Amount.StringFixed(2)
}
