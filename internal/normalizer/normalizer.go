// =============================================================================
// Monthly Transaction Report - Row Normalizer
// =============================================================================
//
// This module maps raw source rows to canonical transactions for one target
// month. It decides, for every row, whether it becomes a transaction, and
// tallies the reason whenever a field had to be corrected or the row had to
// be dropped.
//
// PROCESSING ORDER (per row, first success wins per field group):
//   1. Identity     - empty identity drops the row silently
//   2. Dedup        - repeated identity counts duplicates_removed
//   3. Status       - unknown label counts invalid_labels, row kept
//   4. Date         - unparsable counts invalid_dates, out-of-month dropped silently
//   5. Currency     - empty counts invalid_currency, defaults to BRL
//   6. Amount       - unparsable or over 28 digits counts invalid_amounts,
//                     <= 0 counts below_threshold_excluded
//   7. Type         - unknown label counts invalid_labels, defaults to DEBIT
//   8. MerchantId   - '.', '/' and '-' stripped
//   9. Network      - unparsable defaults to 1
//  10. Category     - defaults to the resolved type
//
// =============================================================================

package normalizer

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/txn-monthly-report/internal/types"
)

// =============================================================================
// COUNTERS
// =============================================================================

// Counters accumulates the outcome of one normalization pass.
// A Counters value is owned by a single Normalize call.
type Counters struct {
	DuplicatesRemoved      int
	BelowThresholdExcluded int
	InvalidLabels          int
	InvalidDates           int
	InvalidAmounts         int
	InvalidCurrency        int

	// MissingIdentity and OutOfPeriod are dropped without an error counter;
	// they are tallied for operational metrics only and never reach the
	// summary.
	MissingIdentity int
	OutOfPeriod     int
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer holds the field candidates and date strategies used for a pass.
// It carries no per-run state and may be shared between runs.
type Normalizer struct {
	fields     Fields
	strategies []DateStrategy
}

// New creates a Normalizer. Empty candidate lists fall back to the defaults.
func New(fields Fields) *Normalizer {
	return &Normalizer{
		fields:     fields.WithDefaults(),
		strategies: DefaultDateStrategies(),
	}
}

// Normalize runs a pass with the default field candidates.
func Normalize(rows []types.RawRecord, targetMonth string) ([]types.CanonicalTransaction, Counters) {
	return New(Fields{}).Normalize(rows, targetMonth)
}

// Normalize maps rows to canonical transactions for targetMonth ("YYYY-MM").
//
// PARAMETERS:
//   - rows: The raw rows, in source order. They are not modified.
//   - targetMonth: The month to keep.
//
// RETURNS:
//   - The canonical transactions, in source order minus dropped rows.
//   - The counters for the pass.
func (n *Normalizer) Normalize(rows []types.RawRecord, targetMonth string) ([]types.CanonicalTransaction, Counters) {
	var c Counters
	seen := make(map[string]struct{}, len(rows))
	out := make([]types.CanonicalTransaction, 0, len(rows))

	for _, row := range rows {
		tx, ok := n.normalizeRow(row, targetMonth, seen, &c)
		if ok {
			out = append(out, tx)
		}
	}

	return out, c
}

// normalizeRow applies the processing order to a single row.
func (n *Normalizer) normalizeRow(row types.RawRecord, targetMonth string, seen map[string]struct{}, c *Counters) (types.CanonicalTransaction, bool) {
	var tx types.CanonicalTransaction

	// Identity.
	id := first(row, n.fields.Identity)
	if id == "" {
		c.MissingIdentity++
		return tx, false
	}

	// Dedup.
	if _, dup := seen[id]; dup {
		c.DuplicatesRemoved++
		return tx, false
	}
	seen[id] = struct{}{}
	tx.ID = id

	// Status.
	status, ok := types.ParseStatus(strings.ToLower(first(row, n.fields.Status)))
	if !ok {
		c.InvalidLabels++
	}
	tx.Status = status

	// Date.
	date, ok := parseDate(first(row, n.fields.Date), n.strategies)
	if !ok {
		c.InvalidDates++
		return tx, false
	}
	if !strings.HasPrefix(date, targetMonth) {
		c.OutOfPeriod++
		return tx, false
	}
	tx.Date = date

	// Currency.
	currency := strings.ToUpper(first(row, n.fields.Currency))
	if currency == "" {
		c.InvalidCurrency++
		currency = types.DefaultCurrency
	}
	tx.Currency = currency

	// Amount. A row without any amount column reads as zero.
	raw := first(row, n.fields.Amount)
	if raw == "" {
		raw = "0"
	}
	amount, ok := parseAmount(raw)
	if !ok {
		c.InvalidAmounts++
		return tx, false
	}
	if !amount.IsPositive() {
		c.BelowThresholdExcluded++
		return tx, false
	}
	tx.Amount = amount

	// Type.
	txnType, ok := types.ParseTxnType(strings.ToUpper(first(row, n.fields.Type)))
	if !ok {
		c.InvalidLabels++
	}
	tx.Type = txnType

	// MerchantId.
	tx.MerchantID = strings.TrimSpace(merchantReplacer.Replace(first(row, n.fields.Merchant)))

	// Network.
	tx.Network = parseNetwork(first(row, n.fields.Network))

	// Category.
	category := strings.ToUpper(first(row, n.fields.Category))
	if category == "" {
		category = string(txnType)
	}
	tx.Category = category

	return tx, true
}

// merchantReplacer strips the punctuation found in formatted merchant
// registration numbers.
var merchantReplacer = strings.NewReplacer(".", "", "/", "", "-", "")

// parseNetwork returns the network as a non-negative integer, 1 otherwise.
func parseNetwork(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 1
	}
	return v
}

// maxAmountDigits is the most significant digits a rounded amount may carry.
const maxAmountDigits = 28

// parseAmount reads a decimal amount with '.' or ',' as the separator and
// rounds it half-up to cents. Amounts whose rounded form needs more than
// maxAmountDigits digits are rejected before any rescaling happens.
func parseAmount(raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if amount.IsZero() {
		return decimal.Zero, true
	}

	intDigits := int64(amount.NumDigits()) + int64(amount.Exponent())
	if intDigits+2 > maxAmountDigits {
		return decimal.Decimal{}, false
	}
	// Below 0.001 in magnitude the value rounds to zero.
	if intDigits < -2 {
		return decimal.Zero, true
	}

	amount = amount.Round(2)
	if amount.NumDigits() > maxAmountDigits {
		return decimal.Decimal{}, false
	}
	return amount, true
}
