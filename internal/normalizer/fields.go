package normalizer

import (
	"strings"

	"github.com/ginjaninja78/txn-monthly-report/internal/types"
)

// =============================================================================
// FIELD CANDIDATES
// =============================================================================

// Fields lists, per canonical field group, the source column names consulted
// in priority order. The first column whose trimmed value is non-empty wins.
//
// Every list can be overridden from the `fields:` block of config.yaml; an
// empty list falls back to the default.
type Fields struct {
	Identity []string `yaml:"identity"`
	Status   []string `yaml:"status"`
	Date     []string `yaml:"date"`
	Currency []string `yaml:"currency"`
	Amount   []string `yaml:"amount"`
	Type     []string `yaml:"type"`
	Merchant []string `yaml:"merchant"`
	Network  []string `yaml:"network"`
	Category []string `yaml:"category"`
}

// DefaultFields returns the column names understood out of the box.
func DefaultFields() Fields {
	return Fields{
		Identity: []string{"id", "transaction_id", "transaction_code"},
		Status:   []string{"status"},
		Date:     []string{"date", "timestamp"},
		Currency: []string{"currency"},
		Amount:   []string{"amount", "amount_BRL"},
		Type:     []string{"type", "category"},
		Merchant: []string{"merchant_id", "merchant"},
		Network:  []string{"network"},
		Category: []string{"category"},
	}
}

// WithDefaults returns a copy of f where every empty list is replaced by the
// default list for that group.
func (f Fields) WithDefaults() Fields {
	d := DefaultFields()
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	return Fields{
		Identity: pick(f.Identity, d.Identity),
		Status:   pick(f.Status, d.Status),
		Date:     pick(f.Date, d.Date),
		Currency: pick(f.Currency, d.Currency),
		Amount:   pick(f.Amount, d.Amount),
		Type:     pick(f.Type, d.Type),
		Merchant: pick(f.Merchant, d.Merchant),
		Network:  pick(f.Network, d.Network),
		Category: pick(f.Category, d.Category),
	}
}

// first returns the first trimmed, non-empty value among the candidates.
func first(row types.RawRecord, candidates []string) string {
	for _, name := range candidates {
		if v := strings.TrimSpace(row[name]); v != "" {
			return v
		}
	}
	return ""
}
