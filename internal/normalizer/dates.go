package normalizer

import (
	"time"
)

// isoDate is the canonical output layout.
const isoDate = "2006-01-02"

// DateStrategy turns one textual date representation into an ISO date.
type DateStrategy interface {
	TryParse(s string) (string, bool)
}

// layoutStrategy parses a single time layout and keeps the calendar date.
type layoutStrategy struct {
	layout string
}

func (l layoutStrategy) TryParse(s string) (string, bool) {
	t, err := time.Parse(l.layout, s)
	if err != nil {
		return "", false
	}
	return t.Format(isoDate), true
}

// isoPrefixStrategy accepts anything whose 5th and 8th characters are '-'
// and keeps the first ten characters.
//
// Known-fragile: the prefix is not calendar-validated, so "2024-13-99..."
// comes back as "2024-13-99".
type isoPrefixStrategy struct{}

func (isoPrefixStrategy) TryParse(s string) (string, bool) {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10], true
	}
	return "", false
}

// DefaultDateStrategies is the ordered list tried for every row.
// Single-digit months and days are accepted by every layout.
func DefaultDateStrategies() []DateStrategy {
	return []DateStrategy{
		layoutStrategy{layout: "2006-1-2"},
		layoutStrategy{layout: "2006/1/2"},
		layoutStrategy{layout: "2/1/2006"},
		layoutStrategy{layout: "2-1-2006"},
		layoutStrategy{layout: "2006-1-2T15:04:05"},
		layoutStrategy{layout: "2006-1-2 15:04:05"},
		isoPrefixStrategy{},
	}
}

// parseDate runs the strategies in order and returns the first success.
func parseDate(s string, strategies []DateStrategy) (string, bool) {
	for _, st := range strategies {
		if d, ok := st.TryParse(s); ok {
			return d, true
		}
	}
	return "", false
}
