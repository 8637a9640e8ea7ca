package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/txn-monthly-report/internal/summary"
)

// Subject returns the email subject for a month.
func Subject(month string) string {
	return fmt.Sprintf("Transactional Report — %s", month)
}

// ComposeBody renders the plain-text email body: analytics, then the run
// summary, then alerts.
func ComposeBody(month string, m summary.Metrics, a Analytics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analytics — %s\n\n", month)

	b.WriteString("Totals by Category (BRL):\n")
	if len(a.TotalsByCategory) == 0 {
		b.WriteString("- No transactions found in XML.\n")
	}
	for _, cat := range sortedKeys(a.TotalsByCategory) {
		fmt.Fprintf(&b, "- %s: %s %s\n", cat, a.TotalsByCategory[cat].StringFixed(2), a.Currency)
	}

	b.WriteString("\nTotal Transactions by Category:\n")
	if len(a.CountsByCategory) == 0 {
		b.WriteString("- No transactions found in XML.\n")
	}
	for _, cat := range sortedKeys(a.CountsByCategory) {
		fmt.Fprintf(&b, "- %s: %d\n", cat, a.CountsByCategory[cat])
	}

	b.WriteString("\nTotal Transactions by Status:\n")
	fmt.Fprintf(&b, "- approved: %d\n", a.CountsByStatus["approved"])
	fmt.Fprintf(&b, "- chargeback: %d\n", a.CountsByStatus["chargeback"])

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "Month: %s\n", month)
	fmt.Fprintf(&b, "Rows in: %d\n", m.RowsIn)
	fmt.Fprintf(&b, "Rows out: %d\n", m.RowsOut)
	fmt.Fprintf(&b, "Duplicates removed: %d\n", m.DuplicatesRemoved)
	fmt.Fprintf(&b, "Below-threshold excluded: %d\n", m.BelowThresholdExcluded)
	fmt.Fprintf(&b, "Invalid labels: %d\n", m.InvalidLabels)
	fmt.Fprintf(&b, "Invalid dates: %d\n", m.InvalidDates)
	fmt.Fprintf(&b, "Invalid amounts: %d\n", m.InvalidAmounts)
	fmt.Fprintf(&b, "Invalid currency: %d\n", m.InvalidCurrency)
	fmt.Fprintf(&b, "Transactions in XML: %d\n", a.Count)

	b.WriteString("\nAlerts:\n")
	for _, alert := range alerts(m) {
		fmt.Fprintf(&b, "- %s\n", alert)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func alerts(m summary.Metrics) []string {
	var out []string
	if m.DuplicatesRemoved > 0 {
		out = append(out, "Duplicates were detected and removed.")
	}
	if m.InvalidLabels > 0 {
		out = append(out, "Some labels were invalid and normalized to defaults.")
	}
	if m.InvalidDates > 0 {
		out = append(out, "Some rows had invalid dates and were excluded.")
	}
	if m.BelowThresholdExcluded > 0 {
		out = append(out, "Some rows had non-positive amounts and were excluded.")
	}
	if len(out) == 0 {
		out = append(out, "No alerts.")
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
