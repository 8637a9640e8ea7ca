package notify

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/txn-monthly-report/internal/types"
)

// Analytics are the figures shown at the top of the report email. They are
// read back from the written report.xml, so the email describes exactly
// what was delivered.
type Analytics struct {
	TotalsByCategory map[string]decimal.Decimal
	CountsByCategory map[string]int

	// CountsByStatus is keyed by lower-case status.
	CountsByStatus map[string]int

	// Currency is the currency of the last transaction read, BRL by default.
	Currency string

	Count int
}

type reportDocument struct {
	Transactions []reportTransaction `xml:"Transaction"`
}

type reportTransaction struct {
	Status   string        `xml:"Status"`
	Amount   *reportAmount `xml:"Amount"`
	Type     string        `xml:"Type"`
	Category string        `xml:"Category"`
}

type reportAmount struct {
	Value    string `xml:",chardata"`
	Currency string `xml:"currency,attr"`
}

func emptyAnalytics() Analytics {
	return Analytics{
		TotalsByCategory: map[string]decimal.Decimal{},
		CountsByCategory: map[string]int{},
		CountsByStatus:   map[string]int{},
		Currency:         types.DefaultCurrency,
	}
}

// AnalyzeReport reads a report file and computes its analytics. A report
// that cannot be read or parsed yields empty analytics so the email still
// goes out.
func AnalyzeReport(path string) Analytics {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyAnalytics()
	}
	return analyze(data)
}

func analyze(data []byte) Analytics {
	var doc reportDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return emptyAnalytics()
	}

	a := emptyAnalytics()
	for _, tx := range doc.Transactions {
		a.Count++

		amount := decimal.Zero
		if tx.Amount != nil {
			a.Currency = strings.ToUpper(tx.Amount.Currency)
			if a.Currency == "" {
				a.Currency = types.DefaultCurrency
			}
			amount = safeDecimal(tx.Amount.Value)
		}

		category := strings.ToUpper(strings.TrimSpace(tx.Category))
		if category == "" {
			category = strings.ToUpper(strings.TrimSpace(tx.Type))
		}
		if category == "" {
			category = "UNKNOWN"
		}
		a.TotalsByCategory[category] = a.TotalsByCategory[category].Add(amount)
		a.CountsByCategory[category]++

		status := strings.ToLower(strings.TrimSpace(tx.Status))
		if status == "" {
			status = string(types.StatusUnknown)
		}
		a.CountsByStatus[status]++
	}
	return a
}

// safeDecimal parses v rounded half-up to cents, or zero.
func safeDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}
