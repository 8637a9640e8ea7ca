// =============================================================================
// Monthly Transaction Report - XML Writer Module
// =============================================================================
//
// This module renders the canonical transaction set of one month into the
// report.xml document consumed downstream. The element names, their order
// and the attribute names are a compatibility contract.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <TransactionsReport month="2024-05" generated_at="2024-06-01T08:00:00Z">
//     <Transaction id="A1">
//       <Status>approved</Status>
//       <Date>2024-05-10</Date>
//       <Amount currency="BRL">10.00</Amount>
//       <Type>DEBIT</Type>
//       <MerchantId>12345678000190</MerchantId>
//       <Network>1</Network>
//       <Category>DEBIT</Category>
//     </Transaction>
//   </TransactionsReport>
//
// DETERMINISM:
//   For a fixed transaction set and a fixed generation time the output is
//   byte-identical. The generation time is the only input that varies
//   between runs, so callers inject it.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ginjaninja78/txn-monthly-report/internal/types"
)

// =============================================================================
// ELEMENT AND ATTRIBUTE NAMES
// =============================================================================

const (
	RootElement        = "TransactionsReport"
	TransactionElement = "Transaction"

	MonthAttribute       = "month"
	GeneratedAtAttribute = "generated_at"
	IDAttribute          = "id"
	CurrencyAttribute    = "currency"

	// TimestampLayout is the UTC layout of generated_at.
	TimestampLayout = "2006-01-02T15:04:05Z"
)

// transactionFields is the fixed child order of a Transaction element.
var transactionFields = []string{"Status", "Date", "Amount", "Type", "MerchantId", "Network", "Category"}

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders the report document.
//
// PARAMETERS:
//   - month: The target month label ("YYYY-MM").
//   - transactions: The canonical transactions, in report order.
//   - generatedAt: The generation time; it is converted to UTC.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if generation fails.
func Generate(month string, transactions []types.CanonicalTransaction, generatedAt time.Time) ([]byte, error) {
	return GenerateWithOptions(month, transactions, generatedAt, DefaultGenerateOptions())
}

// GenerateWithOptions renders the report document with custom options.
func GenerateWithOptions(month string, transactions []types.CanonicalTransaction, generatedAt time.Time, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	doc := buildDocument(month, transactions, generatedAt)

	if err := marshalWithIndent(&buffer, doc, options.Indent); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	return buffer.Bytes(), nil
}

// WriteFile renders the report and writes it to path, replacing any
// previous file.
func WriteFile(path, month string, transactions []types.CanonicalTransaction, generatedAt time.Time) error {
	data, err := Generate(month, transactions, generatedAt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the document tree.
func buildDocument(month string, transactions []types.CanonicalTransaction, generatedAt time.Time) XMLElement {
	root := XMLElement{
		XMLName: xml.Name{Local: RootElement},
		Attributes: []xml.Attr{
			attr(MonthAttribute, month),
			attr(GeneratedAtAttribute, generatedAt.UTC().Format(TimestampLayout)),
		},
		Children: make([]XMLElement, 0, len(transactions)),
	}

	for _, tx := range transactions {
		root.Children = append(root.Children, buildTransactionElement(tx))
	}

	return root
}

// buildTransactionElement constructs one Transaction element.
func buildTransactionElement(tx types.CanonicalTransaction) XMLElement {
	amount := createSimpleElement("Amount", tx.AmountString())
	amount.Attributes = []xml.Attr{attr(CurrencyAttribute, tx.Currency)}

	return XMLElement{
		XMLName:    xml.Name{Local: TransactionElement},
		Attributes: []xml.Attr{attr(IDAttribute, tx.ID)},
		Children: []XMLElement{
			createSimpleElement("Status", string(tx.Status)),
			createSimpleElement("Date", tx.Date),
			amount,
			createSimpleElement("Type", string(tx.Type)),
			createSimpleElement("MerchantId", tx.MerchantID),
			createSimpleElement("Network", strconv.Itoa(tx.Network)),
			createSimpleElement("Category", tx.Category),
		},
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// marshalWithIndent writes the root element and its subtree.
//
// The root always gets an explicit closing tag, even for an empty month,
// so that consumers can append to the document shape they expect.
func marshalWithIndent(buffer *bytes.Buffer, root XMLElement, indent string) error {
	buffer.WriteString("<")
	buffer.WriteString(root.XMLName.Local)
	writeAttributes(buffer, root.Attributes)
	buffer.WriteString(">\n")

	for _, child := range root.Children {
		writeElement(buffer, child, indent, 1)
	}

	buffer.WriteString("</")
	buffer.WriteString(root.XMLName.Local)
	buffer.WriteString(">\n")

	return nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	writeAttributes(buffer, element.Attributes)

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		writeIndent(buffer, indent, level)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

// writeAttributes writes attributes in declaration order.
func writeAttributes(buffer *bytes.Buffer, attributes []xml.Attr) {
	for _, a := range attributes {
		buffer.WriteString(" ")
		buffer.WriteString(a.Name.Local)
		buffer.WriteString(`="`)
		buffer.WriteString(escapeXML(a.Value))
		buffer.WriteString(`"`)
	}
}

// escapeXML escapes special characters for XML. Characters XML 1.0 does not
// allow at all (most C0 controls, surrogates, U+FFFE and U+FFFF) are dropped.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		if !isXMLChar(r) {
			continue
		}
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
