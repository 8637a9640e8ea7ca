package xmlwriter

import (
	"bytes"
	"fmt"
	"strings"
)

// =============================================================================
// XSD GENERATION
// =============================================================================

// xsdTypes maps each Transaction child to its XSD type.
var xsdTypes = map[string]string{
	"Status":     "StatusType",
	"Date":       "xs:date",
	"Amount":     "AmountType",
	"Type":       "TxnTypeType",
	"MerchantId": "xs:string",
	"Network":    "xs:nonNegativeInteger",
	"Category":   "xs:string",
}

// GenerateXSD describes the report contract as an XML Schema, so that
// downstream consumers can validate report.xml.
func GenerateXSD() ([]byte, error) {
	var buffer bytes.Buffer

	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
`)

	fmt.Fprintf(&buffer, `  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="%s" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="%s" type="xs:gYearMonth" use="required"/>
      <xs:attribute name="%s" type="xs:dateTime" use="required"/>
    </xs:complexType>
  </xs:element>

`, RootElement, TransactionElement, MonthAttribute, GeneratedAtAttribute)

	fmt.Fprintf(&buffer, `  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
`, TransactionElement)

	indent := strings.Repeat("  ", 4)
	for _, field := range transactionFields {
		fmt.Fprintf(&buffer, "%s<xs:element name=\"%s\" type=\"%s\"/>\n", indent, field, xsdTypes[field])
	}

	fmt.Fprintf(&buffer, `      </xs:sequence>
      <xs:attribute name="%s" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>

`, IDAttribute)

	buffer.WriteString(`  <xs:simpleType name="StatusType">
    <xs:restriction base="xs:string">
`)
	for _, s := range []string{"approved", "chargeback", "reversed", "refunded", "pending", "declined", "unknown"} {
		fmt.Fprintf(&buffer, "      <xs:enumeration value=\"%s\"/>\n", s)
	}
	buffer.WriteString(`    </xs:restriction>
  </xs:simpleType>

  <xs:simpleType name="TxnTypeType">
    <xs:restriction base="xs:string">
      <xs:enumeration value="DEBIT"/>
      <xs:enumeration value="CREDIT"/>
    </xs:restriction>
  </xs:simpleType>

`)

	fmt.Fprintf(&buffer, `  <xs:complexType name="AmountType">
    <xs:simpleContent>
      <xs:extension base="xs:decimal">
        <xs:attribute name="%s" type="xs:string" use="required"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>

</xs:schema>
`, CurrencyAttribute)

	return buffer.Bytes(), nil
}
