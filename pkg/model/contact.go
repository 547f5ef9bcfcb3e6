// pkg/model/contact.go
package model

// Canonical contact fields
const (
	FieldFullName            = "full_name"
	FieldFirstName           = "first_name"
	FieldLastName            = "last_name"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldLastCleanDate       = "last_clean_date"
	FieldCleanType           = "clean_type"
	FieldInvoiceAmountBrutto = "invoice_amount_brutto"
)

// PreferredOrder is the leading column order of a cleaned contact table.
// Any other canonical columns follow it.
var PreferredOrder = []string{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldLastCleanDate,
	FieldCleanType,
	FieldInvoiceAmountBrutto,
}

// canonicalFields lists every canonical field in declaration order
var canonicalFields = []string{
	FieldFullName,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldLastCleanDate,
	FieldCleanType,
	FieldInvoiceAmountBrutto,
}

// CanonicalFields returns all canonical field names in declaration order
func CanonicalFields() []string {
	out := make([]string, len(canonicalFields))
	copy(out, canonicalFields)
	return out
}

// IsCanonicalField reports whether name is a known canonical field
func IsCanonicalField(name string) bool {
	for _, f := range canonicalFields {
		if f == name {
			return true
		}
	}
	return false
}
