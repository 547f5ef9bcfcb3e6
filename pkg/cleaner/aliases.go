// pkg/cleaner/aliases.go
package cleaner

import "github.com/David-Botos/contact-cleaner/pkg/model"

// AliasEntry lists the known source headers for one canonical field.
// Alias order matters: the first alias found in the input wins.
type AliasEntry struct {
	Field   string
	Aliases []string
}

var aliasDictionary = []AliasEntry{
	{model.FieldFullName, []string{"full name", "name", "contact name", "customer name"}},
	{model.FieldFirstName, []string{"first name", "firstname", "given name"}},
	{model.FieldLastName, []string{"last name", "lastname", "surname", "family name"}},
	{model.FieldEmail, []string{"email", "e-mail", "email address"}},
	{model.FieldPhone, []string{"phone", "telephone", "mobile"}},
	{model.FieldLastCleanDate, []string{"last clean date", "last_clean_date", "last service date", "service date", "date"}},
	{model.FieldCleanType, []string{"clean type", "service", "service type", "type"}},
	{model.FieldInvoiceAmountBrutto, []string{
		"invoice amount (brutto)",
		"invoice amount brutto",
		"brutto",
		"gross",
		"invoice amount",
		"amount",
	}},
}

// normalizedAliases mirrors aliasDictionary with every alias already normalized
var normalizedAliases = normalizeAliases(aliasDictionary)

func normalizeAliases(entries []AliasEntry) []AliasEntry {
	out := make([]AliasEntry, len(entries))
	for i, e := range entries {
		aliases := make([]string, len(e.Aliases))
		for j, a := range e.Aliases {
			aliases[j] = NormalizeHeader(a)
		}
		out[i] = AliasEntry{Field: e.Field, Aliases: aliases}
	}
	return out
}

// Aliases returns a copy of the alias dictionary in declaration order
func Aliases() []AliasEntry {
	out := make([]AliasEntry, len(aliasDictionary))
	for i, e := range aliasDictionary {
		aliases := make([]string, len(e.Aliases))
		copy(aliases, e.Aliases)
		out[i] = AliasEntry{Field: e.Field, Aliases: aliases}
	}
	return out
}
