// Package langtag checks language codes used as locale file names.
// Both BCP 47 ("pt-BR") and Java style ("pt_BR") separators are accepted.
package langtag

import (
	"strings"

	"golang.org/x/text/language"
)

// Normalize trims the code and switches "_" separators to "-".
func Normalize(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
}

// Valid reports whether code parses as a well-formed language tag.
func Valid(code string) bool {
	code = Normalize(code)
	if code == "" {
		return false
	}
	_, err := language.Parse(code)
	return err == nil
}
