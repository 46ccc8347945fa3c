package facematch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel trims a student label, collapses inner whitespace and
// converts it to NFC so visually equal names compare equal.
func NormalizeLabel(label string) string {
	label = norm.NFC.String(label)
	return strings.Join(strings.Fields(label), " ")
}
