// Package extract guesses invoice metadata from an uploaded file's name.
// It is a deterministic stand-in for a real extraction model: every rule
// is a string check over the tokens of the base name.
package extract

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Result holds the guessed invoice fields.
type Result struct {
	VendorName    string
	InvoiceNumber string
	Date          string
	TotalAmount   float64
}

// FromFileName derives invoice fields from a file name. The caller passes
// the current time so defaults (invoice number, date) are reproducible.
//
// The base name, extension stripped, is tokenized on "_" and "-" (date-shaped
// parts like 2024-03-01 survive as one token). Left to right, last match wins:
// a non-negative decimal token overrides the amount, an alphabetic token of
// three or more letters overrides the vendor (capitalized), and a date-shaped
// token overrides the date verbatim with no calendar validity check.
func FromFileName(name string, now time.Time) Result {
	res := Result{
		VendorName:    "Acme Corp",
		InvoiceNumber: fmt.Sprintf("INV-%d", now.Unix()),
		Date:          now.Format("2006-01-02"),
		TotalAmount:   199.0,
	}

	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, tok := range tokenize(base) {
		if isDecimal(tok) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				res.TotalAmount = v
			}
		}
		if isAlpha(tok) && len([]rune(tok)) >= 3 {
			res.VendorName = capitalize(tok)
		}
		if isDateShaped(tok) {
			res.Date = tok
		}
	}
	return res
}

// tokenize splits on "_" first so that date-shaped parts keep their
// hyphens, then splits the remaining parts on "-".
func tokenize(base string) []string {
	var tokens []string
	for _, part := range strings.Split(base, "_") {
		if isDateShaped(part) {
			tokens = append(tokens, part)
			continue
		}
		tokens = append(tokens, strings.Split(part, "-")...)
	}
	return tokens
}

// isDateShaped reports the YYYY-MM-DD shape: ten characters with hyphens
// at index 4 and 7. Content between the hyphens is not validated.
func isDateShaped(tok string) bool {
	return len(tok) == 10 && tok[4] == '-' && tok[7] == '-'
}

// isDecimal accepts digits with at most one decimal point. No sign, so
// negative amounts never match.
func isDecimal(tok string) bool {
	digits, dots := 0, 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func isAlpha(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(tok string) string {
	runes := []rune(strings.ToLower(tok))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
