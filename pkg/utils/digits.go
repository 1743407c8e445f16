package utils

import "strings"

// NormalizeDigits maps Persian and Arabic-Indic digit glyphs to their
// ASCII equivalents so numbers typed from localized keyboards parse.
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹': // Persian
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩': // Arabic-Indic
			b.WriteRune('0' + (r - '٠'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanNumber normalizes digit glyphs and strips the separators people
// type into amounts (commas, Arabic thousands separator, spaces).
func CleanNumber(s string) string {
	s = NormalizeDigits(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '٬', ' ', ' ':
			return -1
		}
		return r
	}, s)
}
