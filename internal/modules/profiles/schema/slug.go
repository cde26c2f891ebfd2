package schema

import (
	"strings"
	"unicode"
)

// Slugify derives a deterministic id from an admin-chosen label:
// "Personal Info" -> "personal-info".
func Slugify(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
