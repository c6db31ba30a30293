package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Zero-padded width of the numeric part of a product code.
const (
	ItemCodeWidth = 3 // LR-001
	SetCodeWidth  = 2 // LR-01
)

var roomInitials = map[string]string{
	"Living Room": "L",
	"Dining Room": "D",
	"Bedroom":     "B",
	"Office":      "O",
	"Showpieces":  "S",
}

var styleInitials = map[string]string{
	"Royal":       "R",
	"Traditional": "T",
	"Modern":      "M",
}

// CodePrefix returns the code prefix for a room/style pair, e.g. "LR-".
// Unknown rooms or styles map to "X".
func CodePrefix(room, style string) string {
	r, ok := roomInitials[room]
	if !ok {
		r = "X"
	}
	s, ok := styleInitials[style]
	if !ok {
		s = "X"
	}
	return r + s + "-"
}

// FormatCode renders prefix plus n zero-padded to width.
func FormatCode(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// CodeNumber extracts the numeric suffix of code when it carries prefix.
func CodeNumber(prefix, code string) (int, bool) {
	rest, ok := strings.CutPrefix(code, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Slugify joins parts into a lower-case, hyphen separated URL slug.
func Slugify(parts ...string) string {
	var b strings.Builder
	dash := false
	for _, part := range parts {
		for _, r := range strings.ToLower(part) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				if dash && b.Len() > 0 {
					b.WriteByte('-')
				}
				b.WriteRune(r)
				dash = false
				continue
			}
			dash = true
		}
		dash = true
	}
	return b.String()
}
