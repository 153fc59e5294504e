package helpers

import (
	"strconv"
	"strings"
)

// FormatThousands renders a monetary value as a comma-grouped integer string,
// e.g. 4148 -> "4,148". Fractions are truncated, not rounded.
func FormatThousands(value float64) string {
	n := int64(value)
	neg := n < 0
	if neg {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteRune(',')
		}
		sb.WriteRune(d)
	}

	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// Snippet keeps the first max runes of s and appends an ellipsis marker.
func Snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + "..."
}

// LastRunes returns the trailing n runes of s, or all of s when shorter.
func LastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
