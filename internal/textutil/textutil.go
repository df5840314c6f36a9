package textutil

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// KeyOf derives the stable template key for a table identifier. Identifiers
// made only of decimal digits are authoring-tool assigned ids and are used
// as-is; anything else is hashed.
func KeyOf(identifier string) uint64 {
	identifier = strings.TrimSpace(identifier)
	if isDigits(identifier) {
		if n, err := strconv.ParseUint(identifier, 10, 64); err == nil {
			return n
		}
	}
	return xxhash.Sum64String(identifier)
}

// IsASCII reports whether s holds only single-byte characters.
func IsASCII(s string) bool {
	return len(s) == utf8.RuneCountInString(s)
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
// A negative maxLen is treated as zero.
func Truncate(s string, maxLen int) string {
	maxLen = max(maxLen, 0)
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
