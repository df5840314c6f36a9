// Package markup finds the placeholders a template can carry: substring
// markers "[N]" and color markers "{N}" / "{/N}".
package markup

import (
	"math"
	"regexp"
	"strconv"
)

var (
	substringPattern = regexp.MustCompile(`\[([0-9]+)\]`)
	colorPattern     = regexp.MustCompile(`\{(/?)([0-9]+)\}`)
)

// SubstringMarker is one "[N]" occurrence; Start/End are byte offsets.
type SubstringMarker struct {
	Index int
	Start int
	End   int
}

// ColorMarker is one "{N}" (Open) or "{/N}" occurrence.
type ColorMarker struct {
	Index int
	Open  bool
	Start int
	End   int
}

// ScanSubstringMarkers returns every "[N]" in text, left to right.
func ScanSubstringMarkers(text string) []SubstringMarker {
	locs := substringPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]SubstringMarker, 0, len(locs))
	for _, loc := range locs {
		out = append(out, SubstringMarker{
			Index: parseIndex(text[loc[2]:loc[3]]),
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

// ScanColorMarkers returns every "{N}" and "{/N}" in text, left to right.
func ScanColorMarkers(text string) []ColorMarker {
	locs := colorPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]ColorMarker, 0, len(locs))
	for _, loc := range locs {
		out = append(out, ColorMarker{
			Index: parseIndex(text[loc[4]:loc[5]]),
			Open:  loc[3] == loc[2],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

// parseIndex reads an ASCII digit run. Runs too long for an int map to
// math.MaxInt so no substitution array can ever satisfy them.
func parseIndex(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}
