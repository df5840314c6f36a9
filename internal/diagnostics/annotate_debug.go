//go:build locdebug

package diagnostics

import (
	"sort"
	"strings"

	"loctext/internal/substitute"
)

// Enabled is true in locdebug builds.
const Enabled = true

const (
	highlightOpen  = "<color=#FF00FFFF><b>"
	highlightClose = "</b></color>"
	// emptyMarker stands in for spans that produced no text.
	emptyMarker = "‸"
)

// Highlight wraps all of text in the highlight used for issue spans.
func Highlight(text string) string {
	if text == "" {
		return highlightOpen + emptyMarker + highlightClose
	}
	return highlightOpen + text + highlightClose
}

// Annotate wraps every issue span of text in a conspicuous highlight so the
// failure is obvious on screen.
func Annotate(text string, issues []substitute.Issue) string {
	if len(issues) == 0 {
		return text
	}

	sorted := make([]substitute.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var sb strings.Builder
	sb.Grow(len(text) + len(sorted)*(len(highlightOpen)+len(highlightClose)))

	pos := 0
	for _, is := range sorted {
		if is.Start < pos || is.End > len(text) || is.Start > is.End {
			continue
		}
		sb.WriteString(text[pos:is.Start])
		sb.WriteString(highlightOpen)
		if is.End == is.Start {
			sb.WriteString(emptyMarker)
		} else {
			sb.WriteString(text[is.Start:is.End])
		}
		sb.WriteString(highlightClose)
		pos = is.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}
