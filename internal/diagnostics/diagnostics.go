// Package diagnostics makes substitution failures visible to developers.
// It is only active in binaries built with the locdebug tag; release builds
// get the no-op variant and the Enabled constant lets callers compile the
// whole branch away.
package diagnostics

import (
	"fmt"
	"strings"

	"loctext/internal/substitute"
)

// Describe renders issues as a compact, log friendly list.
func Describe(issues []substitute.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(issues))
	for _, is := range issues {
		parts = append(parts, fmt.Sprintf("%s#%d", is.Kind, is.Index))
	}
	return strings.Join(parts, ", ")
}

// Indices returns the marker index of every issue, in order.
func Indices(issues []substitute.Issue) []int {
	out := make([]int, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Index)
	}
	return out
}
