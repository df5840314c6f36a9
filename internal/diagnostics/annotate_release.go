//go:build !locdebug

package diagnostics

import "loctext/internal/substitute"

// Enabled is false outside locdebug builds.
const Enabled = false

// Highlight returns text unchanged outside locdebug builds.
func Highlight(text string) string {
	return text
}

// Annotate returns text unchanged outside locdebug builds.
func Annotate(text string, _ []substitute.Issue) string {
	return text
}
