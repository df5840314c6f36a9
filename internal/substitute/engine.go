package substitute

import (
	"fmt"
	"sort"
	"strings"

	"loctext/internal/color"
	"loctext/internal/markup"
)

// Output is the substituted text with its outcome.
type Output struct {
	Text   string
	Status Status
	Issues []Issue
	// ForceTextExpansion tells the display surface not to clip the text
	// because diagnostic tokens were written into it.
	ForceTextExpansion bool
}

// Engine replaces "[N]" and "{N}...{/N}" markers with caller supplied values.
type Engine struct {
	debug bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebug makes unresolved markers visible in the output instead of
// silently dropping them.
func WithDebug(debug bool) Option {
	return func(e *Engine) {
		e.debug = debug
	}
}

// New creates an Engine; the default is release behaviour.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Debug reports whether the engine writes diagnostic tokens.
func (e *Engine) Debug() bool {
	return e.debug
}

func missingSubstringToken(index int) string { return fmt.Sprintf("!MISSING[%d]!", index) }
func missingColorToken(index int) string     { return fmt.Sprintf("!MISSING{%d}!", index) }
func strayCloseToken(index int) string       { return fmt.Sprintf("!STRAY{/%d}!", index) }
func mismatchedCloseToken(index int) string  { return fmt.Sprintf("!MISMATCH{/%d}!", index) }

// Substitute fills template with substrings and colors. Nil and empty
// slices are equivalent: every marker referencing them is unresolved.
// Elements no marker references are ignored.
func (e *Engine) Substitute(template string, substrings []string, colors []color.Color) Output {
	if template == "" {
		return Output{Status: Success}
	}

	text, issues := e.substituteStrings(template, substrings)
	text, issues = e.substituteColors(text, issues, colors)

	out := Output{Text: text, Status: Success, Issues: issues}
	for _, is := range issues {
		out.Status = Worst(out.Status, is.Kind.Status())
		if is.End > is.Start {
			out.ForceTextExpansion = true
		}
	}
	return out
}

func (e *Engine) substituteStrings(template string, substrings []string) (string, []Issue) {
	markers := markup.ScanSubstringMarkers(template)
	if len(markers) == 0 {
		return template, nil
	}

	var sb strings.Builder
	sb.Grow(len(template))
	var issues []Issue

	pos := 0
	for _, m := range markers {
		sb.WriteString(template[pos:m.Start])
		pos = m.End

		if m.Index < len(substrings) {
			sb.WriteString(substrings[m.Index])
			continue
		}

		start := sb.Len()
		if e.debug {
			sb.WriteString(missingSubstringToken(m.Index))
		}
		issues = append(issues, Issue{Kind: MissingSubstring, Index: m.Index, Start: start, End: sb.Len()})
	}
	sb.WriteString(template[pos:])

	return sb.String(), issues
}

// edit replaces text[start:end] with repl. Zero-width edits are insertions.
type edit struct {
	start, end int
	repl       string
	issue      *IssueKind
	index      int
}

func (e *Engine) substituteColors(text string, prior []Issue, colors []color.Color) (string, []Issue) {
	markers := markup.ScanColorMarkers(text)
	if len(markers) == 0 {
		return text, prior
	}

	layout := markup.PairColorMarkers(markers, len(text))
	edits := make([]edit, 0, len(markers)+len(layout.Spans))

	for _, span := range layout.Spans {
		if span.Index < len(colors) {
			c := colors[span.Index]
			edits = append(edits, edit{start: span.Open.Start, end: span.Open.End, repl: c.OpenTag()})
			if span.Close != nil {
				edits = append(edits, edit{start: span.Close.Start, end: span.Close.End, repl: color.CloseTag})
			} else {
				edits = append(edits, edit{start: span.End, end: span.End, repl: color.CloseTag})
			}
			continue
		}

		edits = append(edits, e.problem(span.Open, MissingColor, missingColorToken))
		if span.Close != nil {
			edits = append(edits, edit{start: span.Close.Start, end: span.Close.End})
		}
	}

	for _, m := range layout.Duplicates {
		edits = append(edits, edit{start: m.Start, end: m.End})
	}
	for _, m := range layout.Dangling {
		edits = append(edits, e.problem(m, DanglingClose, strayCloseToken))
	}
	for _, m := range layout.Mismatched {
		edits = append(edits, e.problem(m, MismatchedClose, mismatchedCloseToken))
	}

	// Insertions sort ahead of a replacement starting at the same offset so an
	// implicit close lands before the open that caused it.
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].end-edits[i].start < edits[j].end-edits[j].start
	})

	var sb strings.Builder
	sb.Grow(len(text) + len(edits)*len("<color=#00000000>"))

	issues := make([]Issue, 0, len(prior))
	next := 0
	pos := 0
	segOut := 0

	// carry moves prior issues that sit before limit into output coordinates.
	carry := func(limit int) {
		for next < len(prior) && prior[next].Start <= limit {
			is := prior[next]
			width := is.End - is.Start
			if is.Start < pos {
				is.Start = segOut
			} else {
				is.Start = segOut + is.Start - pos
			}
			is.End = is.Start + width
			issues = append(issues, is)
			next++
		}
	}

	for _, ed := range edits {
		segOut = sb.Len()
		carry(ed.start)
		sb.WriteString(text[pos:ed.start])

		start := sb.Len()
		sb.WriteString(ed.repl)
		if ed.issue != nil {
			issues = append(issues, Issue{Kind: *ed.issue, Index: ed.index, Start: start, End: sb.Len()})
		}
		pos = ed.end
	}
	segOut = sb.Len()
	carry(len(text))
	sb.WriteString(text[pos:])

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Start < issues[j].Start })
	return sb.String(), issues
}

func (e *Engine) problem(m markup.ColorMarker, kind IssueKind, token func(int) string) edit {
	ed := edit{start: m.Start, end: m.End, issue: &kind, index: m.Index}
	if e.debug {
		ed.repl = token(m.Index)
	}
	return ed
}
