package validate

import (
	"fmt"
	"sort"
	"strings"

	"loctext/internal/language"
	"loctext/internal/markup"
	"loctext/internal/store"
)

// ProblemKind classifies a lint finding.
type ProblemKind int

const (
	InvalidCharacters ProblemKind = iota
	PlaceholderMismatch
	MalformedColors
	MissingReference
)

func (k ProblemKind) String() string {
	switch k {
	case InvalidCharacters:
		return "invalid_characters"
	case PlaceholderMismatch:
		return "placeholder_mismatch"
	case MalformedColors:
		return "malformed_colors"
	case MissingReference:
		return "missing_reference"
	default:
		return fmt.Sprintf("ProblemKind(%d)", int(k))
	}
}

// Problem is one authoring defect in a template.
type Problem struct {
	Language   language.Language
	Key        store.Key
	Identifier string
	Kind       ProblemKind
	Detail     string
}

func (p Problem) String() string {
	id := p.Identifier
	if id == "" {
		id = fmt.Sprintf("%d", uint64(p.Key))
	}
	return fmt.Sprintf("%s %s: %s: %s", p.Language, id, p.Kind, p.Detail)
}

// Placeholders is the set of marker indices a template uses.
type Placeholders struct {
	Substrings []int
	Colors     []int
}

// PlaceholdersOf returns the sorted distinct substring and color indices of text.
func PlaceholdersOf(text string) Placeholders {
	var p Placeholders
	subs := make(map[int]bool)
	for _, m := range markup.ScanSubstringMarkers(text) {
		subs[m.Index] = true
	}
	cols := make(map[int]bool)
	for _, m := range markup.ScanColorMarkers(text) {
		if m.Open {
			cols[m.Index] = true
		}
	}
	p.Substrings = sortedKeys(subs)
	p.Colors = sortedKeys(cols)
	return p
}

func sortedKeys(m map[int]bool) []int {
	if len(m) == 0 {
		return nil
	}
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func (p Placeholders) equal(o Placeholders) bool {
	return intsEqual(p.Substrings, o.Substrings) && intsEqual(p.Colors, o.Colors)
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p Placeholders) String() string {
	return fmt.Sprintf("substrings=%v colors=%v", p.Substrings, p.Colors)
}

// Template checks a single template on its own: characters and color markup.
func Template(lang language.Language, e store.Entry) []Problem {
	var problems []Problem

	if bad := InvalidRunes(lang, e.Text); len(bad) > 0 {
		quoted := make([]string, len(bad))
		for i, r := range bad {
			quoted[i] = fmt.Sprintf("%q", r)
		}
		problems = append(problems, Problem{
			Language: lang, Key: e.Key, Identifier: e.Identifier,
			Kind:   InvalidCharacters,
			Detail: strings.Join(quoted, " "),
		})
	}

	layout := markup.PairColorMarkers(markup.ScanColorMarkers(e.Text), len(e.Text))
	if layout.Degenerate() {
		problems = append(problems, Problem{
			Language: lang, Key: e.Key, Identifier: e.Identifier,
			Kind:   MalformedColors,
			Detail: fmt.Sprintf("%d dangling, %d mismatched close markers", len(layout.Dangling), len(layout.Mismatched)),
		})
	}

	return problems
}

// Language lints the entries of lang against the reference table. A nil
// reference skips the placeholder comparison.
func Language(lang language.Language, entries []store.Entry, reference map[store.Key]string) []Problem {
	var problems []Problem
	for _, e := range entries {
		problems = append(problems, Template(lang, e)...)
		if reference == nil {
			continue
		}

		refText, ok := reference[e.Key]
		if !ok {
			problems = append(problems, Problem{
				Language: lang, Key: e.Key, Identifier: e.Identifier,
				Kind:   MissingReference,
				Detail: "no reference template",
			})
			continue
		}

		want, got := PlaceholdersOf(refText), PlaceholdersOf(e.Text)
		if !want.equal(got) {
			problems = append(problems, Problem{
				Language: lang, Key: e.Key, Identifier: e.Identifier,
				Kind:   PlaceholderMismatch,
				Detail: fmt.Sprintf("want %s, got %s", want, got),
			})
		}
	}
	return problems
}

// ReferenceTable indexes entries by key, last entry winning.
func ReferenceTable(entries []store.Entry) map[store.Key]string {
	ref := make(map[store.Key]string, len(entries))
	for _, e := range entries {
		ref[e.Key] = e.Text
	}
	return ref
}

// Linter checks a set of language tables against one reference language.
// Check is safe to call from several goroutines.
type Linter struct {
	tables    map[language.Language][]store.Entry
	reference language.Language
	ref       map[store.Key]string
}

// NewLinter indexes the reference table of tables.
func NewLinter(tables map[language.Language][]store.Entry, reference language.Language) *Linter {
	l := &Linter{tables: tables, reference: reference}
	if entries, ok := tables[reference]; ok {
		l.ref = ReferenceTable(entries)
	}
	return l
}

// HasReference reports whether the reference language has a table.
func (l *Linter) HasReference() bool {
	return l.ref != nil
}

// Languages returns the languages with a table, in enum order.
func (l *Linter) Languages() []language.Language {
	langs := make([]language.Language, 0, len(l.tables))
	for lang := range l.tables {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Check lints one language. The reference language is only checked on its own.
func (l *Linter) Check(lang language.Language) []Problem {
	ref := l.ref
	if lang == l.reference {
		ref = nil
	}
	return Language(lang, l.tables[lang], ref)
}

// Lint checks every language in tables against the reference language.
// Problems are ordered by language, then by entry order.
func Lint(tables map[language.Language][]store.Entry, reference language.Language) []Problem {
	l := NewLinter(tables, reference)
	var problems []Problem
	for _, lang := range l.Languages() {
		problems = append(problems, l.Check(lang)...)
	}
	return problems
}
