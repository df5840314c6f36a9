package parser

import (
	"errors"
	"strings"

	"loctext/internal/language"
	"loctext/internal/store"
	"loctext/internal/textutil"
)

// ErrNoLanguages is returned when a table file declares no language column or section.
var ErrNoLanguages = errors.New("table declares no languages")

// Table holds the templates read from one table file.
type Table struct {
	// FilePath is the absolute path to the parsed file.
	FilePath string
	// Format is the detected format (tsv, ini, yaml, json, toml).
	Format string
	// Entries are the templates per language, in file order.
	Entries map[language.Language][]store.Entry
}

// Parser is the interface for all table file parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse reads the templates of a table file.
	Parse(filePath string) (*Table, error)
}

func newTable(filePath, format string) *Table {
	return &Table{
		FilePath: filePath,
		Format:   format,
		Entries:  make(map[language.Language][]store.Entry),
	}
}

func (t *Table) add(lang language.Language, identifier, text string) {
	t.Entries[lang] = append(t.Entries[lang], store.Entry{
		Key:        store.Key(textutil.KeyOf(identifier)),
		Identifier: identifier,
		Text:       text,
	})
}

// Count returns the number of templates across all languages.
func (t *Table) Count() int {
	n := 0
	for _, entries := range t.Entries {
		n += len(entries)
	}
	return n
}

// Merge concatenates the entries of tables per language. Later tables come
// after earlier ones, so they win when the store loads duplicates.
func Merge(tables []*Table) map[language.Language][]store.Entry {
	merged := make(map[language.Language][]store.Entry)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for lang, entries := range t.Entries {
			merged[lang] = append(merged[lang], entries...)
		}
	}
	return merged
}

var cellUnescaper = strings.NewReplacer(`\\`, `\`, `\t`, "\t", `\n`, "\n", `\r`, "\r")

// unescapeCell turns the escaped control characters of a single-line cell
// back into real ones.
func unescapeCell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return cellUnescaper.Replace(s)
}
