package store

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"loctext/internal/language"

	"github.com/rs/zerolog/log"
)

// Key is the stable identifier of one localizable string across all languages.
type Key uint64

// Entry is one raw template for a language table.
type Entry struct {
	Key Key
	// Identifier is the authoring name the key was derived from, if known.
	Identifier string
	Text       string
}

// Duplicate records a key that appeared more than once in a single load.
type Duplicate struct {
	Key        Key
	Identifier string
	Count      int
}

// Name returns the identifier, or the decimal key when none was loaded.
func (d Duplicate) Name() string {
	if d.Identifier != "" {
		return d.Identifier
	}
	return strconv.FormatUint(uint64(d.Key), 10)
}

// LoadReport summarises one Load call.
type LoadReport struct {
	Language   language.Language
	Entries    int
	Duplicates []Duplicate
}

type table map[Key]string

type snapshot map[language.Language]table

// Store holds one read-only template table per language. Load swaps in a
// freshly built table so readers never observe a partially written one.
type Store struct {
	mu      sync.Mutex // serialises writers
	current atomic.Pointer[snapshot]
}

// New creates an empty store.
func New() *Store {
	s := &Store{}
	empty := make(snapshot)
	s.current.Store(&empty)
	return s
}

// Load replaces the table for lang with entries. Later entries win over
// earlier ones with the same key; duplicates are reported, not fatal.
func (s *Store) Load(lang language.Language, entries []Entry) LoadReport {
	t := make(table, len(entries))
	seen := make(map[Key]*Duplicate)
	var order []Key

	for _, e := range entries {
		if _, ok := t[e.Key]; ok {
			d, tracked := seen[e.Key]
			if !tracked {
				d = &Duplicate{Key: e.Key, Identifier: e.Identifier, Count: 1}
				seen[e.Key] = d
				order = append(order, e.Key)
			}
			d.Count++
			if e.Identifier != "" {
				d.Identifier = e.Identifier
			}
		}
		t[e.Key] = e.Text
	}

	s.mu.Lock()
	prev := *s.current.Load()
	next := make(snapshot, len(prev)+1)
	for l, tbl := range prev {
		next[l] = tbl
	}
	next[lang] = t
	s.current.Store(&next)
	s.mu.Unlock()

	report := LoadReport{Language: lang, Entries: len(t)}
	for _, k := range order {
		report.Duplicates = append(report.Duplicates, *seen[k])
	}

	if len(report.Duplicates) > 0 {
		ids := make([]string, 0, len(report.Duplicates))
		for _, d := range report.Duplicates {
			ids = append(ids, d.Name())
		}
		log.Warn().
			Str("language", lang.String()).
			Int("duplicates", len(report.Duplicates)).
			Strs("identifiers", ids).
			Msg("Duplicate keys in template load, last entry wins")
	}

	return report
}

// Lookup returns the raw template for key in lang.
func (s *Store) Lookup(key Key, lang language.Language) (string, bool) {
	snap := s.current.Load()
	if snap == nil {
		return "", false
	}
	t, ok := (*snap)[lang]
	if !ok {
		return "", false
	}
	text, ok := t[key]
	return text, ok
}

// Languages returns the languages that have a table, in enum order.
func (s *Store) Languages() []language.Language {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	out := make([]language.Language, 0, len(*snap))
	for l := range *snap {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of templates loaded for lang.
func (s *Store) Len(lang language.Language) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len((*snap)[lang])
}
