package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"loctext/internal/language"
	"loctext/internal/store"
	"loctext/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS loc_templates (
	key        BIGINT NOT NULL,
	language   TEXT   NOT NULL,
	identifier TEXT   NOT NULL DEFAULT '',
	template   TEXT   NOT NULL,
	PRIMARY KEY (key, language)
)`

const upsertTemplate = `
INSERT INTO loc_templates (key, language, identifier, template)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key, language) DO UPDATE
SET identifier = EXCLUDED.identifier, template = EXCLUDED.template`

const selectLanguage = `
SELECT key, identifier, template FROM loc_templates
WHERE language = $1
ORDER BY identifier, key`

const selectLanguages = `SELECT DISTINCT language FROM loc_templates`

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var _ DB = (*pgxpool.Pool)(nil)

// DefaultBatchSize is the number of upserts sent per round trip.
const DefaultBatchSize = 500

// TableStore persists template tables in PostgreSQL.
type TableStore struct {
	db        DB
	batchSize int
}

// NewTableStore creates a table store on db.
func NewTableStore(db DB) *TableStore {
	return &TableStore{db: db, batchSize: DefaultBatchSize}
}

// EnsureSchema creates the template table if it does not exist.
func (ts *TableStore) EnsureSchema(ctx context.Context) error {
	if _, err := ts.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create loc_templates: %w", err)
	}
	return nil
}

// Upsert writes entries for lang in batches of at most DefaultBatchSize.
// Keys are stored as their signed 64-bit bit pattern.
func (ts *TableStore) Upsert(ctx context.Context, lang language.Language, entries []store.Entry) (int, error) {
	written := 0
	for _, chunk := range worker.Batch(entries, ts.batchSize) {
		n, err := ts.upsertBatch(ctx, lang, chunk)
		written += n
		if err != nil {
			return written, err
		}
	}

	if written > 0 {
		log.Info().Str("language", lang.String()).Int("written", written).Msg("Upserted templates")
	}
	return written, nil
}

func (ts *TableStore) upsertBatch(ctx context.Context, lang language.Language, entries []store.Entry) (int, error) {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertTemplate, int64(e.Key), lang.String(), e.Identifier, e.Text)
	}

	br := ts.db.SendBatch(ctx, batch)
	defer br.Close()

	written := 0
	for range entries {
		tag, err := br.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert template: %w", err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

// LoadLanguage reads every template stored for lang.
func (ts *TableStore) LoadLanguage(ctx context.Context, lang language.Language) ([]store.Entry, error) {
	rows, err := ts.db.Query(ctx, selectLanguage, lang.String())
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var (
			key int64
			e   store.Entry
		)
		if err := rows.Scan(&key, &e.Identifier, &e.Text); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		e.Key = store.Key(uint64(key))
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return entries, nil
}

// Languages returns the languages with at least one stored template.
// Unknown language names in the table are skipped with a warning.
func (ts *TableStore) Languages(ctx context.Context) ([]language.Language, error) {
	rows, err := ts.db.Query(ctx, selectLanguages)
	if err != nil {
		return nil, fmt.Errorf("query languages: %w", err)
	}
	defer rows.Close()

	var langs []language.Language
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		l, err := language.Parse(name)
		if err != nil {
			log.Warn().Str("language", name).Msg("Skipping unknown language in loc_templates")
			continue
		}
		langs = append(langs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read languages: %w", err)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs, nil
}

// LoadAll reads every stored language.
func (ts *TableStore) LoadAll(ctx context.Context) (map[language.Language][]store.Entry, error) {
	langs, err := ts.Languages(ctx)
	if err != nil {
		return nil, err
	}
	tables := make(map[language.Language][]store.Entry, len(langs))
	for _, l := range langs {
		entries, err := ts.LoadLanguage(ctx, l)
		if err != nil {
			return nil, err
		}
		tables[l] = entries
	}
	return tables, nil
}

// ExportTSV writes all stored templates to a TSV file with one column per language.
func (ts *TableStore) ExportTSV(ctx context.Context, outputPath string) error {
	tables, err := ts.LoadAll(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer f.Close()

	if err := WriteTSV(f, tables); err != nil {
		return err
	}

	log.Info().Str("path", outputPath).Int("languages", len(tables)).Msg("Exported templates to TSV")
	return nil
}

// ExportJSON writes all stored templates to a JSON file shaped
// language → identifier → template.
func (ts *TableStore) ExportJSON(ctx context.Context, outputPath string) error {
	tables, err := ts.LoadAll(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, tables); err != nil {
		return err
	}

	log.Info().Str("path", outputPath).Int("languages", len(tables)).Msg("Exported templates to JSON")
	return nil
}

// WriteTSV renders tables in the TSV layout the table loader reads back.
func WriteTSV(w io.Writer, tables map[language.Language][]store.Entry) error {
	langs := sortedLanguages(tables)
	ids, cells := pivot(tables)

	header := make([]string, 0, len(langs)+1)
	header = append(header, "key")
	for _, l := range langs {
		header = append(header, l.String())
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("write TSV header: %w", err)
	}

	row := make([]string, len(langs)+1)
	for _, id := range ids {
		row[0] = escapeTSV(id)
		for i, l := range langs {
			row[i+1] = escapeTSV(cells[id][l])
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("write TSV row: %w", err)
		}
	}
	return nil
}

// WriteJSON renders tables as language → identifier → template.
func WriteJSON(w io.Writer, tables map[language.Language][]store.Entry) error {
	out := make(map[string]map[string]string, len(tables))
	for l, entries := range tables {
		m := make(map[string]string, len(entries))
		for _, e := range entries {
			m[identifierOf(e)] = e.Text
		}
		out[l.String()] = m
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func sortedLanguages(tables map[language.Language][]store.Entry) []language.Language {
	langs := make([]language.Language, 0, len(tables))
	for l := range tables {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

func pivot(tables map[language.Language][]store.Entry) ([]string, map[string]map[language.Language]string) {
	cells := make(map[string]map[language.Language]string)
	for l, entries := range tables {
		for _, e := range entries {
			id := identifierOf(e)
			if cells[id] == nil {
				cells[id] = make(map[language.Language]string)
			}
			cells[id][l] = e.Text
		}
	}
	ids := make([]string, 0, len(cells))
	for id := range cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, cells
}

// identifierOf falls back to the numeric key, which loads back to the same key.
func identifierOf(e store.Entry) string {
	if e.Identifier != "" {
		return e.Identifier
	}
	return fmt.Sprintf("%d", uint64(e.Key))
}

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	return tsvEscaper.Replace(s)
}
