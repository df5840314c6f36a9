package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"loctext/internal/language"

	"github.com/rs/zerolog/log"
)

// TSVParser reads tab-separated tables: a header row naming one language per
// column after the identifier column, then one row per identifier.
type TSVParser struct{}

func NewTSVParser() *TSVParser { return &TSVParser{} }

func (p *TSVParser) CanParse(ext string) bool {
	return ext == ".tsv" || ext == ".txt"
}

func (p *TSVParser) Parse(filePath string) (*Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open tsv file: %w", err)
	}
	defer file.Close()

	var rawLines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4*1024*1024), 4*1024*1024)
	for scanner.Scan() {
		rawLines = append(rawLines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan tsv file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(filePath), ".txt") && !detectTSV(rawLines) {
		return nil, fmt.Errorf("parse %s: not a tab-separated table", filePath)
	}

	return parseTSVLines(filePath, rawLines)
}

func parseTSVLines(filePath string, lines []string) (*Table, error) {
	table := newTable(filePath, "tsv")

	var columns []*language.Language
	for lineNum, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")

		if columns == nil {
			columns = headerLanguages(cols, filePath)
			if len(columns) == 0 {
				return nil, fmt.Errorf("parse %s header: %w", filePath, ErrNoLanguages)
			}
			continue
		}

		id := strings.TrimSpace(cols[0])
		if id == "" {
			log.Debug().Str("file", filePath).Int("line", lineNum+1).Msg("Skipping row without identifier")
			continue
		}

		for colIdx := 1; colIdx < len(cols) && colIdx <= len(columns); colIdx++ {
			lang := columns[colIdx-1]
			if lang == nil || cols[colIdx] == "" {
				continue
			}
			table.add(*lang, id, unescapeCell(cols[colIdx]))
		}
	}

	if columns == nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, ErrNoLanguages)
	}

	return table, nil
}

// headerLanguages maps header cells after the identifier column to languages.
// Columns that name no language (notes, context) map to nil and are ignored.
// The result is empty when no column names a language.
func headerLanguages(cols []string, filePath string) []*language.Language {
	out := make([]*language.Language, len(cols)-1)
	found := false
	for i, name := range cols[1:] {
		lang, err := language.Parse(name)
		if err != nil {
			log.Debug().Str("file", filePath).Str("column", name).Msg("Ignoring non-language column")
			continue
		}
		out[i] = &lang
		found = true
	}
	if !found {
		return nil
	}
	return out
}

// detectTSV checks if the file has consistent tab-separated columns.
func detectTSV(lines []string) bool {
	if len(lines) < 2 {
		return false
	}

	tabCounts := make(map[int]int)
	sampleSize := min(len(lines), 20)
	nonEmptyLines := 0

	for i := 0; i < sampleSize; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		nonEmptyLines++
		count := strings.Count(line, "\t")
		if count > 0 {
			tabCounts[count]++
		}
	}

	if nonEmptyLines == 0 {
		return false
	}

	maxCount := 0
	for _, c := range tabCounts {
		if c > maxCount {
			maxCount = c
		}
	}

	// If >60% of non-empty lines share the same tab count, it's TSV.
	return float64(maxCount)/float64(nonEmptyLines) > 0.6
}
