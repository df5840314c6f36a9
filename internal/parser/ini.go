package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"loctext/internal/language"
)

// INIParser reads tables with one section per language:
//
//	[Japanese]
//	menu.start = スタート
type INIParser struct{}

func NewINIParser() *INIParser { return &INIParser{} }

func (p *INIParser) CanParse(ext string) bool {
	return ext == ".ini"
}

func (p *INIParser) Parse(filePath string) (*Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open ini file: %w", err)
	}
	defer file.Close()

	table := newTable(filePath, "ini")

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	var current *language.Language
	sections := 0

	for scanner.Scan() {
		lineNum++
		trimmed := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Section header.
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			lang, err := language.Parse(trimmed[1 : len(trimmed)-1])
			if err != nil {
				return nil, fmt.Errorf("parse %s line %d: %w", filePath, lineNum, err)
			}
			current = &lang
			sections++
			continue
		}

		eqIdx := strings.Index(trimmed, "=")
		if eqIdx < 0 {
			return nil, fmt.Errorf("parse %s line %d: expected identifier = text", filePath, lineNum)
		}
		if current == nil {
			return nil, fmt.Errorf("parse %s line %d: entry outside a language section", filePath, lineNum)
		}

		key := strings.TrimSpace(trimmed[:eqIdx])
		value := strings.TrimSpace(trimmed[eqIdx+1:])
		if key == "" || value == "" {
			continue
		}

		table.add(*current, key, unescapeCell(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ini file: %w", err)
	}

	if sections == 0 {
		return nil, fmt.Errorf("parse %s: %w", filePath, ErrNoLanguages)
	}

	return table, nil
}
