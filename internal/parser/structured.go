package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"loctext/internal/language"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// StructuredParser reads YAML, JSON and TOML tables shaped as
// language -> identifier -> template.
type StructuredParser struct{}

func NewStructuredParser() *StructuredParser { return &StructuredParser{} }

func (p *StructuredParser) CanParse(ext string) bool {
	switch ext {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

func (p *StructuredParser) Parse(filePath string) (*Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	raw := make(map[string]map[string]string)
	var format string

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		format = "yaml"
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		format = "json"
		err = json.Unmarshal(data, &raw)
	case ".toml":
		format = "toml"
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("parse %s: unsupported extension %s", filePath, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("parse %s: %w", filePath, ErrNoLanguages)
	}

	table := newTable(filePath, format)

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lang, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filePath, err)
		}

		messages := raw[name]
		ids := make([]string, 0, len(messages))
		for id := range messages {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				return nil, fmt.Errorf("parse %s: empty identifier in %s", filePath, name)
			}
			if messages[id] == "" {
				continue
			}
			table.add(lang, id, messages[id])
		}
	}

	return table, nil
}
