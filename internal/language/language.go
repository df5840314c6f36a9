package language

import (
	"errors"
	"fmt"
	"strings"

	"loctext/internal/textutil"

	xlanguage "golang.org/x/text/language"
)

// ErrUnknownLanguage is returned by Parse for names and tags outside the supported set.
var ErrUnknownLanguage = errors.New("unknown language")

// Direction is the reading direction of a language.
type Direction int

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Language identifies one translation column.
type Language int

const (
	English Language = iota
	French
	German
	Spanish
	Italian
	Portuguese
	Russian
	Japanese
	Korean
	ChineseSimplified
	ChineseTraditional
	Arabic
	Hebrew
	Persian
)

type info struct {
	name      string
	tag       xlanguage.Tag
	direction Direction
}

var languages = []info{
	English:            {name: "English", tag: xlanguage.English, direction: LTR},
	French:             {name: "French", tag: xlanguage.French, direction: LTR},
	German:             {name: "German", tag: xlanguage.German, direction: LTR},
	Spanish:            {name: "Spanish", tag: xlanguage.Spanish, direction: LTR},
	Italian:            {name: "Italian", tag: xlanguage.Italian, direction: LTR},
	Portuguese:         {name: "Portuguese", tag: xlanguage.Portuguese, direction: LTR},
	Russian:            {name: "Russian", tag: xlanguage.Russian, direction: LTR},
	Japanese:           {name: "Japanese", tag: xlanguage.Japanese, direction: LTR},
	Korean:             {name: "Korean", tag: xlanguage.Korean, direction: LTR},
	ChineseSimplified:  {name: "ChineseSimplified", tag: xlanguage.SimplifiedChinese, direction: LTR},
	ChineseTraditional: {name: "ChineseTraditional", tag: xlanguage.TraditionalChinese, direction: LTR},
	Arabic:             {name: "Arabic", tag: xlanguage.Arabic, direction: RTL},
	Hebrew:             {name: "Hebrew", tag: xlanguage.Hebrew, direction: RTL},
	Persian:            {name: "Persian", tag: xlanguage.Persian, direction: RTL},
}

// All returns every supported language in declaration order.
func All() []Language {
	out := make([]Language, len(languages))
	for i := range languages {
		out[i] = Language(i)
	}
	return out
}

// Valid reports whether l is one of the declared languages.
func (l Language) Valid() bool {
	return l >= 0 && int(l) < len(languages)
}

func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return languages[l].name
}

// Tag returns the BCP-47 tag for l.
func (l Language) Tag() xlanguage.Tag {
	if !l.Valid() {
		return xlanguage.Und
	}
	return languages[l].tag
}

// Direction returns the declared reading direction.
func (l Language) Direction() Direction {
	if !l.Valid() {
		return LTR
	}
	return languages[l].direction
}

// Parse accepts either an enum name ("Japanese", case-insensitive) or a BCP-47
// code ("ja", "zh-Hant", "ar-EG").
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse language %q: %w", s, ErrUnknownLanguage)
	}

	for i, li := range languages {
		if strings.EqualFold(li.name, s) {
			return Language(i), nil
		}
	}

	tag, err := xlanguage.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("parse language %q: %w", s, ErrUnknownLanguage)
	}

	for i, li := range languages {
		if li.tag == tag {
			return Language(i), nil
		}
	}

	base, _ := tag.Base()
	if base.String() == "zh" {
		script, _ := tag.Script()
		if script.String() == "Hant" {
			return ChineseTraditional, nil
		}
		region, _ := tag.Region()
		switch region.String() {
		case "TW", "HK", "MO":
			return ChineseTraditional, nil
		}
		return ChineseSimplified, nil
	}

	for i, li := range languages {
		liBase, _ := li.tag.Base()
		if liBase == base {
			return Language(i), nil
		}
	}

	return 0, fmt.Errorf("parse language %q: %w", s, ErrUnknownLanguage)
}

// NeedsRTL reports whether text resolved for l has to be rendered right to left.
// Pure ASCII text (byte length equal to rune count) stays left to right even in
// an RTL language, so numbers and latin identifiers are not mirrored.
func NeedsRTL(l Language, text string) bool {
	if l.Direction() != RTL {
		return false
	}
	return !textutil.IsASCII(text)
}
