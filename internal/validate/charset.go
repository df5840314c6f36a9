package validate

import (
	"regexp"
	"unicode"

	"loctext/internal/language"
)

var (
	richTextPattern = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)
	markerPattern   = regexp.MustCompile(`\[[0-9]+\]|\{/?[0-9]+\}`)
)

var (
	generalPunctuation = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x00a0, Hi: 0x00bf, Stride: 1},
		{Lo: 0x2000, Hi: 0x206f, Stride: 1},
		{Lo: 0x20a0, Hi: 0x20cf, Stride: 1},
		{Lo: 0x2190, Hi: 0x21ff, Stride: 1},
	}}
	cjkPunctuation = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303f, Stride: 1},
		{Lo: 0x30fb, Hi: 0x30fc, Stride: 1},
		{Lo: 0xff00, Hi: 0xffef, Stride: 1},
	}}
)

// CharsetFunc returns the runes of text that cannot be displayed for one language.
type CharsetFunc func(text string) []rune

func allowing(tables ...*unicode.RangeTable) CharsetFunc {
	return func(text string) []rune {
		var bad []rune
		seen := make(map[rune]bool)
		for _, r := range displayable(text) {
			if r < 0x80 || unicode.IsSpace(r) || unicode.IsOneOf(tables, r) {
				continue
			}
			if !seen[r] {
				seen[r] = true
				bad = append(bad, r)
			}
		}
		return bad
	}
}

// Charsets maps every supported language to its character check.
var Charsets = map[language.Language]CharsetFunc{
	language.English:            allowing(generalPunctuation),
	language.French:             allowing(unicode.Latin, generalPunctuation),
	language.German:             allowing(unicode.Latin, generalPunctuation),
	language.Spanish:            allowing(unicode.Latin, generalPunctuation),
	language.Italian:            allowing(unicode.Latin, generalPunctuation),
	language.Portuguese:         allowing(unicode.Latin, generalPunctuation),
	language.Russian:            allowing(unicode.Cyrillic, generalPunctuation),
	language.Japanese:           allowing(unicode.Hiragana, unicode.Katakana, unicode.Han, cjkPunctuation, generalPunctuation),
	language.Korean:             allowing(unicode.Hangul, unicode.Han, cjkPunctuation, generalPunctuation),
	language.ChineseSimplified:  allowing(unicode.Han, cjkPunctuation, generalPunctuation),
	language.ChineseTraditional: allowing(unicode.Han, cjkPunctuation, generalPunctuation),
	language.Arabic:             allowing(unicode.Arabic, generalPunctuation),
	language.Hebrew:             allowing(unicode.Hebrew, generalPunctuation),
	language.Persian:            allowing(unicode.Arabic, generalPunctuation),
}

// InvalidRunes returns the distinct runes of text outside lang's character
// set, in order of first appearance. Rich-text tags and placeholders are ignored.
func InvalidRunes(lang language.Language, text string) []rune {
	check, ok := Charsets[lang]
	if !ok {
		return nil
	}
	return check(text)
}

func displayable(text string) string {
	text = richTextPattern.ReplaceAllString(text, "")
	return markerPattern.ReplaceAllString(text, "")
}
