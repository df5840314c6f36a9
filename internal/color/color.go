package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a color string is neither a known name nor a hex value.
var ErrInvalidColor = errors.New("invalid color")

// Color is an 8-bit RGBA value.
type Color struct {
	R, G, B, A uint8
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

var (
	Red     = RGB(0xFF, 0x00, 0x00)
	Green   = RGB(0x00, 0xFF, 0x00)
	Blue    = RGB(0x00, 0x00, 0xFF)
	White   = RGB(0xFF, 0xFF, 0xFF)
	Black   = RGB(0x00, 0x00, 0x00)
	Yellow  = RGB(0xFF, 0xEB, 0x04)
	Cyan    = RGB(0x00, 0xFF, 0xFF)
	Magenta = RGB(0xFF, 0x00, 0xFF)
	Grey    = RGB(0x80, 0x80, 0x80)
)

var named = map[string]Color{
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"white":   White,
	"black":   Black,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"magenta": Magenta,
	"grey":    Grey,
	"gray":    Grey,
}

// Parse accepts a color name ("red") or a hex value with or without a leading
// '#': RGB, RRGGBB or RRGGBBAA.
func Parse(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("parse color %q: %w", s, ErrInvalidColor)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, ErrInvalidColor)
	}

	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex returns the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c Color) String() string {
	return c.Hex()
}

// OpenTag returns the rich-text opening tag for c.
func (c Color) OpenTag() string {
	return "<color=" + c.Hex() + ">"
}

// CloseTag is the rich-text closing tag matching any OpenTag.
const CloseTag = "</color>"

// Wrap surrounds text with the rich-text color tags for c.
func (c Color) Wrap(text string) string {
	return c.OpenTag() + text + CloseTag
}
