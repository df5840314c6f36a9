//go:build !locdebug

package resolve

import (
	"bytes"
	"testing"

	"loctext/internal/color"
	"loctext/internal/language"
	"loctext/internal/substitute"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReleaseMissingSubstitution(t *testing.T) {
	var buf bytes.Buffer
	s := newTestSession(t, WithLogger(zerolog.New(&buf)))

	res := s.Resolve(42, language.English, Request{})
	assert.Equal(t, "Hello !", res.Text)
	assert.Equal(t, substitute.MissingSubstitution, res.Status)
	assert.False(t, res.ForceTextExpansion)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, 0, res.Issues[0].Index)

	missing := s.Resolve(999, language.English, Request{})
	assert.Equal(t, "MISSING_TEXT_999", missing.Text)
	assert.False(t, missing.ForceTextExpansion)
	assert.Empty(t, buf.String(), "release builds never log")
}

func TestResolveReleaseHidesBrokenMarkup(t *testing.T) {
	s := newTestSession(t)

	res := s.Resolve(7, language.English, Request{Substrings: []string{"5"}})
	assert.Equal(t, "5 points", res.Text)
	assert.Equal(t, substitute.MissingSubstitution, res.Status)
	assert.NotContains(t, res.Text, "!MISSING")
	assert.NotContains(t, res.Text, color.CloseTag)
}
