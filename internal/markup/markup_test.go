package markup

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSubstringMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []SubstringMarker
	}{
		{name: "none", text: "Hello world", want: nil},
		{name: "empty", text: "", want: nil},
		{name: "single", text: "Hello [0]!", want: []SubstringMarker{{Index: 0, Start: 6, End: 9}}},
		{
			name: "several",
			text: "[1] and [12]",
			want: []SubstringMarker{{Index: 1, Start: 0, End: 3}, {Index: 12, Start: 8, End: 12}},
		},
		{name: "leading zero", text: "[01]", want: []SubstringMarker{{Index: 1, Start: 0, End: 4}}},
		{name: "not digits", text: "[a] [-1] [ 1] []", want: nil},
		{name: "multibyte prefix", text: "こ[2]", want: []SubstringMarker{{Index: 2, Start: 3, End: 6}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScanSubstringMarkers(tc.text))
		})
	}
}

func TestScanSubstringMarkersOverflow(t *testing.T) {
	got := ScanSubstringMarkers("[99999999999999999999999]")
	require.Len(t, got, 1)
	assert.Equal(t, math.MaxInt, got[0].Index)
}

func TestScanSubstringMarkersIdempotent(t *testing.T) {
	text := "[0] x [3] y [0]"
	assert.Equal(t, ScanSubstringMarkers(text), ScanSubstringMarkers(text))
}

func TestScanColorMarkers(t *testing.T) {
	got := ScanColorMarkers("{0}a{/0} {12}b{/12} {x} {/}")
	assert.Equal(t, []ColorMarker{
		{Index: 0, Open: true, Start: 0, End: 3},
		{Index: 0, Open: false, Start: 4, End: 8},
		{Index: 12, Open: true, Start: 9, End: 13},
		{Index: 12, Open: false, Start: 14, End: 19},
	}, got)

	assert.Nil(t, ScanColorMarkers("plain"))
}

func TestPairColorMarkers(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		text := "{0}a{/0}"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		require.Len(t, layout.Spans, 1)
		span := layout.Spans[0]
		assert.Equal(t, 0, span.Index)
		require.NotNil(t, span.Close)
		assert.Equal(t, 4, span.End)
		assert.False(t, layout.Degenerate())
	})

	t.Run("duplicate close dropped", func(t *testing.T) {
		text := "{0}a{/0}{/0}"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		require.Len(t, layout.Spans, 1)
		require.Len(t, layout.Duplicates, 1)
		assert.Equal(t, 8, layout.Duplicates[0].Start)
		assert.False(t, layout.Degenerate())
	})

	t.Run("duplicate close with other index is still a duplicate", func(t *testing.T) {
		text := "{0}a{/0}b{/1}"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		assert.Len(t, layout.Duplicates, 1)
		assert.False(t, layout.Degenerate())
	})

	t.Run("dangling close", func(t *testing.T) {
		text := "a{/0}"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		assert.Empty(t, layout.Spans)
		assert.Len(t, layout.Dangling, 1)
		assert.True(t, layout.Degenerate())
	})

	t.Run("mismatched close", func(t *testing.T) {
		text := "{0}a{/1}b"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		require.Len(t, layout.Mismatched, 1)
		require.Len(t, layout.Spans, 1)
		assert.Nil(t, layout.Spans[0].Close)
		assert.Equal(t, len(text), layout.Spans[0].End)
		assert.True(t, layout.Degenerate())
	})

	t.Run("open closes previous open", func(t *testing.T) {
		text := "{0}a{1}b{/1}"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		require.Len(t, layout.Spans, 2)
		assert.Nil(t, layout.Spans[0].Close)
		assert.Equal(t, 4, layout.Spans[0].End)
		assert.NotNil(t, layout.Spans[1].Close)
		assert.False(t, layout.Degenerate())
	})

	t.Run("open at end of text", func(t *testing.T) {
		text := "x{2}tail"
		layout := PairColorMarkers(ScanColorMarkers(text), len(text))
		require.Len(t, layout.Spans, 1)
		assert.Nil(t, layout.Spans[0].Close)
		assert.Equal(t, len(text), layout.Spans[0].End)
	})

	t.Run("no markers", func(t *testing.T) {
		layout := PairColorMarkers(nil, 10)
		assert.Empty(t, layout.Spans)
		assert.False(t, layout.Degenerate())
	})
}
