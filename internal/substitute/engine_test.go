package substitute

import (
	"strings"
	"testing"

	"loctext/internal/color"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteRelease(t *testing.T) {
	engine := New()
	red := color.Red.OpenTag()
	blue := color.Blue.OpenTag()

	tests := []struct {
		name       string
		template   string
		substrings []string
		colors     []color.Color
		want       string
		status     Status
	}{
		{name: "empty", template: "", want: "", status: Success},
		{name: "no placeholders", template: "Plain text.", want: "Plain text.", status: Success},
		{name: "single", template: "Hello [0]!", substrings: []string{"World"}, want: "Hello World!", status: Success},
		{name: "missing nil", template: "Hello [0]!", want: "Hello !", status: MissingSubstitution},
		{name: "missing empty", template: "Hello [0]!", substrings: []string{}, want: "Hello !", status: MissingSubstitution},
		{name: "index past end", template: "[0] and [2]", substrings: []string{"a", "b"}, want: "a and ", status: MissingSubstitution},
		{name: "extras ignored", template: "[1]", substrings: []string{"a", "b", "c"}, want: "b", status: Success},
		{name: "repeated index", template: "[0]-[0]", substrings: []string{"x"}, want: "x-x", status: Success},
		{name: "leading zero", template: "[01]", substrings: []string{"a", "b"}, want: "b", status: Success},
		{name: "color pair", template: "{0}text{/0}", colors: []color.Color{color.Red}, want: red + "text</color>", status: Success},
		{
			name:     "duplicate close dropped",
			template: "{0}a{/0}{/0}",
			colors:   []color.Color{color.Red},
			want:     red + "a</color>",
			status:   Success,
		},
		{
			name:     "implicit close at next open",
			template: "{0}a{1}b{/1}",
			colors:   []color.Color{color.Red, color.Blue},
			want:     red + "a</color>" + blue + "b</color>",
			status:   Success,
		},
		{name: "implicit close at end", template: "x{0}y", colors: []color.Color{color.Red}, want: "x" + red + "y</color>", status: Success},
		{name: "missing color keeps text", template: "{0}text{/0}", want: "text", status: MissingSubstitution},
		{name: "dangling close", template: "a{/0}b", colors: []color.Color{color.Red}, want: "ab", status: Degenerate},
		{
			name:     "mismatched close",
			template: "{0}a{/1}b",
			colors:   []color.Color{color.Red, color.Blue},
			want:     red + "ab</color>",
			status:   Degenerate,
		},
		{
			name:       "substring and color",
			template:   "{0}[0]{/0} wins",
			substrings: []string{"Alice"},
			colors:     []color.Color{color.Red},
			want:       red + "Alice</color> wins",
			status:     Success,
		},
		{
			name:     "worst status wins",
			template: "[0] {/0}",
			want:     " ",
			status:   Degenerate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := engine.Substitute(tc.template, tc.substrings, tc.colors)
			assert.Equal(t, tc.want, out.Text)
			assert.Equal(t, tc.status, out.Status)
			assert.False(t, out.ForceTextExpansion)
		})
	}
}

func TestSubstituteReleaseIssues(t *testing.T) {
	out := New().Substitute("Hello [0], [1]!", []string{"Bob"}, nil)
	require.Equal(t, "Hello Bob, !", out.Text)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, Issue{Kind: MissingSubstring, Index: 1, Start: 11, End: 11}, out.Issues[0])
}

func TestSubstituteAllResolvedLeavesNoMarkers(t *testing.T) {
	templates := []string{"[0]", "[2][1][0]", "a [3] b [0] c", "[0][0][0]"}
	subs := []string{"w", "x", "y", "z"}

	for _, tpl := range templates {
		out := New().Substitute(tpl, subs, nil)
		assert.Equal(t, Success, out.Status, tpl)
		for i := range subs {
			assert.NotContains(t, out.Text, "["+string(rune('0'+i))+"]", tpl)
		}
	}
}

func TestSubstituteDebug(t *testing.T) {
	engine := New(WithDebug(true))
	require.True(t, engine.Debug())

	t.Run("missing substring", func(t *testing.T) {
		out := engine.Substitute("Hello [0]!", nil, nil)
		assert.Equal(t, "Hello !MISSING[0]!!", out.Text)
		assert.Equal(t, MissingSubstitution, out.Status)
		assert.True(t, out.ForceTextExpansion)
		require.Len(t, out.Issues, 1)
		is := out.Issues[0]
		assert.Equal(t, "!MISSING[0]!", out.Text[is.Start:is.End])
	})

	t.Run("missing color", func(t *testing.T) {
		out := engine.Substitute("{1}hi{/1}", nil, []color.Color{color.Red})
		assert.Equal(t, "!MISSING{1}!hi", out.Text)
		assert.Equal(t, MissingSubstitution, out.Status)
	})

	t.Run("stray close", func(t *testing.T) {
		out := engine.Substitute("x{/0}", nil, nil)
		assert.Equal(t, "x!STRAY{/0}!", out.Text)
		assert.Equal(t, Degenerate, out.Status)
	})

	t.Run("mismatched close", func(t *testing.T) {
		out := engine.Substitute("{0}a{/1}", nil, []color.Color{color.Red})
		assert.Equal(t, color.Red.OpenTag()+"a!MISMATCH{/1}!</color>", out.Text)
		assert.Equal(t, Degenerate, out.Status)
	})

	t.Run("issue offsets survive color rewrite", func(t *testing.T) {
		out := engine.Substitute("{0}[0]{/0} [1]", []string{"ok"}, []color.Color{color.Green})
		require.Len(t, out.Issues, 1)
		is := out.Issues[0]
		assert.Equal(t, "!MISSING[1]!", out.Text[is.Start:is.End])
		assert.True(t, strings.HasPrefix(out.Text, color.Green.OpenTag()+"ok</color> "))
	})

	t.Run("duplicate close stays silent", func(t *testing.T) {
		out := engine.Substitute("{0}a{/0}{/0}", nil, []color.Color{color.Red})
		assert.Equal(t, color.Red.Wrap("a"), out.Text)
		assert.Equal(t, Success, out.Status)
		assert.False(t, out.ForceTextExpansion)
	})
}

func TestWorst(t *testing.T) {
	assert.Equal(t, MissingSubstitution, Worst(Success, MissingSubstitution))
	assert.Equal(t, Degenerate, Worst(Degenerate, MissingSubstitution))
	assert.Equal(t, Success, Worst(Success, Success))
	assert.Equal(t, "Degenerate", Degenerate.String())
	assert.Equal(t, "Status(9)", Status(9).String())
	assert.Equal(t, Degenerate, DanglingClose.Status())
}
