package markup

// ColorSpan is an open marker and whatever ends it. Close is nil when the
// span is closed implicitly, either by the next open marker or by the end
// of the text; End is then the offset where the implicit close sits.
type ColorSpan struct {
	Index int
	Open  ColorMarker
	Close *ColorMarker
	End   int
}

// ColorLayout is the result of pairing color markers.
type ColorLayout struct {
	Spans []ColorSpan
	// Duplicates are repeated closes after a finished span, removed silently.
	Duplicates []ColorMarker
	// Dangling are closes with no open before them at all.
	Dangling []ColorMarker
	// Mismatched are closes whose index differs from the open span.
	Mismatched []ColorMarker
}

// Degenerate reports whether the layout holds markup that cannot be repaired.
func (l ColorLayout) Degenerate() bool {
	return len(l.Dangling) > 0 || len(l.Mismatched) > 0
}

// PairColorMarkers walks markers left to right with a single "currently
// open" slot. textLen is the length of the scanned text and closes a span
// left open at the end.
//
// A close that follows a finished span with no new open in between is a
// stray duplicate: the earlier close is kept and the later one dropped.
func PairColorMarkers(markers []ColorMarker, textLen int) ColorLayout {
	var layout ColorLayout

	var open *ColorMarker
	closedSinceOpen := false

	for i := range markers {
		m := markers[i]

		if m.Open {
			if open != nil {
				layout.Spans = append(layout.Spans, ColorSpan{Index: open.Index, Open: *open, End: m.Start})
			}
			open = &markers[i]
			closedSinceOpen = false
			continue
		}

		switch {
		case open != nil && open.Index == m.Index:
			layout.Spans = append(layout.Spans, ColorSpan{Index: open.Index, Open: *open, Close: &markers[i], End: m.Start})
			open = nil
			closedSinceOpen = true
		case open != nil:
			layout.Mismatched = append(layout.Mismatched, m)
		case closedSinceOpen:
			layout.Duplicates = append(layout.Duplicates, m)
		default:
			layout.Dangling = append(layout.Dangling, m)
		}
	}

	if open != nil {
		layout.Spans = append(layout.Spans, ColorSpan{Index: open.Index, Open: *open, End: textLen})
	}

	return layout
}
