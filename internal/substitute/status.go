package substitute

import "fmt"

// Status summarises the outcome of resolving one template. Values are
// ordered by severity.
type Status int

const (
	Success Status = iota
	MissingSubstitution
	Degenerate
	TemplateNotFound
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case MissingSubstitution:
		return "MissingSubstitution"
	case Degenerate:
		return "Degenerate"
	case TemplateNotFound:
		return "TemplateNotFound"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Worst returns the more severe of a and b.
func Worst(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// IssueKind classifies one unresolved or malformed marker.
type IssueKind int

const (
	MissingSubstring IssueKind = iota
	MissingColor
	DanglingClose
	MismatchedClose
)

func (k IssueKind) String() string {
	switch k {
	case MissingSubstring:
		return "missing_substring"
	case MissingColor:
		return "missing_color"
	case DanglingClose:
		return "dangling_close"
	case MismatchedClose:
		return "mismatched_close"
	default:
		return fmt.Sprintf("IssueKind(%d)", int(k))
	}
}

// Status maps the issue kind onto the status it forces.
func (k IssueKind) Status() Status {
	switch k {
	case MissingSubstring, MissingColor:
		return MissingSubstitution
	default:
		return Degenerate
	}
}

// Issue is one problem found during substitution. Start/End delimit the
// span in the output text; the span is empty when nothing was emitted for it.
type Issue struct {
	Kind  IssueKind
	Index int
	Start int
	End   int
}
