package diagfmt

import (
	"io"

	"github.com/oarkflow/json"

	"knot/internal/diag"
	"knot/internal/source"
)

// Location is a span in the JSON report. Line/column fields appear only
// with JSONOpts.IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Entry struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Report is the document `knot check --format json` prints. Count is the
// size of the bag, which may exceed len(Diagnostics) when Max cuts it.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(span source.Span) Location {
	loc := Location{StartByte: span.Start, EndByte: span.End}
	f := b.fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = displayPath(f, b.opts.PathMode, b.opts.BaseDir)
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(span)
		loc.StartLine, loc.StartCol, loc.EndLine, loc.EndCol = start.Line, start.Col, end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) entry(d diag.Diagnostic) Entry {
	e := Entry{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Kind:     d.Code.Kind(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			e.Notes = append(e.Notes, Note{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	return e
}

// BuildReport converts bag into its JSON shape.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	if opts.Max > 0 {
		items = items[:min(len(items), opts.Max)]
	}
	b := jsonBuilder{fs: fs, opts: opts}
	r := Report{Diagnostics: make([]Entry, len(items)), Count: bag.Len()}
	for i, d := range items {
		r.Diagnostics[i] = b.entry(d)
	}
	return r
}

// JSON writes bag as one indented document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	data, err := json.MarshalIndent(BuildReport(bag, fs, opts), "", "  ")
	if err == nil {
		_, err = w.Write(append(data, '\n'))
	}
	return err
}
