package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"knot/internal/diag"
	"knot/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, p, d, fs, opts)
	}
}

// Error prints a single engine error the same way Pretty prints a bag entry.
// Errors that carry no span fall back to "<SEV>: message".
func Error(w io.Writer, err error, fs *source.FileSet, opts PrettyOpts) {
	if err == nil {
		return
	}
	bag := diag.NewBag(0)
	for _, e := range unjoin(err) {
		bag.Add(toDiagnostic(e))
	}
	Pretty(w, bag, fs, opts)
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func toDiagnostic(err error) diag.Diagnostic {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.Diagnostic()
	}
	return diag.Diagnostic{Severity: diag.SevError, Code: diag.CodeOf(err), Message: err.Error(), Primary: noSpan}
}

// noSpan marks a diagnostic without a location.
var noSpan = source.Span{File: ^source.FileID(0)}

func writeDiagnostic(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := p.severity(d.Severity)
	var file *source.File
	if fs != nil {
		file = fs.Get(d.Primary.File)
	}
	if file == nil {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}

	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(file, opts.PathMode, opts.BaseDir), start.Line, start.Col,
		sev.Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
	writeExcerpt(w, p, file, start, end, int(opts.Context))

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil {
			fmt.Fprintf(w, "  %s: %s\n", p.info.Sprint("note"), n.Msg)
			continue
		}
		ns, ne := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", p.info.Sprint("note"),
			displayPath(nf, opts.PathMode, opts.BaseDir), ns.Line, ns.Col, n.Msg)
		writeExcerpt(w, p, nf, ns, ne, 0)
	}
}

// writeExcerpt prints up to context lines before start.Line, the line itself
// and an underline ^~~~ covering the span (clipped to that line).
func writeExcerpt(w io.Writer, p palette, f *source.File, start, end source.LineCol, context int) {
	line := f.GetLine(start.Line)
	if line == "" && len(f.Content) == 0 {
		return
	}
	first := max(int(start.Line)-context, 1)
	gw := len(fmt.Sprint(start.Line))
	for n := first; n < int(start.Line); n++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gw, n), f.GetLine(uint32(n)))
	}
	fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gw, start.Line), line)

	col := min(int(start.Col)-1, len(line))
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		width = max(len(line)-col, 1)
	}
	width = max(min(width, len(line)-col), 1)

	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gw, ""), padFor(line[:col]), p.caret.Sprint(underline))
}

// padFor returns whitespace occupying the same display width as prefix;
// tabs are kept so the caret lines up in the terminal.
func padFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
