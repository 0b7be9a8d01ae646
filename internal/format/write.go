package format

import (
	"bytes"
	"strings"
)

// Writer emits whole lines at the current block depth.
type Writer struct {
	buf    bytes.Buffer
	unit   string // one indentation step
	prefix string
}

func NewWriter(opt Options) *Writer {
	opt = opt.withDefaults()
	unit := "\t"
	if !opt.UseTabs {
		unit = strings.Repeat(" ", opt.IndentWidth)
	}
	return &Writer{unit: unit}
}

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Line writes s indented to the current depth and terminates it.
func (w *Writer) Line(s string) {
	w.buf.WriteString(w.prefix)
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// IndentPush opens a block: following lines go one step deeper.
func (w *Writer) IndentPush() { w.prefix += w.unit }

// IndentPop closes a block opened by IndentPush.
func (w *Writer) IndentPop() {
	w.prefix = strings.TrimSuffix(w.prefix, w.unit)
}
