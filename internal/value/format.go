package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String is the print form: strings are raw, everything else as Repr.
func (v Value) String() string {
	if v.k == String {
		return v.s
	}
	return v.Repr()
}

// Repr is the literal-like form used inside containers and by repr().
func (v Value) Repr() string {
	var sb strings.Builder
	v.writeRepr(&sb)
	return sb.String()
}

func (v Value) writeRepr(sb *strings.Builder) {
	switch {
	case v.k == None:
		sb.WriteString("none")
	case v.k == Bool:
		sb.WriteString(strconv.FormatBool(v.i != 0))
	case v.k.IsSigned():
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case v.k.IsUnsigned():
		sb.WriteString(strconv.FormatUint(v.u, 10))
	case v.k.IsFloat():
		sb.WriteString(formatFloat(v.k, v.f))
	case v.k == String:
		sb.WriteString(Quote(v.s))
	case v.k == List:
		sb.WriteByte('[')
		for i, it := range v.list() {
			if i > 0 {
				sb.WriteString(", ")
			}
			it.writeRepr(sb)
		}
		sb.WriteByte(']')
	case v.k == Set:
		if v.Len() == 0 {
			sb.WriteString("set()")
			return
		}
		sb.WriteByte('{')
		for i, it := range v.Elements() {
			if i > 0 {
				sb.WriteString(", ")
			}
			it.writeRepr(sb)
		}
		sb.WriteByte('}')
	case v.k == Dict:
		sb.WriteByte('{')
		for i, k := range v.Elements() {
			if i > 0 {
				sb.WriteString(", ")
			}
			k.writeRepr(sb)
			sb.WriteString(" -> ")
			v.m.vals[i].writeRepr(sb)
		}
		sb.WriteByte('}')
	case v.k == Edge:
		v.e.from.writeRepr(sb)
		sb.WriteString(" " + v.e.kind.String() + " ")
		v.e.to.writeRepr(sb)
		if v.e.weight != 1 {
			sb.WriteString(" (weight " + formatFloat(Double, v.e.weight) + ")")
		}
	case v.k == Graph:
		g := v.graph()
		fmt.Fprintf(sb, "graph(%d nodes, %d edges)", g.nodes.len(), len(g.edges))
	}
}

func formatFloat(k Kind, f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if k == Float {
		return strconv.FormatFloat(f, 'g', 7, 32)
	}
	return strconv.FormatFloat(f, 'g', 15, 64)
}

// Quote renders s as a double-quoted literal the lexer reads back unchanged.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
