package value

// EdgeKind tells how an edge specification connects its endpoints.
type EdgeKind uint8

const (
	Directed      EdgeKind = iota // a -> b
	Bidirectional                 // a <-> b
	Undirected                    // a --- b
)

func (k EdgeKind) String() string {
	switch k {
	case Bidirectional:
		return "<->"
	case Undirected:
		return "---"
	}
	return "->"
}

type edgeData struct {
	from, to Value
	kind     EdgeKind
	weight   float64
}

// MakeEdge builds the value of `from -> to`, `from <-> to` or `from --- to`.
func MakeEdge(kind EdgeKind, from, to Value) Value {
	return Value{k: Edge, e: &edgeData{from: from, to: to, kind: kind, weight: 1}}
}

// EdgeParts exposes an edge value's fields.
func (v Value) EdgeParts() (from, to Value, kind EdgeKind, weight float64) {
	if v.e == nil {
		return Value{}, Value{}, Directed, 0
	}
	return v.e.from, v.e.to, v.e.kind, v.e.weight
}

// WithWeight returns a copy of the edge carrying weight w.
func (v Value) WithWeight(w float64) Value {
	e := *v.e
	e.weight = w
	return Value{k: Edge, e: &e}
}
