package value

import (
	"knot/internal/diag"
	"knot/internal/source"
)

type graphEdge struct {
	from, to int
	kind     EdgeKind
	weight   float64
}

type graphData struct {
	nodes *omap
	edges []graphEdge
}

func newGraphData() *graphData {
	return &graphData{nodes: newOmap()}
}

func (g *graphData) clone() *graphData {
	return &graphData{nodes: g.nodes.clone(), edges: append([]graphEdge(nil), g.edges...)}
}

// NewGraph creates an empty graph.
func NewGraph() Value {
	return Value{k: Graph, g: newGraphData()}
}

func (v Value) graph() *graphData {
	if v.g == nil {
		return newGraphData()
	}
	return v.g
}

// GraphFrom builds a graph from an iterable of edges; other elements become
// isolated nodes.
func GraphFrom(src Value) (Value, error) {
	if src.k == Graph {
		return src.Copy(), nil
	}
	g := NewGraph()
	if src.k == None {
		return g, nil
	}
	items, err := Iterate(src)
	if err != nil {
		return Value{}, err
	}
	for _, it := range items {
		if it.k == Edge {
			g, err = g.AddEdge(it)
		} else {
			g, err = g.AddNode(it)
		}
		if err != nil {
			return Value{}, err
		}
	}
	return g, nil
}

func nodeMissing(x Value) error {
	return diag.Newf(diag.RunValue, 0, source.Span{}, "node %s not in graph", x.Repr())
}

func (g *graphData) ensure(x Value) (int, error) {
	idx, err := g.nodes.index(x)
	if err != nil || idx >= 0 {
		return idx, err
	}
	if err := g.nodes.put(x, Value{}); err != nil {
		return -1, err
	}
	return g.nodes.len() - 1, nil
}

func (g *graphData) lookup(x Value) (int, error) {
	idx, err := g.nodes.index(x)
	if err != nil {
		return -1, err
	}
	if idx < 0 {
		return -1, nodeMissing(x)
	}
	return idx, nil
}

func (v Value) AddNode(x Value) (Value, error) {
	g := v.graph().clone()
	if _, err := g.ensure(x); err != nil {
		return v, err
	}
	return Value{k: Graph, g: g}, nil
}

// AddEdge inserts an edge value, creating missing endpoints. Re-adding an
// existing edge only updates its weight.
func (v Value) AddEdge(edge Value) (Value, error) {
	if edge.k != Edge {
		return v, diag.Newf(diag.RunTypeMismatch, 0, source.Span{}, "add_edge expects edge, got '%s'", edge.k)
	}
	g := v.graph().clone()
	from, err := g.ensure(edge.e.from)
	if err != nil {
		return v, err
	}
	to, err := g.ensure(edge.e.to)
	if err != nil {
		return v, err
	}
	for i, e := range g.edges {
		if e.from == from && e.to == to && e.kind == edge.e.kind {
			g.edges[i].weight = edge.e.weight
			return Value{k: Graph, g: g}, nil
		}
	}
	g.edges = append(g.edges, graphEdge{from: from, to: to, kind: edge.e.kind, weight: edge.e.weight})
	return Value{k: Graph, g: g}, nil
}

// RemoveNode drops x and every edge touching it.
func (v Value) RemoveNode(x Value) (Value, error) {
	g := v.graph().clone()
	idx, err := g.lookup(x)
	if err != nil {
		return v, err
	}
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.from == idx || e.to == idx {
			continue
		}
		if e.from > idx {
			e.from--
		}
		if e.to > idx {
			e.to--
		}
		kept = append(kept, e)
	}
	g.edges = kept
	if _, err := g.nodes.del(x); err != nil {
		return v, err
	}
	return Value{k: Graph, g: g}, nil
}

// RemoveEdge drops every edge that leads from a to b.
func (v Value) RemoveEdge(a, b Value) (Value, error) {
	g := v.graph().clone()
	from, err := g.lookup(a)
	if err != nil {
		return v, err
	}
	to, err := g.lookup(b)
	if err != nil {
		return v, err
	}
	kept := g.edges[:0]
	removed := false
	for _, e := range g.edges {
		if e.connects(from, to) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return v, diag.Newf(diag.RunValue, 0, source.Span{}, "no edge from %s to %s", a.Repr(), b.Repr())
	}
	g.edges = kept
	return Value{k: Graph, g: g}, nil
}

// connects reports whether the edge can be walked from a to b.
func (e graphEdge) connects(a, b int) bool {
	if e.from == a && e.to == b {
		return true
	}
	return e.kind != Directed && e.from == b && e.to == a
}

func (v Value) HasNode(x Value) (bool, error) {
	idx, err := v.graph().nodes.index(x)
	return idx >= 0, err
}

func (v Value) HasEdge(a, b Value) (bool, error) {
	g := v.graph()
	from, err := g.nodes.index(a)
	if err != nil || from < 0 {
		return false, err
	}
	to, err := g.nodes.index(b)
	if err != nil || to < 0 {
		return false, err
	}
	for _, e := range g.edges {
		if e.connects(from, to) {
			return true, nil
		}
	}
	return false, nil
}

func (v Value) Nodes() Value {
	return NewList(append([]Value(nil), v.graph().nodes.keys...))
}

func (v Value) edgeValue(e graphEdge) Value {
	keys := v.graph().nodes.keys
	return Value{k: Edge, e: &edgeData{from: keys[e.from], to: keys[e.to], kind: e.kind, weight: e.weight}}
}

func (v Value) Edges() Value {
	g := v.graph()
	out := make([]Value, len(g.edges))
	for i, e := range g.edges {
		out[i] = v.edgeValue(e)
	}
	return NewList(out)
}

type arc struct {
	to     int
	weight float64
}

// adjacency lists outgoing arcs per node in edge insertion order.
func (g *graphData) adjacency(ignoreDirection bool) [][]arc {
	adj := make([][]arc, g.nodes.len())
	for _, e := range g.edges {
		adj[e.from] = append(adj[e.from], arc{to: e.to, weight: e.weight})
		if e.kind != Directed || ignoreDirection {
			if e.from != e.to {
				adj[e.to] = append(adj[e.to], arc{to: e.from, weight: e.weight})
			}
		}
	}
	return adj
}

// Neighbors lists the distinct nodes reachable from x over one edge.
func (v Value) Neighbors(x Value) (Value, error) {
	g := v.graph()
	idx, err := g.lookup(x)
	if err != nil {
		return Value{}, err
	}
	seen := make(map[int]bool)
	var out []Value
	for _, a := range g.adjacency(false)[idx] {
		if !seen[a.to] {
			seen[a.to] = true
			out = append(out, g.nodes.keys[a.to])
		}
	}
	return NewList(out), nil
}

// Degree counts the edges touching x.
func (v Value) Degree(x Value) (int, error) {
	g := v.graph()
	idx, err := g.lookup(x)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range g.edges {
		if e.from == idx || e.to == idx {
			n++
		}
	}
	return n, nil
}
