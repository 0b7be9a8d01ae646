package value

import (
	"fmt"
	"strings"

	"knot/internal/diag"
	"knot/internal/source"

	"github.com/ahrtr/gocontainer/queue/priorityqueue"
	"github.com/edwingeng/deque"
)

// DFS lists nodes reachable from start in depth-first preorder.
func (v Value) DFS(start Value) (Value, error) {
	g := v.graph()
	s, err := g.lookup(start)
	if err != nil {
		return Value{}, err
	}
	adj := g.adjacency(false)
	seen := make([]bool, g.nodes.len())
	var out []Value
	stack := []int{s}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, g.nodes.keys[n])
		for i := len(adj[n]) - 1; i >= 0; i-- {
			if !seen[adj[n][i].to] {
				stack = append(stack, adj[n][i].to)
			}
		}
	}
	return NewList(out), nil
}

// BFS lists nodes reachable from start in breadth-first order.
func (v Value) BFS(start Value) (Value, error) {
	g := v.graph()
	s, err := g.lookup(start)
	if err != nil {
		return Value{}, err
	}
	order := g.bfs(s, g.adjacency(false), make([]bool, g.nodes.len()))
	out := make([]Value, len(order))
	for i, n := range order {
		out[i] = g.nodes.keys[n]
	}
	return NewList(out), nil
}

func (g *graphData) bfs(start int, adj [][]arc, seen []bool) []int {
	var order []int
	frontier := deque.NewDeque()
	frontier.PushBack(start)
	seen[start] = true
	for !frontier.Empty() {
		n := frontier.PopFront().(int)
		order = append(order, n)
		for _, a := range adj[n] {
			if !seen[a.to] {
				seen[a.to] = true
				frontier.PushBack(a.to)
			}
		}
	}
	return order
}

// Components lists the weakly connected components in node order.
func (v Value) Components() Value {
	g := v.graph()
	adj := g.adjacency(true)
	seen := make([]bool, g.nodes.len())
	var out []Value
	for n := range g.nodes.keys {
		if seen[n] {
			continue
		}
		order := g.bfs(n, adj, seen)
		comp := make([]Value, len(order))
		for i, m := range order {
			comp[i] = g.nodes.keys[m]
		}
		out = append(out, NewList(comp))
	}
	return NewList(out)
}

// TopoSort orders nodes so every directed edge points forward. Undirected
// edges and cycles make the order undefined.
func (v Value) TopoSort() (Value, error) {
	g := v.graph()
	indeg := make([]int, g.nodes.len())
	for _, e := range g.edges {
		if e.kind != Directed {
			return Value{}, diag.Newf(diag.RunValue, 0, source.Span{}, "topo_sort requires a directed graph")
		}
		indeg[e.to]++
	}
	adj := g.adjacency(false)
	ready := deque.NewDeque()
	for n, d := range indeg {
		if d == 0 {
			ready.PushBack(n)
		}
	}
	var out []Value
	for !ready.Empty() {
		n := ready.PopFront().(int)
		out = append(out, g.nodes.keys[n])
		for _, a := range adj[n] {
			indeg[a.to]--
			if indeg[a.to] == 0 {
				ready.PushBack(a.to)
			}
		}
	}
	if len(out) != g.nodes.len() {
		return Value{}, diag.Newf(diag.RunValue, 0, source.Span{}, "graph has a cycle")
	}
	return NewList(out), nil
}

type pqItem struct {
	node int
	prev int
	dist float64
	seq  int
}

// pqItemCmp orders queue items by distance, then by insertion.
type pqItemCmp struct{}

func (pqItemCmp) Compare(v1, v2 interface{}) (int, error) {
	a, b := v1.(pqItem), v2.(pqItem)
	switch {
	case a.dist < b.dist:
		return -1, nil
	case a.dist > b.dist:
		return 1, nil
	}
	return a.seq - b.seq, nil
}

// ShortestPath returns the cheapest node path from a to b (Dijkstra), or an
// empty list when b is unreachable.
func (v Value) ShortestPath(a, b Value) (Value, error) {
	g := v.graph()
	src, err := g.lookup(a)
	if err != nil {
		return Value{}, err
	}
	dst, err := g.lookup(b)
	if err != nil {
		return Value{}, err
	}
	for _, e := range g.edges {
		if e.weight < 0 {
			return Value{}, diag.Newf(diag.RunValue, 0, source.Span{}, "shortest_path does not support negative weights")
		}
	}
	adj := g.adjacency(false)
	n := g.nodes.len()
	dist := make([]float64, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = -1
		prev[i] = -1
	}
	pq := priorityqueue.New().WithComparator(pqItemCmp{})
	seq := 0
	pq.Add(pqItem{node: src, prev: -1, seq: seq})
	for !pq.IsEmpty() {
		it := pq.Poll().(pqItem)
		if done[it.node] {
			continue
		}
		done[it.node] = true
		dist[it.node] = it.dist
		prev[it.node] = it.prev
		if it.node == dst {
			break
		}
		for _, e := range adj[it.node] {
			if !done[e.to] {
				seq++
				pq.Add(pqItem{node: e.to, prev: it.node, dist: it.dist + e.weight, seq: seq})
			}
		}
	}
	if !done[dst] {
		return NewList(nil), nil
	}
	var path []Value
	for n := dst; n >= 0; n = prev[n] {
		path = append(path, g.nodes.keys[n])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return NewList(path), nil
}

// MST returns the edges of a minimum spanning forest (Prim), treating every
// edge as undirected.
func (v Value) MST() Value {
	g := v.graph()
	adj := g.adjacency(true)
	inTree := make([]bool, g.nodes.len())
	var out []Value
	seq := 0
	for root := range g.nodes.keys {
		if inTree[root] {
			continue
		}
		pq := priorityqueue.New().WithComparator(pqItemCmp{})
		pq.Add(pqItem{node: root, prev: -1, seq: seq})
		for !pq.IsEmpty() {
			it := pq.Poll().(pqItem)
			if inTree[it.node] {
				continue
			}
			inTree[it.node] = true
			if it.prev >= 0 {
				out = append(out, v.edgeValue(graphEdge{from: it.prev, to: it.node, kind: Undirected, weight: it.dist}))
			}
			for _, a := range adj[it.node] {
				if !inTree[a.to] {
					seq++
					pq.Add(pqItem{node: a.to, prev: it.node, dist: a.weight, seq: seq})
				}
			}
		}
	}
	return NewList(out)
}

// ToMermaid renders the graph as a Mermaid flowchart.
func (v Value) ToMermaid() string {
	g := v.graph()
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for i, n := range g.nodes.keys {
		label := strings.ReplaceAll(n.String(), `"`, "#quot;")
		fmt.Fprintf(&sb, "    n%d[\"%s\"]\n", i, label)
	}
	for _, e := range g.edges {
		link := "-->"
		switch e.kind {
		case Bidirectional:
			link = "<-->"
		case Undirected:
			link = "---"
		}
		if e.weight != 1 {
			link += "|" + formatFloat(Double, e.weight) + "|"
		}
		fmt.Fprintf(&sb, "    n%d %s n%d\n", e.from, link, e.to)
	}
	return sb.String()
}
