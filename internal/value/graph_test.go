package value

import (
	"strings"
	"testing"

	"knot/internal/diag"
)

func edge(k EdgeKind, a, b string) Value {
	return MakeEdge(k, StringValue(a), StringValue(b))
}

func buildGraph(t *testing.T, edges ...Value) Value {
	t.Helper()
	g, err := GraphFrom(NewList(edges))
	if err != nil {
		t.Fatalf("GraphFrom: %v", err)
	}
	return g
}

func TestGraphTraversals(t *testing.T) {
	g := buildGraph(t,
		edge(Directed, "a", "b"),
		edge(Directed, "a", "c"),
		edge(Directed, "b", "d"),
		edge(Directed, "c", "d"),
	)
	if got := must(t)(g.DFS(StringValue("a"))).Repr(); got != `["a", "b", "d", "c"]` {
		t.Errorf("dfs: %s", got)
	}
	if got := must(t)(g.BFS(StringValue("a"))).Repr(); got != `["a", "b", "c", "d"]` {
		t.Errorf("bfs: %s", got)
	}
	if got := must(t)(g.TopoSort()).Repr(); got != `["a", "b", "c", "d"]` {
		t.Errorf("topo: %s", got)
	}
	if got := must(t)(g.Neighbors(StringValue("a"))).Repr(); got != `["b", "c"]` {
		t.Errorf("neighbors: %s", got)
	}
	if n, _ := g.Degree(StringValue("d")); n != 2 {
		t.Errorf("degree d = %d", n)
	}
	if _, err := g.DFS(StringValue("zz")); diag.CodeOf(err) != diag.RunValue {
		t.Errorf("missing start node: %v", err)
	}
}

func TestGraphCycleAndComponents(t *testing.T) {
	g := buildGraph(t,
		edge(Directed, "a", "b"),
		edge(Directed, "b", "a"),
		edge(Undirected, "x", "y"),
	)
	g = must(t)(g.AddNode(StringValue("lonely")))
	if _, err := g.TopoSort(); err == nil {
		t.Errorf("topo_sort must fail on undirected edges or cycles")
	}
	if got := g.Components().Repr(); got != `[["a", "b"], ["x", "y"], ["lonely"]]` {
		t.Errorf("components: %s", got)
	}
	if ok, _ := g.HasEdge(StringValue("y"), StringValue("x")); !ok {
		t.Errorf("undirected edge works both ways")
	}
	removed := must(t)(g.RemoveNode(StringValue("a")))
	if removed.Len() != 4 || g.Len() != 5 {
		t.Errorf("remove_node clones: %d %d", removed.Len(), g.Len())
	}
	if ok, _ := removed.HasEdge(StringValue("x"), StringValue("y")); !ok {
		t.Errorf("edge indices must be remapped after removal")
	}
}

func TestShortestPathAndMST(t *testing.T) {
	g := buildGraph(t,
		edge(Undirected, "a", "b").WithWeight(4),
		edge(Undirected, "a", "c").WithWeight(1),
		edge(Undirected, "c", "b").WithWeight(1),
		edge(Undirected, "b", "d").WithWeight(5),
	)
	path := must(t)(g.ShortestPath(StringValue("a"), StringValue("d")))
	if path.Repr() != `["a", "c", "b", "d"]` {
		t.Errorf("shortest path: %s", path.Repr())
	}
	g2 := must(t)(g.AddNode(StringValue("island")))
	if p := must(t)(g2.ShortestPath(StringValue("a"), StringValue("island"))); p.Len() != 0 {
		t.Errorf("unreachable gives empty path: %s", p.Repr())
	}
	mst := g.MST()
	total := 0.0
	for _, e := range mst.Items() {
		_, _, _, w := e.EdgeParts()
		total += w
	}
	if mst.Len() != 3 || total != 7 {
		t.Errorf("mst: %s (total %v)", mst.Repr(), total)
	}
}

func TestToMermaid(t *testing.T) {
	g := buildGraph(t, edge(Directed, "a", "b"), edge(Bidirectional, "b", "c").WithWeight(2))
	out := g.ToMermaid()
	for _, want := range []string{"graph TD", `n0["a"]`, "n0 --> n1", "n1 <-->|2| n2"} {
		if !strings.Contains(out, want) {
			t.Errorf("mermaid output lacks %q:\n%s", want, out)
		}
	}
}
