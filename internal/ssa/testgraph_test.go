package ssa

// testGraph is a minimal hand-built BlockGraph for exercising the
// dominator/frontier algorithms against canonical control-flow shapes:
// linear chains, diamonds, and loops.
type testGraph struct {
	entry int
	succs map[int][]int
	preds map[int][]int
	ids   []int
}

func newTestGraph(entry int, ids []int, edges [][2]int) *testGraph {
	g := &testGraph{
		entry: entry,
		succs: make(map[int][]int),
		preds: make(map[int][]int),
		ids:   ids,
	}
	for _, e := range edges {
		g.succs[e[0]] = append(g.succs[e[0]], e[1])
		g.preds[e[1]] = append(g.preds[e[1]], e[0])
	}
	return g
}

func (g *testGraph) EntryID() int      { return g.entry }
func (g *testGraph) BlockIDs() []int   { return g.ids }
func (g *testGraph) Succs(id int) []int { return g.succs[id] }
func (g *testGraph) Preds(id int) []int { return g.preds[id] }
