package ssa

import "testing"

// linear chain: 0 -> 1 -> 2 -> 3
func linearChain() *testGraph {
	return newTestGraph(0, []int{0, 1, 2, 3}, [][2]int{
		{0, 1}, {1, 2}, {2, 3},
	})
}

// diamond: entry(0) -> header(1) -> {left(2), right(3)} -> merge(4)
func diamond() *testGraph {
	return newTestGraph(0, []int{0, 1, 2, 3, 4}, [][2]int{
		{0, 1}, {1, 2}, {1, 3}, {2, 4}, {3, 4},
	})
}

// loop: entry(0) -> header(1) -> body(2) -> header(1) (back edge), header -> after(3)
func loop() *testGraph {
	return newTestGraph(0, []int{0, 1, 2, 3}, [][2]int{
		{0, 1}, {1, 2}, {2, 1}, {1, 3},
	})
}

func TestDominatorTree_EntryIsSentinel(t *testing.T) {
	tree := BuildDominatorTree(linearChain())
	idom, ok := tree.Idom(0)
	if !ok || idom != entrySentinel {
		t.Fatalf("idom(entry) = %d, %v; want %d, true", idom, ok, entrySentinel)
	}
	if d, _ := tree.Depth(0); d != 0 {
		t.Fatalf("depth(entry) = %d; want 0", d)
	}
}

func TestDominatorTree_LinearChain(t *testing.T) {
	tree := BuildDominatorTree(linearChain())
	want := map[int]int{1: 0, 2: 1, 3: 2}
	for b, expected := range want {
		got, ok := tree.Idom(b)
		if !ok || got != expected {
			t.Errorf("idom(%d) = %d, %v; want %d", b, got, ok, expected)
		}
	}
	for b := 0; b <= 3; b++ {
		if d, ok := tree.Depth(b); !ok || d != b {
			t.Errorf("depth(%d) = %d, %v; want %d", b, d, ok, b)
		}
	}
}

func TestDominatorTree_Diamond(t *testing.T) {
	tree := BuildDominatorTree(diamond())
	for _, tc := range []struct{ b, want int }{
		{1, 0}, // header's idom is entry
		{2, 1}, // left's idom is header
		{3, 1}, // right's idom is header
		{4, 1}, // merge's idom is header, not left or right
	} {
		got, ok := tree.Idom(tc.b)
		if !ok || got != tc.want {
			t.Errorf("idom(%d) = %d, %v; want %d", tc.b, got, ok, tc.want)
		}
	}
	if !tree.Dominates(1, 4) {
		t.Error("header should dominate merge")
	}
	if tree.StrictlyDominates(2, 4) {
		t.Error("left should not dominate merge at all, let alone strictly")
	}
	if !tree.Dominates(0, 4) {
		t.Error("entry dominates every reachable block")
	}
}

func TestDominatorTree_LoopHeaderDominatesBody(t *testing.T) {
	tree := BuildDominatorTree(loop())
	if got, _ := tree.Idom(2); got != 1 {
		t.Errorf("idom(body) = %d; want header(1)", got)
	}
	if !tree.StrictlyDominates(1, 2) {
		t.Error("loop header must strictly dominate the loop body")
	}
}

func TestDominatorTree_Deterministic(t *testing.T) {
	g := diamond()
	t1 := BuildDominatorTree(g)
	t2 := BuildDominatorTree(g)
	for _, b := range g.BlockIDs() {
		i1, ok1 := t1.Idom(b)
		i2, ok2 := t2.Idom(b)
		if i1 != i2 || ok1 != ok2 {
			t.Fatalf("non-deterministic idom(%d): (%d,%v) vs (%d,%v)", b, i1, ok1, i2, ok2)
		}
	}
}

func TestDominatorTree_SelfDominates(t *testing.T) {
	tree := BuildDominatorTree(diamond())
	for _, b := range []int{0, 1, 2, 3, 4} {
		if !tree.Dominates(b, b) {
			t.Errorf("block %d should dominate itself", b)
		}
		if tree.StrictlyDominates(b, b) {
			t.Errorf("block %d should not strictly dominate itself", b)
		}
	}
}
