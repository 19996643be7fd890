package ssa

import (
	"reflect"
	"testing"
)

func TestDominanceFrontier_EntryIsEmpty(t *testing.T) {
	g := diamond()
	df := BuildDominanceFrontier(g, BuildDominatorTree(g))
	if got := df.Of(0); len(got) != 0 {
		t.Errorf("DF(entry) = %v; want empty", got)
	}
}

func TestDominanceFrontier_LinearChainAllEmpty(t *testing.T) {
	g := linearChain()
	df := BuildDominanceFrontier(g, BuildDominatorTree(g))
	for _, b := range g.BlockIDs() {
		if got := df.Of(b); len(got) != 0 {
			t.Errorf("DF(%d) = %v; want empty in a linear chain", b, got)
		}
	}
}

func TestDominanceFrontier_Diamond(t *testing.T) {
	g := diamond()
	tree := BuildDominatorTree(g)
	df := BuildDominanceFrontier(g, tree)

	if got := df.Of(2); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("DF(left) = %v; want [4]", got)
	}
	if got := df.Of(3); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("DF(right) = %v; want [4]", got)
	}
	if got := df.Of(1); len(got) != 0 {
		t.Errorf("DF(header) = %v; want empty", got)
	}

	for _, x := range df.Of(2) {
		if !tree.Dominates(2, x) && !hasPredDominatedBy(g, tree, 2, x) {
			t.Errorf("DF member %d of 2 violates the dominance-frontier contract", x)
		}
		if tree.StrictlyDominates(2, x) {
			t.Errorf("block 2 strictly dominates its own frontier member %d", x)
		}
	}
}

func TestDominanceFrontier_LoopBodyContainsHeader(t *testing.T) {
	g := loop()
	tree := BuildDominatorTree(g)
	df := BuildDominanceFrontier(g, tree)

	got := df.Of(2) // loop body
	if !contains(got, 1) {
		t.Errorf("DF(body) = %v; want to contain the loop header (1)", got)
	}
}

// TestDominanceFrontier_DiamondInsideLoop is a diamond branch nested
// inside a loop body: entry -> header -> {left,right} -> merge -> exit,
// checking DF and idom results through both structures at once.
func TestDominanceFrontier_DiamondInsideLoop(t *testing.T) {
	const entry, header, left, right, merge, exit = 0, 1, 2, 3, 4, 5
	g := newTestGraph(entry, []int{entry, header, left, right, merge, exit}, [][2]int{
		{entry, header}, {header, left}, {header, right}, {left, merge}, {right, merge}, {merge, exit},
	})
	tree := BuildDominatorTree(g)
	df := BuildDominanceFrontier(g, tree)

	if got := df.Of(left); !reflect.DeepEqual(got, []int{merge}) {
		t.Errorf("DF(left) = %v; want [merge]", got)
	}
	if got := df.Of(right); !reflect.DeepEqual(got, []int{merge}) {
		t.Errorf("DF(right) = %v; want [merge]", got)
	}
	if got := df.Of(header); len(got) != 0 {
		t.Errorf("DF(header) = %v; want empty", got)
	}
	if idom, _ := tree.Idom(merge); idom != header {
		t.Errorf("idom(merge) = %d; want header", idom)
	}
	if idom, _ := tree.Idom(left); idom != header {
		t.Errorf("idom(left) = %d; want header", idom)
	}
	if idom, _ := tree.Idom(right); idom != header {
		t.Errorf("idom(right) = %d; want header", idom)
	}
}

func TestIteratedFrontier_EmptySeedIsEmpty(t *testing.T) {
	g := diamond()
	df := BuildDominanceFrontier(g, BuildDominatorTree(g))
	if got := IteratedFrontier(df, nil); len(got) != 0 {
		t.Errorf("DF+(empty) = %v; want empty", got)
	}
}

func TestIteratedFrontier_Diamond(t *testing.T) {
	g := diamond()
	df := BuildDominanceFrontier(g, BuildDominatorTree(g))
	got := IteratedFrontier(df, []int{2, 3})
	if !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("DF+({left,right}) = %v; want [4]", got)
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func hasPredDominatedBy(g BlockGraph, tree *DominatorTree, b, x int) bool {
	for _, p := range g.Preds(x) {
		if tree.Dominates(b, p) {
			return true
		}
	}
	return false
}
