package ssa

import "sort"

// DominanceFrontier maps each block id to the set of blocks where its
// dominance "just ends": DF(B) = { X | B dominates some predecessor of X,
// and B does not strictly dominate X }.
type DominanceFrontier struct {
	sets map[int]map[int]bool
}

// Of returns DF(id), sorted by block id for deterministic output.
func (f *DominanceFrontier) Of(id int) []int {
	set := f.sets[id]
	out := make([]int, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// BuildDominanceFrontier computes the dominance frontier of every block in
// g, given its already-computed dominator tree, using the Cytron et al.
// algorithm: for every join point B (a block with two or more
// predecessors), walk each predecessor P up the dominator tree adding B
// to DF(runner) at each step until runner reaches idom(B), which is never
// itself added since idom(B) strictly dominates B by construction.
func BuildDominanceFrontier(g BlockGraph, tree *DominatorTree) *DominanceFrontier {
	df := &DominanceFrontier{sets: make(map[int]map[int]bool)}
	for _, b := range g.BlockIDs() {
		df.sets[b] = map[int]bool{}
	}

	for _, b := range tree.rpo {
		preds := g.Preds(b)
		if len(preds) < 2 {
			continue // not a join point; DF only grows at joins
		}
		idomB, _ := tree.Idom(b) // b != entry here: entry has no preds
		for _, p := range preds {
			if _, ok := tree.depth[p]; !ok {
				continue // predecessor unreachable from entry
			}
			for runner := p; runner != idomB; {
				df.add(runner, b)
				if runner == tree.entry {
					break // entry has no idom to climb further to
				}
				runner = tree.idom[runner]
			}
		}
	}
	return df
}

func (f *DominanceFrontier) add(block, member int) {
	if f.sets[block] == nil {
		f.sets[block] = map[int]bool{}
	}
	f.sets[block][member] = true
}

// IteratedFrontier computes DF+(s): the union of DF(B) over every seed
// block B in s and every block already added, iterated to a fixed point.
// A seed block is in the result only if it is in some such frontier.
// Deterministic and empty when s is empty.
func IteratedFrontier(df *DominanceFrontier, s []int) []int {
	result := map[int]bool{}
	queue := append([]int(nil), s...)
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, x := range df.Of(b) {
			if !result[x] {
				result[x] = true
				queue = append(queue, x)
			}
		}
	}
	out := make([]int, 0, len(result))
	for b := range result {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}
