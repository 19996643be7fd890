package ssa

import "sort"

// entrySentinel is the immediate-dominator value reported for the entry
// block: idom(entry) = bottom.
const entrySentinel = -1

// DominatorTree is the result of dominator computation over one
// function's CFG: for every block reachable from the entry, its unique
// immediate dominator, the set of blocks it immediately dominates, and
// its depth in the dominator tree (entry at depth 0).
type DominatorTree struct {
	entry int
	idom  map[int]int
	kids  map[int][]int
	depth map[int]int
	rpo   []int // reverse postorder over reachable blocks, entry first
}

// Idom returns the immediate dominator of id, or entrySentinel if id is
// the entry block. The second return is false if id is unreachable from
// the entry (no dominator relation is defined for it).
func (t *DominatorTree) Idom(id int) (int, bool) {
	d, ok := t.idom[id]
	return d, ok
}

// Children returns the blocks id immediately dominates, in ascending id
// order.
func (t *DominatorTree) Children(id int) []int {
	return append([]int(nil), t.kids[id]...)
}

// Depth returns id's depth in the dominator tree (the entry is depth 0).
// The second return is false if id is unreachable.
func (t *DominatorTree) Depth(id int) (int, bool) {
	d, ok := t.depth[id]
	return d, ok
}

// ReversePostorder returns the reverse-postorder block order the tree was
// computed over, entry first. Exposed for callers (e.g. frontier
// construction) that need the same traversal order for determinism.
func (t *DominatorTree) ReversePostorder() []int {
	return append([]int(nil), t.rpo...)
}

// Dominates reports whether a dominates b: every path from the entry to b
// passes through a. A block dominates itself.
func (t *DominatorTree) Dominates(a, b int) bool {
	if _, ok := t.depth[b]; !ok {
		return false
	}
	if _, ok := t.depth[a]; !ok {
		return false
	}
	for cur := b; ; {
		if cur == a {
			return true
		}
		if cur == t.entry {
			return false
		}
		cur = t.idom[cur]
	}
}

// StrictlyDominates reports Dominates(a,b) && a != b.
func (t *DominatorTree) StrictlyDominates(a, b int) bool {
	return a != b && t.Dominates(a, b)
}

// BuildDominatorTree computes the dominator tree of g using the
// Cooper-Harvey-Kennedy iterative algorithm: blocks are numbered in
// reverse postorder, and each block's immediate dominator is refined by
// repeatedly intersecting the already-processed predecessors' current
// idom until nothing changes. On a reducible CFG this converges in a
// small, deterministic number of passes; ties during intersection are
// broken by reverse-postorder number, which makes the result independent
// of Preds/Succs iteration order.
func BuildDominatorTree(g BlockGraph) *DominatorTree {
	entry := g.EntryID()
	rpo := reversePostorder(g, entry)

	rpoNum := make(map[int]int, len(rpo))
	for i, id := range rpo {
		rpoNum[id] = i
	}

	idom := make(map[int]int, len(rpo))
	idom[entry] = entry // sentinel processed marker; reported via Idom as entrySentinel

	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] {
			var newIdom int = -1
			first := true
			for _, p := range g.Preds(b) {
				if _, ok := idom[p]; !ok {
					continue // predecessor not yet processed this pass
				}
				if first {
					newIdom = p
					first = false
					continue
				}
				newIdom = intersect(idom, rpoNum, newIdom, p)
			}
			if first {
				continue // no processed predecessor yet
			}
			if old, ok := idom[b]; !ok || old != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	tree := &DominatorTree{
		entry: entry,
		idom:  make(map[int]int, len(idom)),
		kids:  make(map[int][]int),
		depth: make(map[int]int, len(idom)),
		rpo:   rpo,
	}
	for _, b := range rpo {
		if b == entry {
			tree.idom[b] = entrySentinel
			continue
		}
		d, ok := idom[b]
		if !ok {
			continue // unreachable from entry
		}
		tree.idom[b] = d
		tree.kids[d] = append(tree.kids[d], b)
	}
	for id := range tree.kids {
		sort.Ints(tree.kids[id])
	}
	tree.depth[entry] = 0
	for _, b := range rpo {
		if b == entry {
			continue
		}
		if _, ok := tree.idom[b]; !ok {
			continue
		}
		computeDepth(tree, b)
	}
	return tree
}

func computeDepth(t *DominatorTree, id int) int {
	if d, ok := t.depth[id]; ok {
		return d
	}
	parent := t.idom[id]
	d := computeDepth(t, parent) + 1
	t.depth[id] = d
	return d
}

// intersect walks two blocks' dominator chains up to their common
// ancestor, the "finger" algorithm from Cooper-Harvey-Kennedy: whichever
// of a/b has the larger rpo number is replaced by its own idom until both
// agree.
func intersect(idom map[int]int, rpoNum map[int]int, a, b int) int {
	for a != b {
		for rpoNum[a] > rpoNum[b] {
			a = idom[a]
		}
		for rpoNum[b] > rpoNum[a] {
			b = idom[b]
		}
	}
	return a
}

// reversePostorder returns the blocks reachable from entry in reverse
// postorder, entry first. Successors are visited in ascending id order so
// the traversal (and hence the resulting dominator tree) is deterministic
// regardless of how a caller constructed the graph's edge lists.
func reversePostorder(g BlockGraph, entry int) []int {
	visited := map[int]bool{}
	var post []int

	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		succs := append([]int(nil), g.Succs(id)...)
		sort.Ints(succs)
		for _, s := range succs {
			visit(s)
		}
		post = append(post, id)
	}
	visit(entry)

	rpo := make([]int, len(post))
	for i, id := range post {
		rpo[len(post)-1-i] = id
	}
	return rpo
}
