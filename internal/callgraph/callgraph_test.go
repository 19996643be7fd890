package callgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blendsdk/blend65/internal/callgraph"
)

func TestAddCall_RegistersBothEndsAndDedupsEdges(t *testing.T) {
	g := callgraph.New()
	g.AddCall("a", "b")
	g.AddCall("a", "b") // duplicate, should not appear twice

	assert.ElementsMatch(t, []string{"a", "b"}, g.Functions())
	assert.Equal(t, []string{"b"}, g.Successors("a"))
	assert.Equal(t, []string{"a"}, g.Predecessors("b"))
}

func TestAddFunction_IsolatedNodeHasNoEdges(t *testing.T) {
	g := callgraph.New()
	g.AddFunction("lonely")
	assert.Empty(t, g.Successors("lonely"))
	assert.Empty(t, g.Predecessors("lonely"))
	assert.Contains(t, g.Functions(), "lonely")
}

func TestSCCs_AcyclicGraphIsAllSingletons(t *testing.T) {
	g := callgraph.New()
	g.AddCall("main", "helper")
	g.AddCall("helper", "leaf")

	sccs := g.SCCs()
	require.Len(t, sccs, 3)
	for _, c := range sccs {
		assert.Len(t, c, 1)
		assert.False(t, g.IsRecursive(c))
	}
}

func TestSCCs_DirectSelfRecursionIsRecursive(t *testing.T) {
	g := callgraph.New()
	g.AddCall("f", "f")

	sccs := g.SCCs()
	require.Len(t, sccs, 1)
	assert.True(t, g.IsRecursive(sccs[0]))
}

func TestSCCs_IndirectCycleGroupsIntoOneComponent(t *testing.T) {
	g := callgraph.New()
	g.AddCall("a", "b")
	g.AddCall("b", "c")
	g.AddCall("c", "a")
	g.AddFunction("unrelated")

	sccs := g.SCCs()
	var cyclic []string
	for _, c := range sccs {
		if len(c) > 1 {
			cyclic = c
		}
	}
	require.NotNil(t, cyclic, "expected one multi-node SCC among %v", sccs)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cyclic)
	assert.True(t, g.IsRecursive(cyclic))
}

func TestSCCs_NonTrivialSelfLoopOnSizeOneOnly(t *testing.T) {
	g := callgraph.New()
	g.AddCall("a", "b")
	sccs := g.SCCs()
	for _, c := range sccs {
		assert.False(t, g.IsRecursive(c), "no cycle exists, nothing should be recursive")
	}
}
