package graph

import "slices"

type visit struct {
	index   int
	low     int
	onStack bool
}

type tarjan[K comparable] struct {
	g      *Graph[K]
	next   int
	visits map[K]*visit
	stack  []K
	cycles [][]K
}

// Cycles returns each group of nodes that depend on one another, a node
// that depends on itself included. Each cycle starts at the node the
// search entered it through.
func (g *Graph[K]) Cycles() [][]K {
	t := &tarjan[K]{g: g, visits: make(map[K]*visit, len(g.order))}
	for _, n := range g.order {
		if t.visits[n] == nil {
			t.connect(n)
		}
	}
	return t.cycles
}

func (g *Graph[K]) HasCycle() bool {
	return len(g.Cycles()) > 0
}

func (t *tarjan[K]) connect(n K) *visit {
	v := &visit{index: t.next, low: t.next, onStack: true}
	t.next++
	t.visits[n] = v
	t.stack = append(t.stack, n)

	for _, dep := range t.g.deps[n] {
		if !t.g.Has(dep) {
			continue
		}
		switch w := t.visits[dep]; {
		case w == nil:
			v.low = min(v.low, t.connect(dep).low)
		case w.onStack:
			v.low = min(v.low, w.index)
		}
	}

	if v.low != v.index {
		return v
	}

	i := slices.Index(t.stack, n)
	component := slices.Clone(t.stack[i:])
	t.stack = t.stack[:i]
	for _, m := range component {
		t.visits[m].onStack = false
	}

	if len(component) > 1 || slices.Contains(t.g.deps[n], n) {
		t.cycles = append(t.cycles, component)
	}
	return v
}
