package graph

import (
	"errors"
	"slices"
)

var ErrCycle = errors.New("graph: dependency cycle")

// Sort returns the nodes with every node after its dependencies. Nodes that
// become ready together keep insertion order. Edges to missing nodes are
// ignored.
func (g *Graph[K]) Sort() ([]K, error) {
	pending := make(map[K]int, len(g.order))
	users := make(map[K][]K, len(g.order))
	for _, n := range g.order {
		for _, dep := range g.deps[n] {
			if g.Has(dep) {
				pending[n]++
				users[dep] = append(users[dep], n)
			}
		}
	}

	ready := make([]K, 0, len(g.order))
	for _, n := range g.order {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}

	sorted := make([]K, 0, len(g.order))
	for i := 0; i < len(ready); i++ {
		n := ready[i]
		sorted = append(sorted, n)
		for _, u := range users[n] {
			if pending[u]--; pending[u] == 0 {
				ready = append(ready, u)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, ErrCycle
	}
	return sorted, nil
}

// ShutdownOrder is Sort reversed: dependents come before what they use.
func (g *Graph[K]) ShutdownOrder() ([]K, error) {
	sorted, err := g.Sort()
	if err != nil {
		return nil, err
	}
	slices.Reverse(sorted)
	return sorted, nil
}
