// Package graph holds the dependency graph between registered services.
package graph

import "slices"

// Graph maps each node to the nodes it depends on. Traversals follow
// insertion order, so results are deterministic. A Graph is built and read
// by one goroutine.
type Graph[K comparable] struct {
	order []K
	deps  map[K][]K
}

func New[K comparable]() *Graph[K] {
	return &Graph[K]{deps: make(map[K][]K)}
}

// AddNode adds id, merging deps into an existing node's dependencies.
func (g *Graph[K]) AddNode(id K, deps ...K) {
	existing, ok := g.deps[id]
	if !ok {
		g.order = append(g.order, id)
	}
	for _, dep := range deps {
		if !slices.Contains(existing, dep) {
			existing = append(existing, dep)
		}
	}
	g.deps[id] = existing
}

func (g *Graph[K]) Has(id K) bool {
	_, ok := g.deps[id]
	return ok
}

func (g *Graph[K]) Dependencies(id K) []K {
	return slices.Clone(g.deps[id])
}

// Dependents returns the nodes that depend on id.
func (g *Graph[K]) Dependents(id K) []K {
	var out []K
	for _, n := range g.order {
		if slices.Contains(g.deps[n], id) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph[K]) Nodes() []K {
	return slices.Clone(g.order)
}

func (g *Graph[K]) Len() int {
	return len(g.order)
}

// Missing returns every dependency that was never added as a node, once
// each, in the order first referenced.
func (g *Graph[K]) Missing() []K {
	var missing []K
	for _, n := range g.order {
		for _, dep := range g.deps[n] {
			if !g.Has(dep) && !slices.Contains(missing, dep) {
				missing = append(missing, dep)
			}
		}
	}
	return missing
}
