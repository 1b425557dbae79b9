package graph

import (
	"slices"
)

// Builder accumulates edges and produces an immutable Graph.
// A Builder is not safe for concurrent use.
type Builder struct {
	adj map[NodeID]map[NodeID]struct{}

	// SelfLoopsDropped counts (a, a) pairs that were not inserted as edges.
	SelfLoopsDropped int
	// DuplicatesDropped counts pairs whose edge already existed, in either orientation.
	DuplicatesDropped int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		adj: make(map[NodeID]map[NodeID]struct{}),
	}
}

// AddNode registers id without any edges. Adding an existing node is a no-op.
func (b *Builder) AddNode(id NodeID) {
	if _, ok := b.adj[id]; !ok {
		b.adj[id] = make(map[NodeID]struct{})
	}
}

// AddEdge inserts the undirected edge {u, v}. A self-loop registers the node
// but never an edge.
func (b *Builder) AddEdge(u, v NodeID) {
	b.AddNode(u)
	if u == v {
		b.SelfLoopsDropped++
		return
	}
	b.AddNode(v)

	if _, exists := b.adj[u][v]; exists {
		b.DuplicatesDropped++
		return
	}
	b.adj[u][v] = struct{}{}
	b.adj[v][u] = struct{}{}
}

// AddEdges inserts every edge of the slice.
func (b *Builder) AddEdges(edges []Edge) {
	for _, e := range edges {
		b.AddEdge(e.U, e.V)
	}
}

// Build freezes the accumulated adjacency sets into a Graph. The result does
// not depend on the order in which edges were added.
func (b *Builder) Build() *Graph {
	nodes := make([]NodeID, 0, len(b.adj))
	for id := range b.adj {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)

	index := make(map[NodeID]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
	}

	adj := make([][]int, len(nodes))
	degreeSum := 0
	for i, id := range nodes {
		set := b.adj[id]
		nbrs := make([]int, 0, len(set))
		for n := range set {
			nbrs = append(nbrs, index[n])
		}
		slices.Sort(nbrs)
		adj[i] = nbrs
		degreeSum += len(nbrs)
	}

	return &Graph{
		nodes: nodes,
		index: index,
		adj:   adj,
		edges: degreeSum / 2,
	}
}

// BuildGraph builds a Graph from an edge list.
func BuildGraph(edges []Edge) *Graph {
	b := NewBuilder()
	b.AddEdges(edges)
	return b.Build()
}
