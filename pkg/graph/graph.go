// Package graph holds the immutable undirected adjacency-set graph that every
// metric in pkg/algorithms reads from.
//
// A Graph is produced once by a Builder and is never modified afterwards, so it
// can be shared between goroutines without locking.
package graph

import (
	"slices"
)

// NodeID is an opaque non-negative node identifier.
type NodeID uint64

// Edge is an unordered pair of node ids as read from an edge list.
type Edge struct {
	U NodeID
	V NodeID
}

// Graph is an undirected simple graph stored as sorted adjacency lists.
//
// Nodes are addressed either by NodeID or by their dense index in ascending
// NodeID order. Index-based accessors exist for the algorithms, which run BFS
// and set intersections over ints instead of hashing ids.
type Graph struct {
	nodes []NodeID       // ascending
	index map[NodeID]int // NodeID -> position in nodes
	adj   [][]int        // adj[i] holds neighbor indices of nodes[i], ascending
	edges int            // undirected edge count
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns a copy of the node ids in ascending order.
func (g *Graph) Nodes() []NodeID {
	return slices.Clone(g.nodes)
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// IndexOf returns the dense index of id.
func (g *Graph) IndexOf(id NodeID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// NodeAt returns the id stored at dense index i.
func (g *Graph) NodeAt(i int) NodeID {
	return g.nodes[i]
}

// Degree returns the degree of id, or 0 if the node is unknown.
func (g *Graph) Degree(id NodeID) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[i])
}

// DegreeAt returns the degree of the node at dense index i.
func (g *Graph) DegreeAt(i int) int {
	return len(g.adj[i])
}

// Neighbors returns a copy of the neighbor ids of id in ascending order.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]NodeID, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.nodes[j]
	}
	return out
}

// NeighborIndices returns the ascending neighbor indices of the node at dense
// index i. The returned slice is shared with the graph and must not be modified.
func (g *Graph) NeighborIndices(i int) []int {
	return g.adj[i]
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v NodeID) bool {
	i, ok := g.index[u]
	if !ok {
		return false
	}
	j, ok := g.index[v]
	if !ok {
		return false
	}
	return g.AdjacentAt(i, j)
}

// AdjacentAt reports whether the nodes at dense indices i and j are adjacent.
// It binary-searches the shorter of the two adjacency lists.
func (g *Graph) AdjacentAt(i, j int) bool {
	a, target := g.adj[i], j
	if len(g.adj[j]) < len(a) {
		a, target = g.adj[j], i
	}
	_, found := slices.BinarySearch(a, target)
	return found
}

// Equal reports whether g and other have the same node set and adjacency sets.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.edges != other.edges || !slices.Equal(g.nodes, other.nodes) {
		return false
	}
	for i := range g.adj {
		if !slices.Equal(g.adj[i], other.adj[i]) {
			return false
		}
	}
	return true
}

// Edges returns every undirected edge once, as (smaller, larger) id pairs in
// ascending order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i, nbrs := range g.adj {
		for _, j := range nbrs {
			if j > i {
				out = append(out, Edge{U: g.nodes[i], V: g.nodes[j]})
			}
		}
	}
	return out
}
