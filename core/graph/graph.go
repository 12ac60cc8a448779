// Package graph builds the read-only weighted graph snapshot of one window.
package graph

import (
	"slices"
	"time"

	"github.com/huangsam/netseries/schema"
)

// Meta is the window metadata carried by every snapshot.
type Meta struct {
	Index       int
	EventCount  int // raw events in the window, before any trimming
	WindowStart time.Time
	WindowEnd   time.Time
}

// Snapshot is an immutable weighted graph for one window. The node set is the
// union of edge endpoints. An empty snapshot is valid.
type Snapshot struct {
	directed bool
	nodes    []string
	edges    []schema.EdgeRecord
	out      map[string]map[string]float64
	in       map[string]map[string]float64
	total    float64
	meta     Meta
}

// Build returns the snapshot for an aggregated edge list. Edges are expected
// to be unique per key, as produced by the agg package.
func Build(edges []schema.EdgeRecord, directed bool, meta Meta) *Snapshot {
	s := &Snapshot{
		directed: directed,
		edges:    slices.Clone(edges),
		out:      make(map[string]map[string]float64),
		in:       make(map[string]map[string]float64),
		meta:     meta,
	}
	link := func(adj map[string]map[string]float64, a, b string, w float64) {
		if adj[a] == nil {
			adj[a] = make(map[string]float64)
		}
		adj[a][b] = w
	}
	for _, e := range s.edges {
		link(s.out, e.From, e.To, e.Weight)
		if directed {
			link(s.in, e.To, e.From, e.Weight)
		} else {
			link(s.out, e.To, e.From, e.Weight)
		}
		s.total += e.Weight
	}

	seen := make(map[string]struct{})
	for _, e := range s.edges {
		seen[e.From] = struct{}{}
		seen[e.To] = struct{}{}
	}
	s.nodes = make([]string, 0, len(seen))
	for id := range seen {
		s.nodes = append(s.nodes, id)
	}
	slices.Sort(s.nodes)
	return s
}

// Directed reports whether edges are ordered pairs.
func (s *Snapshot) Directed() bool { return s.directed }

// Meta returns the window metadata.
func (s *Snapshot) Meta() Meta { return s.meta }

// Nodes returns the sorted node identifiers. Callers must not modify it.
func (s *Snapshot) Nodes() []string { return s.nodes }

// Edges returns the edges sorted by key. Callers must not modify it.
func (s *Snapshot) Edges() []schema.EdgeRecord { return s.edges }

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// HasNode reports whether id is an endpoint of any edge.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := slices.BinarySearch(s.nodes, id)
	return ok
}

// HasEdge reports whether the edge a-b (a->b when directed) exists.
func (s *Snapshot) HasEdge(a, b string) bool {
	_, ok := s.out[a][b]
	return ok
}

// Weight returns the weight of a-b (a->b when directed), or 0 when absent.
func (s *Snapshot) Weight(a, b string) float64 {
	return s.out[a][b]
}

// Strength returns the total incident weight of a node, or its out-strength
// when directed.
func (s *Snapshot) Strength(id string) float64 {
	var sum float64
	for _, w := range s.out[id] {
		sum += w
	}
	return sum
}

// InStrength returns the total weight into a node. It equals Strength for
// undirected snapshots.
func (s *Snapshot) InStrength(id string) float64 {
	if !s.directed {
		return s.Strength(id)
	}
	var sum float64
	for _, w := range s.in[id] {
		sum += w
	}
	return sum
}

// Degree returns the number of neighbors, or the out-degree when directed.
func (s *Snapshot) Degree(id string) int { return len(s.out[id]) }

// InDegree returns the in-degree. It equals Degree for undirected snapshots.
func (s *Snapshot) InDegree(id string) int {
	if !s.directed {
		return s.Degree(id)
	}
	return len(s.in[id])
}

// Neighbors returns the sorted successors of a node (all neighbors when
// undirected).
func (s *Snapshot) Neighbors(id string) []string {
	out := make([]string, 0, len(s.out[id]))
	for n := range s.out[id] {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// TotalWeight returns the sum of edge weights.
func (s *Snapshot) TotalWeight() float64 { return s.total }

// Density returns the fraction of possible edges present, or 0 with fewer
// than two nodes.
func (s *Snapshot) Density() float64 {
	n := float64(len(s.nodes))
	if n < 2 {
		return 0
	}
	possible := n * (n - 1)
	if !s.directed {
		possible /= 2
	}
	return float64(len(s.edges)) / possible
}
