// Package measures has the named measures selectable from the command line
// and the MCP tools. Each is a thin function over a graph snapshot.
package measures

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/netseries/core/graph"
	"github.com/huangsam/netseries/schema"
)

// ErrUnknownMeasure indicates a measure or pairwise strategy name that is not registered.
var ErrUnknownMeasure = errors.New("measures: unknown measure")

// Func measures one snapshot.
type Func = func(s *graph.Snapshot) (schema.Value, error)

// LaggedFunc measures an earlier and a current snapshot.
type LaggedFunc = func(prev, cur *graph.Snapshot) (schema.Value, error)

// Level says what a measure is keyed by.
type Level string

// Measure levels.
const (
	GraphLevel  Level = "graph"
	NodeLevel   Level = "node"
	PairLevel   Level = "pair"
	LaggedLevel Level = "lagged"
)

// Definition describes a named measure. Exactly one of Direct and Lagged is set.
type Definition struct {
	Name        string
	Level       Level
	Description string
	Direct      Func
	Lagged      LaggedFunc
}

// IsLagged reports whether the measure compares two snapshots.
func (d Definition) IsLagged() bool { return d.Lagged != nil }

// IsScalar reports whether the measure yields one number per window.
func (d Definition) IsScalar() bool { return d.Level == GraphLevel || d.Level == LaggedLevel }

func scalar(f func(*graph.Snapshot) float64) Func {
	return func(s *graph.Snapshot) (schema.Value, error) {
		return schema.Scalar(f(s)), nil
	}
}

// registry builds the definitions. The pair measure closes over the chosen
// pairwise strategy.
func registry(pw PairwiseMeasure) []Definition {
	return []Definition{
		{Name: "edges", Level: GraphLevel, Description: "number of edges", Direct: scalar(func(s *graph.Snapshot) float64 {
			return float64(s.EdgeCount())
		})},
		{Name: "nodes", Level: GraphLevel, Description: "number of nodes", Direct: scalar(func(s *graph.Snapshot) float64 {
			return float64(s.NodeCount())
		})},
		{Name: "density", Level: GraphLevel, Description: "fraction of possible edges present", Direct: scalar((*graph.Snapshot).Density)},
		{Name: "total-weight", Level: GraphLevel, Description: "sum of edge weights", Direct: scalar((*graph.Snapshot).TotalWeight)},
		{Name: "mean-degree", Level: GraphLevel, Description: "mean (out-)degree over nodes", Direct: scalar(MeanDegree)},
		{Name: "mean-strength", Level: GraphLevel, Description: "mean (out-)strength over nodes", Direct: scalar(MeanStrength)},
		{Name: "degree", Level: NodeLevel, Description: "(out-)degree of each node", Direct: Degree},
		{Name: "strength", Level: NodeLevel, Description: "(out-)strength of each node", Direct: Strength},
		{Name: "pair", Level: PairLevel, Description: fmt.Sprintf("%s pairwise value of each edge", pw.Name()), Direct: Pair(pw)},
		{Name: "cosine", Level: LaggedLevel, Description: "cosine similarity of edge weights", Lagged: Cosine},
		{Name: "jaccard", Level: LaggedLevel, Description: "Jaccard similarity of edge sets", Lagged: Jaccard},
		{Name: "edge-overlap", Level: LaggedLevel, Description: "number of edges present in both snapshots", Lagged: EdgeOverlap},
	}
}

// Lookup resolves a named measure. pw selects the pairwise strategy used by
// the pair measure; nil means raw weight.
func Lookup(name string, pw PairwiseMeasure) (Definition, error) {
	if pw == nil {
		pw = RawWeight{}
	}
	for _, d := range registry(pw) {
		if d.Name == name {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownMeasure, name, Names())
}

// List returns every named measure, sorted by name.
func List() []Definition {
	defs := registry(RawWeight{})
	slices.SortFunc(defs, func(a, b Definition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return defs
}

// Names returns the sorted measure names.
func Names() []string {
	defs := List()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// MeanDegree is the mean (out-)degree, or NaN for an empty snapshot.
func MeanDegree(s *graph.Snapshot) float64 {
	if s.NodeCount() == 0 {
		return math.NaN()
	}
	var sum int
	for _, n := range s.Nodes() {
		sum += s.Degree(n)
	}
	return float64(sum) / float64(s.NodeCount())
}

// MeanStrength is the mean (out-)strength, or NaN for an empty snapshot.
func MeanStrength(s *graph.Snapshot) float64 {
	if s.NodeCount() == 0 {
		return math.NaN()
	}
	var sum float64
	for _, n := range s.Nodes() {
		sum += s.Strength(n)
	}
	return sum / float64(s.NodeCount())
}

// Degree returns the (out-)degree of every node.
func Degree(s *graph.Snapshot) (schema.Value, error) {
	m := make(map[string]float64, s.NodeCount())
	for _, n := range s.Nodes() {
		m[n] = float64(s.Degree(n))
	}
	return schema.NodeValues(m), nil
}

// Strength returns the (out-)strength of every node.
func Strength(s *graph.Snapshot) (schema.Value, error) {
	m := make(map[string]float64, s.NodeCount())
	for _, n := range s.Nodes() {
		m[n] = s.Strength(n)
	}
	return schema.NodeValues(m), nil
}

// Pair returns a measure that applies pw to every edge of a snapshot.
func Pair(pw PairwiseMeasure) Func {
	return func(s *graph.Snapshot) (schema.Value, error) {
		m := make(map[string]float64, s.EdgeCount())
		for _, e := range s.Edges() {
			m[e.Key(s.Directed())] = pw.Measure(s, e.From, e.To)
		}
		return schema.PairValues(m), nil
	}
}

// edgeWeights maps pair keys to weights.
func edgeWeights(s *graph.Snapshot) map[string]float64 {
	m := make(map[string]float64, s.EdgeCount())
	for _, e := range s.Edges() {
		m[e.Key(s.Directed())] = e.Weight
	}
	return m
}

// Cosine is the cosine similarity of the edge weight vectors. It is missing
// when either snapshot has no weight.
func Cosine(prev, cur *graph.Snapshot) (schema.Value, error) {
	p, c := edgeWeights(prev), edgeWeights(cur)
	var dot, np, nc float64
	for k, w := range p {
		np += w * w
		dot += w * c[k]
	}
	for _, w := range c {
		nc += w * w
	}
	if np == 0 || nc == 0 {
		return schema.Missing(), nil
	}
	return schema.Scalar(dot / (math.Sqrt(np) * math.Sqrt(nc))), nil
}

// Jaccard is |E1 ∩ E2| / |E1 ∪ E2| over edge keys, missing when both are empty.
func Jaccard(prev, cur *graph.Snapshot) (schema.Value, error) {
	p, c := edgeWeights(prev), edgeWeights(cur)
	shared := overlap(p, c)
	union := len(p) + len(c) - shared
	if union == 0 {
		return schema.Missing(), nil
	}
	return schema.Scalar(float64(shared) / float64(union)), nil
}

// EdgeOverlap counts edge keys present in both snapshots.
func EdgeOverlap(prev, cur *graph.Snapshot) (schema.Value, error) {
	return schema.Scalar(float64(overlap(edgeWeights(prev), edgeWeights(cur)))), nil
}

func overlap(a, b map[string]float64) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
