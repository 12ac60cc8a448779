package measures

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/netseries/core/graph"
)

// PairwiseMeasure computes one number for a pair of nodes in a snapshot.
type PairwiseMeasure interface {
	Name() string
	Measure(s *graph.Snapshot, a, b string) float64
}

// RawWeight is the weight of the a-b edge.
type RawWeight struct{}

// Name implements PairwiseMeasure.
func (RawWeight) Name() string { return "raw" }

// Measure implements PairwiseMeasure.
func (RawWeight) Measure(s *graph.Snapshot, a, b string) float64 { return s.Weight(a, b) }

// StrengthSum is the combined strength of both nodes.
type StrengthSum struct{}

// Name implements PairwiseMeasure.
func (StrengthSum) Name() string { return "sum" }

// Measure implements PairwiseMeasure.
func (StrengthSum) Measure(s *graph.Snapshot, a, b string) float64 {
	return s.Strength(a) + s.Strength(b)
}

// StrengthMean is the mean strength of both nodes.
type StrengthMean struct{}

// Name implements PairwiseMeasure.
func (StrengthMean) Name() string { return "mean" }

// Measure implements PairwiseMeasure.
func (StrengthMean) Measure(s *graph.Snapshot, a, b string) float64 {
	return (s.Strength(a) + s.Strength(b)) / 2
}

// StrengthDifference is the strength of a minus the strength of b.
type StrengthDifference struct{}

// Name implements PairwiseMeasure.
func (StrengthDifference) Name() string { return "difference" }

// Measure implements PairwiseMeasure.
func (StrengthDifference) Measure(s *graph.Snapshot, a, b string) float64 {
	return s.Strength(a) - s.Strength(b)
}

// WeightProportion is the share of the total weight carried by the a-b edge.
type WeightProportion struct{}

// Name implements PairwiseMeasure.
func (WeightProportion) Name() string { return "proportion" }

// Measure implements PairwiseMeasure.
func (WeightProportion) Measure(s *graph.Snapshot, a, b string) float64 {
	total := s.TotalWeight()
	if total == 0 {
		return math.NaN()
	}
	return s.Weight(a, b) / total
}

var pairwiseStrategies = map[string]PairwiseMeasure{
	RawWeight{}.Name():          RawWeight{},
	StrengthSum{}.Name():        StrengthSum{},
	StrengthMean{}.Name():       StrengthMean{},
	StrengthDifference{}.Name(): StrengthDifference{},
	WeightProportion{}.Name():   WeightProportion{},
}

// Pairwise resolves a pairwise strategy by name.
func Pairwise(name string) (PairwiseMeasure, error) {
	if p, ok := pairwiseStrategies[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: pairwise %q (valid: %v)", ErrUnknownMeasure, name, PairwiseNames())
}

// PairwiseNames lists the pairwise strategies.
func PairwiseNames() []string {
	names := make([]string, 0, len(pairwiseStrategies))
	for n := range pairwiseStrategies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
