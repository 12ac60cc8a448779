// Package agg has aggregation logic that turns the raw events of a window
// into its weighted edge list.
package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/schema"
)

// Options controls the optional edge transforms.
type Options struct {
	Directed   bool
	RatioIndex bool // replace summed weights with Nab/(Nab+Na+Nb)
	Trim       bool // drop nodes not observed across the whole window
}

// pair is the canonical endpoint pair of an edge.
type pair struct {
	from, to string
}

// Edges aggregates the events of window w. Steps run in order: sum weights per
// pair, apply the ratio index, then trim using the global node spans.
// The result is sorted by (From, To).
func Edges(events []schema.Event, w schema.Window, spans map[string]eventlog.Span, opts Options) []schema.EdgeRecord {
	sums := sumWeights(events, opts.Directed)
	if opts.RatioIndex {
		sums = ratioIndex(sums, opts.Directed)
	}
	if opts.Trim {
		trimUnobserved(sums, w, spans)
	}
	return sortedEdges(sums)
}

// Sum aggregates events into one edge per endpoint pair with summed weights.
// The result does not depend on event order.
func Sum(events []schema.Event, directed bool) []schema.EdgeRecord {
	return sortedEdges(sumWeights(events, directed))
}

// sumWeights groups events by canonical pair and sums their weights.
func sumWeights(events []schema.Event, directed bool) map[pair]float64 {
	sums := make(map[pair]float64)
	for _, e := range events {
		from, to := schema.CanonicalPair(e.A, e.B, directed)
		sums[pair{from, to}] += e.Weight
	}
	return sums
}

// ratioIndex rewrites each summed weight as Nab/(Nab+Na+Nb), where Na and Nb
// are the weights the endpoints spend on other partners. Pairs with a zero
// denominator are dropped since the ratio is undefined.
func ratioIndex(sums map[pair]float64, directed bool) map[pair]float64 {
	totals := strengths(sums, directed)
	out := make(map[pair]float64, len(sums))
	for p, nab := range sums {
		var na, nb float64
		if directed {
			na = totals[p.from] - nab
			nb = totals[p.to] - sums[pair{p.to, p.from}]
		} else {
			na = totals[p.from] - nab
			nb = totals[p.to] - nab
		}
		na, nb = max(na, 0), max(nb, 0)
		denom := nab + na + nb
		if denom <= 0 {
			continue
		}
		out[p] = nab / denom
	}
	return out
}

// strengths returns out-strength for directed edges and total incident weight
// otherwise.
func strengths(sums map[pair]float64, directed bool) map[string]float64 {
	totals := make(map[string]float64)
	for p, w := range sums {
		totals[p.from] += w
		if !directed {
			totals[p.to] += w
		}
	}
	return totals
}

// trimUnobserved deletes every edge incident to a node whose global span does
// not cover the whole window.
func trimUnobserved(sums map[pair]float64, w schema.Window, spans map[string]eventlog.Span) {
	observed := func(id string) bool {
		s, ok := spans[id]
		return ok && !s.FirstSeen.After(w.Start) && !s.LastSeen.Before(w.End)
	}
	for p := range sums {
		if !observed(p.from) || !observed(p.to) {
			delete(sums, p)
		}
	}
}

func sortedEdges(sums map[pair]float64) []schema.EdgeRecord {
	edges := make([]schema.EdgeRecord, 0, len(sums))
	for p, w := range sums {
		edges = append(edges, schema.EdgeRecord{From: p.from, To: p.to, Weight: w})
	}
	slices.SortFunc(edges, func(a, b schema.EdgeRecord) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	return edges
}
