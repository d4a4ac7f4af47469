// Package metric implements the entropy/variance/information-gain family
// the tree uses to pick a splitting attribute, both over raw record lists
// (the batch build path) and over a node's cached sufficient statistics
// (the online path).
package metric

import "math"

// DiscreteMetric names one of the three entropy variants usable when the
// class attribute is discrete.
type DiscreteMetric string

const (
	Entropy1 DiscreteMetric = "entropy1"
	Entropy2 DiscreteMetric = "entropy2"
	Entropy3 DiscreteMetric = "entropy3"
)

// ContinuousMetric names one of the two variance variants usable when the
// class attribute is continuous.
type ContinuousMetric string

const (
	Variance1 ContinuousMetric = "variance1"
	Variance2 ContinuousMetric = "variance2"
)

// shannon computes -sum((c/total)*log_base(c/total)) for a count map, using
// base = max(2, len(counts)) as the reference implementation does (so a
// binary split logs base 2, but a k-way split logs base k, keeping entropy
// bounded to [0,1] regardless of branching factor).
func shannon(counts map[interface{}]int, total int) float64 {
	if total == 0 {
		return 0
	}
	base := math.Max(2, float64(len(counts)))
	logBase := math.Log(base)
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * (math.Log(p) / logBase)
	}
	return h
}

// DatasetEntropy computes entropy1/2/3 over a whole dataset (or subset)
// count map, where T = A = total and U is the number of distinct values in
// counts. This is the batch-build call shape: entropy2/3 penalize a
// universally-unique class value by subtracting (U-1)/T.
func DatasetEntropy(method DiscreteMetric, counts map[interface{}]int, total int) float64 {
	h := shannon(counts, total)
	if total == 0 {
		return h
	}
	u := len(counts)
	switch method {
	case Entropy2:
		return h - float64(u-1)/float64(total)
	case Entropy3:
		return h - 100*float64(u-1)/float64(total)
	default:
		return h
	}
}

// NodeEntropy computes entropy1/2/3 from a node's cached statistics for one
// cell of the joint (attribute, value, class) count map.
//
// counts is the class-value count map for that cell (its sum is T). attrTotal
// is A: the attribute's total observed count across all its values (or, when
// computing the node's own marginal/main entropy, simply T again). uniqueCount
// is U: the number of distinct values of the *attribute* (not of the class)
// observed at this node — or, for the marginal entropy call, the number of
// distinct class values. Callers pass these two different meanings through
// the same parameters; see SPEC_FULL.md §9 for why the node-level formula
// adds U/A while DatasetEntropy subtracts (U-1)/T.
func NodeEntropy(method DiscreteMetric, counts map[interface{}]int, attrTotal int, uniqueCount int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	h := shannon(counts, total)
	if attrTotal == 0 {
		return h
	}
	switch method {
	case Entropy2:
		return h + float64(uniqueCount)/float64(attrTotal)
	case Entropy3:
		return h + 100*float64(uniqueCount)/float64(attrTotal)
	default:
		return h
	}
}
