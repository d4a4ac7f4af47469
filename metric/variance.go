package metric

import "github.com/Sandy4321/dtree/dist"

// PopulationVariance computes the population variance (divide by n, not
// n-1) of a slice of real numbers. An empty slice has variance 0.
func PopulationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var acc float64
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return acc / float64(len(values))
}

// NodeVariance1 is the variance1 metric at a node: the plain variance kept
// by a CDist.
func NodeVariance1(cd *dist.CDist) (float64, bool) {
	return cd.Variance()
}

// NodeVariance2 is the variance2 metric at a node: variance1 weighted by
// the fraction of the splitting attribute's values that are distinct
// (distinctAttrValues / attrTotal). When attrTotal is 0 (no attribute
// context, i.e. the node's root/marginal variance), it falls back to
// variance1, matching the reference implementation.
func NodeVariance2(cd *dist.CDist, distinctAttrValues, attrTotal int) (float64, bool) {
	v, ok := cd.Variance()
	if !ok || attrTotal == 0 {
		return v, ok
	}
	return v * float64(distinctAttrValues) / float64(attrTotal), true
}
