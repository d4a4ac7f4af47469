// Package dist implements the online distributions the tree keeps at each
// node: DDist for discrete (class or attribute) values and CDist for
// continuous ones.
package dist

import "fmt"

// DDist incrementally tracks the probability distribution of a set of
// discrete, comparable values: a running count per distinct value plus a
// total. It has no notion of "missing" elements; callers add the sentinel
// value they use for an absent attribute like any other value.
type DDist struct {
	counts map[interface{}]int
	total  int
}

// New returns an empty DDist.
func New() *DDist {
	return &DDist{counts: make(map[interface{}]int)}
}

// Add increments the count for k by count (count may be any positive
// multiplicity, not just 1).
func (d *DDist) Add(k interface{}, count int) {
	if d.counts == nil {
		d.counts = make(map[interface{}]int)
	}
	d.counts[k] += count
	d.total += count
}

// Merge folds other's counts into d.
func (d *DDist) Merge(other *DDist) {
	if other == nil {
		return
	}
	for k, c := range other.counts {
		d.Add(k, c)
	}
}

// Total returns the number of samples folded into the distribution.
func (d *DDist) Total() int {
	return d.total
}

// Count returns the raw count observed for k.
func (d *DDist) Count(k interface{}) int {
	return d.counts[k]
}

// Len returns the number of distinct values observed.
func (d *DDist) Len() int {
	return len(d.counts)
}

// Probability returns counts[k]/total, or 0 if k was never observed or the
// distribution is empty.
func (d *DDist) Probability(k interface{}) float64 {
	if d.total == 0 {
		return 0
	}
	return float64(d.counts[k]) / float64(d.total)
}

// Counts returns a snapshot of the value -> count map. Callers must not rely
// on iteration order; it is randomized like any Go map.
func (d *DDist) Counts() map[interface{}]int {
	m := make(map[interface{}]int, len(d.counts))
	for k, v := range d.counts {
		m[k] = v
	}
	return m
}

// Best returns the value with the highest count and true, or (nil, false) if
// the distribution is empty. Ties are broken by comparing the keys
// themselves (via compareKeys), matching the reference implementation's
// max((count, key)) tuple comparison.
func (d *DDist) Best() (interface{}, bool) {
	if len(d.counts) == 0 {
		return nil, false
	}
	var bestKey interface{}
	bestCount := -1
	first := true
	for k, c := range d.counts {
		if first || c > bestCount || (c == bestCount && compareKeys(k, bestKey) > 0) {
			bestKey, bestCount, first = k, c, false
		}
	}
	return bestKey, true
}

// BestProb returns the probability of Best(), or (0, false) if the
// distribution is empty.
func (d *DDist) BestProb() (float64, bool) {
	k, ok := d.Best()
	if !ok {
		return 0, false
	}
	return d.Probability(k), true
}

// Equal reports whether two distributions have the same counts and total.
func (d *DDist) Equal(other *DDist) bool {
	if other == nil {
		return d == nil
	}
	if d.total != other.total || len(d.counts) != len(other.counts) {
		return false
	}
	for k, c := range d.counts {
		if other.counts[k] != c {
			return false
		}
	}
	return true
}

func (d *DDist) String() string {
	return fmt.Sprintf("DDist%v/%d", d.counts, d.total)
}

// compareKeys orders two distribution keys for tie-breaking. It understands
// the value types the engine actually stores (string, int, float64, bool)
// and falls back to comparing their string representation so the ordering
// stays total and deterministic for any comparable key.
func compareKeys(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return stringCompare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return intCompare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return float64Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return boolCompare(av, bv)
		}
	}
	return stringCompare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func float64Compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}
