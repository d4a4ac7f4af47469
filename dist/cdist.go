package dist

import "fmt"

// CDist incrementally tracks the mean and (population) variance of a
// sequence of real numbers using Welford's online algorithm. Mean and
// Variance are undefined until at least one value has been added.
type CDist struct {
	mean  float64
	m2    float64
	count int
}

// NewCDist returns an empty CDist.
func NewCDist() *CDist {
	return &CDist{}
}

// Add folds x into the running mean/variance.
func (c *CDist) Add(x float64) {
	c.count++
	delta := x - c.mean
	c.mean += delta / float64(c.count)
	c.m2 += delta * (x - c.mean)
}

// Count returns the number of values folded into the distribution.
func (c *CDist) Count() int {
	return c.count
}

// Mean returns the running mean and true, or (0, false) if Count() == 0.
func (c *CDist) Mean() (float64, bool) {
	if c.count == 0 {
		return 0, false
	}
	return c.mean, true
}

// Variance returns the population variance (M2/n, not the sample variance)
// and true, or (0, false) if Count() == 0. The reference implementation
// this is ported from divides by n rather than n-1; that choice is
// preserved deliberately to keep numeric outputs bit-identical with it.
func (c *CDist) Variance() (float64, bool) {
	if c.count == 0 {
		return 0, false
	}
	return c.m2 / float64(c.count), true
}

// Copy returns an independent copy of c.
func (c *CDist) Copy() *CDist {
	cp := *c
	return &cp
}

func (c *CDist) String() string {
	mean, ok := c.Mean()
	if !ok {
		return "CDist<empty>"
	}
	variance, _ := c.Variance()
	return fmt.Sprintf("CDist mean=%v variance=%v n=%d", mean, variance, c.count)
}
