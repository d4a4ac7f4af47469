package dist

import (
	"math"
	"testing"
)

func TestCDistWelford(t *testing.T) {
	c := NewCDist()
	for i := 1; i <= 9; i++ {
		c.Add(float64(i))
	}
	mean, ok := c.Mean()
	if !ok || mean != 5.0 {
		t.Error("expected mean 5.0, got", mean, ok)
	}
	variance, ok := c.Variance()
	if !ok {
		t.Error("expected variance to be defined")
	}
	expected := 60.0 / 9.0 // population variance of 1..9
	if math.Abs(variance-expected) > 1e-9 {
		t.Error("expected variance ~=", expected, "got", variance)
	}
}

func TestCDistEmpty(t *testing.T) {
	c := NewCDist()
	if _, ok := c.Mean(); ok {
		t.Error("expected Mean() to report false on an empty distribution")
	}
	if _, ok := c.Variance(); ok {
		t.Error("expected Variance() to report false on an empty distribution")
	}
	if c.Count() != 0 {
		t.Error("expected count 0, got", c.Count())
	}
}

func TestCDistCopyIndependence(t *testing.T) {
	c := NewCDist()
	c.Add(1)
	c.Add(2)
	cp := c.Copy()
	cp.Add(100)
	if c.Count() == cp.Count() {
		t.Error("expected copy to be independent of the original")
	}
}
