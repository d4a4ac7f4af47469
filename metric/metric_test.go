package metric

import (
	"math"
	"testing"
)

func TestDatasetEntropyPureSetIsZero(t *testing.T) {
	counts := map[interface{}]int{"a": 4}
	if h := DatasetEntropy(Entropy1, counts, 4); h != 0 {
		t.Error("expected entropy of a pure set to be 0, got", h)
	}
}

func TestDatasetEntropyBinarySplitIsOne(t *testing.T) {
	counts := map[interface{}]int{"a": 8, "b": 8}
	h := DatasetEntropy(Entropy1, counts, 16)
	if math.Abs(h-1.0) > 1e-9 {
		t.Error("expected entropy of an even binary split to be 1.0, got", h)
	}
}

func TestDatasetEntropy2And3PenalizeUniqueValues(t *testing.T) {
	// Eight singleton buckets: entropy1 is at its max for 8 values (log base
	// 8 of 1/8 each => 1.0), entropy2/3 subtract (U-1)/T on top of that.
	counts := map[interface{}]int{}
	for i := 0; i < 8; i++ {
		counts[i] = 1
	}
	e1 := DatasetEntropy(Entropy1, counts, 8)
	e2 := DatasetEntropy(Entropy2, counts, 8)
	e3 := DatasetEntropy(Entropy3, counts, 8)
	if math.Abs(e1-1.0) > 1e-9 {
		t.Error("expected entropy1 == 1.0, got", e1)
	}
	wantE2 := 1.0 - 7.0/8.0
	if math.Abs(e2-wantE2) > 1e-9 {
		t.Error("expected entropy2 ==", wantE2, "got", e2)
	}
	wantE3 := 1.0 - 100*7.0/8.0
	if math.Abs(e3-wantE3) > 1e-9 {
		t.Error("expected entropy3 ==", wantE3, "got", e3)
	}
}

func TestNodeEntropyAddsUOverA(t *testing.T) {
	counts := map[interface{}]int{"a": 2, "b": 2}
	e1 := NodeEntropy(Entropy1, counts, 4, 3)
	if math.Abs(e1-1.0) > 1e-9 {
		t.Error("expected entropy1 == 1.0, got", e1)
	}
	e2 := NodeEntropy(Entropy2, counts, 4, 3)
	want := 1.0 + 3.0/4.0
	if math.Abs(e2-want) > 1e-9 {
		t.Error("expected node entropy2 ==", want, "got", e2)
	}
}

func TestGainNonNegativeOnSeparableData(t *testing.T) {
	rows := []Row{
		{"attr": "x", "class": "yes"},
		{"attr": "x", "class": "yes"},
		{"attr": "y", "class": "no"},
		{"attr": "y", "class": "no"},
	}
	g := Gain(Entropy1, rows, "attr", "class")
	if g < 1.0-1e-9 {
		t.Error("expected a perfectly separating attribute to have gain 1.0, got", g)
	}
}

func TestGainVarianceOfPopulationVariance(t *testing.T) {
	rows := []Row{
		{"attr": "x", "class": 1.0},
		{"attr": "x", "class": 1.0},
		{"attr": "y", "class": 5.0},
		{"attr": "y", "class": 5.0},
	}
	g := GainVariance(rows, "attr", "class")
	if g < 0 {
		t.Error("expected non-negative gain, got", g)
	}
	want := PopulationVariance([]float64{1, 1, 5, 5})
	if math.Abs(g-want) > 1e-9 {
		t.Error("expected full variance reduction for a perfectly separating attribute, got", g, "want", want)
	}
}
