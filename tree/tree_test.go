package tree

import (
	"math"
	"testing"

	"github.com/Sandy4321/dtree/metric"
	"github.com/Sandy4321/dtree/schema"
)

func cdata2Schema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]schema.Attribute{
		{Name: "a", Type: schema.Discrete},
		{Name: "b", Type: schema.Discrete},
		{Name: "c", Type: schema.Discrete},
		{Name: "d", Type: schema.Discrete},
		{Name: "cls", Type: schema.Nominal, Class: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// cdata2Rows reproduces the 16-row fixture described as scenario 3: a
// splits the class perfectly into 2 groups, b into 4, c into 8, while d's 8
// values are each an even 50/50 mix of the class.
func cdata2Rows() []Row {
	rows := make([]Row, 16)
	for i := 0; i < 16; i++ {
		cls := "yes"
		if i >= 8 {
			cls = "no"
		}
		rows[i] = Row{
			"a":   i / 8,
			"b":   i / 4,
			"c":   i / 2,
			"d":   i % 8,
			"cls": cls,
		}
	}
	return rows
}

func TestOnlineNodeEntropy2GainsMatchTieBrokenScenario(t *testing.T) {
	s := cdata2Schema(t)
	tr, err := New(s, Config{Metric: string(metric.Entropy2)})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range cdata2Rows() {
		if err := tr.Update(r); err != nil {
			t.Fatal(err)
		}
	}
	want := map[string]float64{"a": 1.0, "b": 0.875, "c": 0.625, "d": -0.375}
	for attr, w := range want {
		g := tr.root.GetGain(attr)
		if math.Abs(g-w) > 1e-9 {
			t.Errorf("gain(%s) = %v, want %v", attr, g, w)
		}
	}
	best, _ := tr.root.GetBestSplittingAttr()
	if best != "a" {
		t.Errorf("expected best attribute to be a, got %s", best)
	}
}

func TestOnlineNodeEntropy1GainsAreTiedAmongPureAttributes(t *testing.T) {
	s := cdata2Schema(t)
	tr, err := New(s, Config{Metric: string(metric.Entropy1)})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range cdata2Rows() {
		if err := tr.Update(r); err != nil {
			t.Fatal(err)
		}
	}
	for _, attr := range []string{"a", "b", "c"} {
		g := tr.root.GetGain(attr)
		if math.Abs(g-1.0) > 1e-9 {
			t.Errorf("gain(%s) = %v, want 1.0", attr, g)
		}
	}
	if g := tr.root.GetGain("d"); math.Abs(g) > 1e-9 {
		t.Errorf("gain(d) = %v, want 0.0", g)
	}
}

func TestOnlineGrowthReachesPerfectAccuracy(t *testing.T) {
	s := cdata2Schema(t)
	tr, err := New(s, Config{Metric: string(metric.Entropy2), SplittingN: 17, AutoGrow: true})
	if err != nil {
		t.Fatal(err)
	}
	rows := cdata2Rows()

	if _, err := tr.Test(rows); err == nil {
		t.Error("expected testing an untrained tree to fail with ErrNotReadyToPredict")
	}

	for pass := 0; pass < 8; pass++ {
		for _, r := range rows {
			rowCopy := Row{}
			for k, v := range r {
				rowCopy[k] = v
			}
			if err := tr.Update(rowCopy); err != nil {
				t.Fatal(err)
			}
		}
	}

	acc, err := tr.Test(rows)
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := acc.Mean(); math.Abs(m-1.0) > 1e-9 {
		t.Errorf("accuracy after growth = %v, want 1.0", m)
	}
}

func TestMissingValuePolicy(t *testing.T) {
	s := cdata2Schema(t)
	tr, err := New(s, Config{Metric: string(metric.Entropy1), SplittingN: 16, AutoGrow: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range cdata2Rows() {
		rowCopy := Row{}
		for k, v := range r {
			rowCopy[k] = v
		}
		if err := tr.Update(rowCopy); err != nil {
			t.Fatal(err)
		}
	}

	// a, b and c tie on entropy1 gain, so the root splits on c (the later
	// name); c=9 was never observed.
	_, err = tr.Predict(Row{"a": 7, "b": 7, "c": 9, "d": 7})
	if err == nil {
		t.Fatal("expected an error predicting an unseen attribute value with no policy installed")
	}
	if _, ok := err.(*MissingPolicyError); !ok {
		t.Fatalf("expected a *MissingPolicyError, got %T: %v", err, err)
	}

	if err := tr.SetMissingValuePolicy("c", UseNearest); err != nil {
		t.Fatal(err)
	}
	ld, err := tr.Predict(Row{"a": 7, "b": 7, "c": 9, "d": 7})
	if err != nil {
		t.Fatalf("expected predict to succeed once use-nearest is installed, got %v", err)
	}
	if ld == nil {
		t.Fatal("expected a non-nil prediction")
	}
}

func TestSetMissingValuePolicyRejectsNominalAttribute(t *testing.T) {
	s := cdata2Schema(t)
	tr, err := New(s, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.SetMissingValuePolicy("cls", UseNearest); err == nil {
		t.Error("expected an error installing use-nearest on a nominal attribute")
	}
}

func TestNewRejectsIncompatibleMetric(t *testing.T) {
	s := cdata2Schema(t)
	if _, err := New(s, Config{Metric: "variance1"}); err == nil {
		t.Error("expected an error: variance1 is not valid for a discrete class attribute")
	}
}

func regressionSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]schema.Attribute{
		{Name: "x", Type: schema.Nominal},
		{Name: "y", Type: schema.Continuous, Class: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBatchBuildRegressionOneLeafPerRowWithoutThreshold(t *testing.T) {
	s := regressionSchema(t)
	tr, err := New(s, Config{})
	if err != nil {
		t.Fatal(err)
	}
	rows := []Row{
		{"x": "p", "y": 1.0},
		{"x": "q", "y": 2.0},
		{"x": "r", "y": 3.0},
		{"x": "s", "y": 4.0},
	}
	if err := tr.Build(rows, nil); err != nil {
		t.Fatal(err)
	}
	leaves := countLeaves(tr.root)
	if leaves != len(rows) {
		t.Errorf("expected %d leaves (one per row) with no threshold, got %d", len(rows), leaves)
	}
	result, err := tr.Test(rows)
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := result.Mean(); math.Abs(m) > 1e-9 {
		t.Errorf("expected zero MAE on training data with one leaf per row, got %v", m)
	}
}

func TestBatchBuildRegressionThresholdReducesLeafCount(t *testing.T) {
	s := regressionSchema(t)
	tr, err := New(s, Config{})
	if err != nil {
		t.Fatal(err)
	}
	rows := []Row{
		{"x": "p", "y": 1.0},
		{"x": "p", "y": 1.1},
		{"x": "q", "y": 2.0},
		{"x": "q", "y": 2.1},
	}
	threshold := 1.0
	if err := tr.Build(rows, &threshold); err != nil {
		t.Fatal(err)
	}
	if leaves := countLeaves(tr.root); leaves >= len(rows) {
		t.Errorf("expected fewer leaves than rows with a loose threshold, got %d", leaves)
	}
}

func TestBatchBuildClassificationAccuracyOne(t *testing.T) {
	s, err := schema.New([]schema.Attribute{
		{Name: "age", Type: schema.Nominal},
		{Name: "marital", Type: schema.Nominal},
		{Name: "buys", Type: schema.Nominal, Class: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	tr, err := New(s, Config{})
	if err != nil {
		t.Fatal(err)
	}
	rows := []Row{
		{"age": "18-35", "marital": "single", "buys": "no buy"},
		{"age": "18-35", "marital": "married", "buys": "no buy"},
		{"age": "36-55", "marital": "single", "buys": "will buy"},
		{"age": "36-55", "marital": "married", "buys": "no buy"},
		{"age": "56+", "marital": "single", "buys": "no buy"},
		{"age": "56+", "marital": "married", "buys": "no buy"},
	}
	if err := tr.Build(rows, nil); err != nil {
		t.Fatal(err)
	}
	result, err := tr.Test(rows)
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := result.Mean(); math.Abs(m-1.0) > 1e-9 {
		t.Errorf("expected training accuracy 1.0, got %v", m)
	}

	node := tr.root
	if node.attrName != "age" {
		t.Fatalf("expected root split on age, got %s", node.attrName)
	}
	child, ok := node.branches["36-55"]
	if !ok {
		t.Fatal("expected a branch for age=36-55")
	}
	if child.attrName != "marital" {
		t.Fatalf("expected age=36-55 node to split on marital, got %s", child.attrName)
	}
	leaf, ok := child.branches["single"]
	if !ok {
		t.Fatal("expected a branch for marital=single")
	}
	best, _ := leaf.classDDist.Best()
	if best != "will buy" {
		t.Errorf("expected age=36-55,marital=single leaf to predict 'will buy', got %v", best)
	}
}

func countLeaves(n *Node) int {
	if n.attrName == "" {
		return 1
	}
	total := 0
	for _, child := range n.branches {
		total += countLeaves(child)
	}
	return total
}
