package tree

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Sandy4321/dtree/dist"
	"github.com/Sandy4321/dtree/metric"
	"github.com/Sandy4321/dtree/schema"
)

// MissingValuePolicy names a strategy for resolving a query row whose
// split-attribute value was never observed during training. The only
// strategy currently defined is UseNearest.
type MissingValuePolicy string

// UseNearest picks the known attribute value numerically closest to the
// query value. It is only valid for discrete or continuous attributes.
const UseNearest MissingValuePolicy = "use-nearest"

const (
	defaultSplittingN            = 100
	defaultDiscreteLeafThreshold = 1.0
	defaultContinuousLeafThresh  = 0.0
)

// Config carries the knobs recognized by Tree construction. Metric selects
// one of entropy1/entropy2/entropy3 (for a discrete class attribute) or
// variance1/variance2 (for a continuous one); the zero value picks
// entropy1/variance1 respectively. SplittingN and LeafThreshold default per
// §4.5 of the design when left zero; AutoGrow defaults to false.
type Config struct {
	Metric             string
	SplittingN         int
	LeafThreshold      *float64
	AutoGrow           bool
	MissingValuePolicy map[string]MissingValuePolicy
}

// Tree owns a schema, a root Node, and the configuration shared by every
// Node in the tree (read through the Node's non-owning back-reference).
type Tree struct {
	schema *schema.Schema

	DiscreteMetric   metric.DiscreteMetric
	ContinuousMetric metric.ContinuousMetric
	SplittingN       int
	LeafThreshold    float64
	AutoGrow         bool

	MissingValuePolicy map[string]MissingValuePolicy

	root *Node
}

// New validates cfg against s and returns an empty Tree ready for Build or
// Update. It rejects a metric incompatible with the class attribute's type
// and a missing-value policy that cannot apply to its attribute.
func New(s *schema.Schema, cfg Config) (*Tree, error) {
	t := &Tree{
		schema:             s,
		SplittingN:         defaultSplittingN,
		AutoGrow:           cfg.AutoGrow,
		MissingValuePolicy: map[string]MissingValuePolicy{},
	}
	if cfg.SplittingN > 0 {
		t.SplittingN = cfg.SplittingN
	}

	if s.IsContinuousClass() {
		m := cfg.Metric
		if m == "" {
			m = string(metric.Variance1)
		}
		switch metric.ContinuousMetric(m) {
		case metric.Variance1, metric.Variance2:
			t.ContinuousMetric = metric.ContinuousMetric(m)
		default:
			return nil, &ConfigError{Reason: fmt.Sprintf("metric %q is not valid for a continuous class attribute", m)}
		}
		t.LeafThreshold = defaultContinuousLeafThresh
	} else {
		m := cfg.Metric
		if m == "" {
			m = string(metric.Entropy1)
		}
		switch metric.DiscreteMetric(m) {
		case metric.Entropy1, metric.Entropy2, metric.Entropy3:
			t.DiscreteMetric = metric.DiscreteMetric(m)
		default:
			return nil, &ConfigError{Reason: fmt.Sprintf("metric %q is not valid for a discrete class attribute", m)}
		}
		t.LeafThreshold = defaultDiscreteLeafThreshold
	}
	if cfg.LeafThreshold != nil {
		t.LeafThreshold = *cfg.LeafThreshold
	}

	for attr, policy := range cfg.MissingValuePolicy {
		if err := t.validatePolicy(attr, policy); err != nil {
			return nil, err
		}
		t.MissingValuePolicy[attr] = policy
	}

	t.root = newNode(t)
	return t, nil
}

func (t *Tree) validatePolicy(attr string, policy MissingValuePolicy) error {
	a, ok := t.schema.Lookup(attr)
	if !ok {
		return &ConfigError{Reason: "missing-value policy names unknown attribute " + attr}
	}
	if policy != UseNearest {
		return &ConfigError{Reason: fmt.Sprintf("unrecognized missing-value policy %q", policy)}
	}
	if a.Type == schema.Nominal {
		return &ConfigError{Reason: "use-nearest is not a valid missing-value policy for nominal attribute " + attr}
	}
	return nil
}

// SetMissingValuePolicy installs policy for attr, validating it the same
// way Config's MissingValuePolicy map is validated at construction.
func (t *Tree) SetMissingValuePolicy(attr string, policy MissingValuePolicy) error {
	if err := t.validatePolicy(attr, policy); err != nil {
		return err
	}
	t.MissingValuePolicy[attr] = policy
	return nil
}

// Update folds record into the tree's online model: it copies record,
// verifies the class attribute is present, and hands the copy to the root
// Node, which may mutate it as it descends.
func (t *Tree) Update(record Row) error {
	classAttr := t.schema.ClassAttribute()
	if _, ok := record[classAttr]; !ok {
		return &ConfigError{Reason: "row missing class attribute " + classAttr}
	}
	return t.root.Update(record.copy())
}

// UpdateAll drains it, calling Update for every row it yields.
func (t *Tree) UpdateAll(ctx context.Context, it RowIterator) error {
	for {
		row, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := t.Update(row); err != nil {
			return err
		}
	}
}

// Predict returns the LeafDist the tree assigns to record, descending from
// the root. record is copied first; Predict never mutates its argument.
func (t *Tree) Predict(record Row) (*LeafDist, error) {
	return t.root.Predict(record.copy())
}

// Test predicts every row in rows and accumulates prediction error into a
// CDist: mean absolute error (|predicted mean - actual|) for a continuous
// class, or accuracy (1.0 when Best() matches, 0.0 otherwise) for a
// discrete one.
func (t *Tree) Test(rows []Row) (*dist.CDist, error) {
	classAttr := t.schema.ClassAttribute()
	continuousClass := t.schema.IsContinuousClass()
	result := dist.NewCDist()
	for _, row := range rows {
		pred, err := t.Predict(row)
		if err != nil {
			return nil, err
		}
		actual := row[classAttr]
		if continuousClass {
			cd, _ := pred.CDist()
			m, _ := cd.Mean()
			av, ok := actual.(float64)
			if !ok {
				return nil, &schema.RowValidationError{Attribute: classAttr, Reason: "actual class value is not continuous-compatible"}
			}
			result.Add(absFloat(m - av))
		} else {
			best, _ := pred.Best()
			if best == actual {
				result.Add(1.0)
			} else {
				result.Add(0.0)
			}
		}
	}
	return result, nil
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Build (re)grows the tree from scratch in batch ID3 style over rows. When
// leafThreshold is nil, the continuous stop test (variance <= threshold)
// is skipped entirely, so recursion only stops when data or attributes run
// out — one leaf per row, at the limit. When non-nil, it overrides the
// tree's configured LeafThreshold for this build only; it has no effect
// for a discrete class attribute, whose stop test is "fewer than two
// distinct class values" regardless.
func (t *Tree) Build(rows []Row, leafThreshold *float64) error {
	mrows := make([]metric.Row, len(rows))
	for i, r := range rows {
		mrows[i] = metric.Row(r)
	}
	attrs := t.schema.AttributeNames()
	node, leaf := t.buildNode(mrows, attrs, leafThreshold)
	if leaf != nil {
		node = newNode(t)
		node.setAsLeaf(leaf)
	}
	t.root = node
	return nil
}

func (n *Node) setAsLeaf(leaf *LeafDist) {
	switch leaf.kind {
	case DiscreteKind:
		n.classDDist = leaf.ddist
		n.n = leaf.ddist.Total()
	case ContinuousKind:
		n.classCDist = leaf.cdist
		n.n = leaf.cdist.Count()
	}
}

func (t *Tree) buildNode(rows []metric.Row, attrs []string, leafThreshold *float64) (*Node, *LeafDist) {
	classAttr := t.schema.ClassAttribute()
	continuousClass := t.schema.IsContinuousClass()
	stop := t.stopDistribution(rows, classAttr, continuousClass)
	if len(rows) == 0 || len(attrs) == 0 || t.stopTest(stop, continuousClass, leafThreshold) {
		return nil, stop
	}

	best := t.bestBatchAttr(rows, attrs, classAttr, continuousClass)
	remaining := removeAttr(attrs, best)

	node := newNode(t)
	node.attrName = best
	node.n = len(rows)
	for _, r := range rows {
		node.foldClassOnly(r[classAttr])
	}

	for v, group := range groupRowsByAttr(rows, best) {
		child, leaf := t.buildNode(group, remaining, leafThreshold)
		if leaf != nil {
			node.SetLeafDist(v, leaf)
		} else {
			node.addBranch(v, child)
		}
	}
	return node, nil
}

func (n *Node) foldClassOnly(clsVal interface{}) {
	if n.tree.schema.IsContinuousClass() {
		if v, ok := clsVal.(float64); ok {
			n.classCDist.Add(v)
		}
		return
	}
	n.classDDist.Add(clsVal, 1)
}

func (t *Tree) stopDistribution(rows []metric.Row, classAttr string, continuousClass bool) *LeafDist {
	if continuousClass {
		cd := dist.NewCDist()
		for _, r := range rows {
			if v, ok := r[classAttr].(float64); ok {
				cd.Add(v)
			}
		}
		return continuousLeafDist(cd)
	}
	dd := dist.New()
	for _, r := range rows {
		dd.Add(r[classAttr], 1)
	}
	return discreteLeafDist(dd)
}

func (t *Tree) stopTest(leaf *LeafDist, continuousClass bool, leafThreshold *float64) bool {
	if continuousClass {
		if leafThreshold == nil {
			return false
		}
		v, ok := leaf.cdist.Variance()
		return ok && v <= *leafThreshold
	}
	return leaf.ddist.Len() < 2
}

func (t *Tree) bestBatchAttr(rows []metric.Row, attrs []string, classAttr string, continuousClass bool) string {
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a != classAttr {
			names = append(names, a)
		}
	}
	sort.Strings(names)
	var best string
	var bestGain float64
	first := true
	for _, a := range names {
		var g float64
		if continuousClass {
			g = metric.GainVariance(rows, a, classAttr)
		} else {
			g = metric.Gain(t.DiscreteMetric, rows, a, classAttr)
		}
		if first || g >= bestGain {
			best, bestGain, first = a, g, false
		}
	}
	return best
}

func removeAttr(attrs []string, attr string) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a != attr {
			out = append(out, a)
		}
	}
	return out
}

func groupRowsByAttr(rows []metric.Row, attr string) map[interface{}][]metric.Row {
	groups := make(map[interface{}][]metric.Row)
	for _, r := range rows {
		v := r[attr]
		groups[v] = append(groups[v], r)
	}
	return groups
}

// String renders the tree as an indented ASCII diagram, one line per node,
// for debugging and test failure output.
func (t *Tree) String() string {
	return t.root.subtreeString()
}

func (n *Node) subtreeString() string {
	var label string
	if n.attrName == "" {
		label = fmt.Sprintf("leaf n=%d %s", n.n, n.leafDist())
	} else {
		label = fmt.Sprintf("split on %s n=%d", n.attrName, n.n)
	}
	result := fmt.Sprintf("[%s]\n", label)
	for i, v := range n.branchOrder {
		child := n.branches[v]
		prefix := "|__"
		cont := "|  "
		if i == len(n.branchOrder)-1 {
			cont = "   "
		}
		for j, line := range strings.Split(child.subtreeString(), "\n") {
			if line == "" {
				continue
			}
			if j == 0 {
				result += fmt.Sprintf("%s%v = %s\n", prefix, v, line)
			} else {
				result += fmt.Sprintf("%s%s\n", cont, line)
			}
		}
	}
	return result
}

func (l *LeafDist) String() string {
	if l.kind == DiscreteKind {
		return l.ddist.String()
	}
	return l.cdist.String()
}
