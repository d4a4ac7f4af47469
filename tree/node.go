package tree

import (
	"fmt"
	"math"
	"sort"

	"github.com/Sandy4321/dtree/dist"
	"github.com/Sandy4321/dtree/metric"
	"github.com/Sandy4321/dtree/schema"
)

// Node is a single tree vertex. It accumulates sufficient statistics over
// every row that reaches it and, once split, routes further rows to a
// child keyed by the chosen attribute's value. The tree field is a
// non-owning back-reference used only to read shared configuration
// (metric, thresholds, schema); a Node owns its own children exclusively.
type Node struct {
	tree     *Tree
	n        int
	attrName string

	branches    map[interface{}]*Node
	branchOrder []interface{}

	attrValueCounts      map[string]map[interface{}]int
	attrValueCountTotals map[string]int
	attrClassValueCounts map[string]map[interface{}]map[interface{}]int
	attrValueCDist       map[string]map[interface{}]*dist.CDist

	classDDist *dist.DDist
	classCDist *dist.CDist
}

func newNode(t *Tree) *Node {
	nd := &Node{
		tree:                 t,
		branches:             map[interface{}]*Node{},
		attrValueCounts:      map[string]map[interface{}]int{},
		attrValueCountTotals: map[string]int{},
	}
	if t.schema.IsContinuousClass() {
		nd.classCDist = dist.NewCDist()
		nd.attrValueCDist = map[string]map[interface{}]*dist.CDist{}
	} else {
		nd.classDDist = dist.New()
		nd.attrClassValueCounts = map[string]map[interface{}]map[interface{}]int{}
	}
	return nd
}

func (n *Node) addBranch(v interface{}, child *Node) {
	if _, exists := n.branches[v]; !exists {
		n.branchOrder = append(n.branchOrder, v)
	}
	n.branches[v] = child
}

// SetLeafDist attaches a pre-computed leaf distribution as the child for
// branch value v, used by the batch builder when a recursive call over a
// data subset stops before producing a further split. The resulting child
// is itself an unsplit Node, so Predict treats it like any other leaf.
func (n *Node) SetLeafDist(v interface{}, ld *LeafDist) {
	child := newNode(n.tree)
	switch ld.kind {
	case DiscreteKind:
		child.classDDist = ld.ddist
		child.n = ld.ddist.Total()
	case ContinuousKind:
		child.classCDist = ld.cdist
		child.n = ld.cdist.Count()
	}
	n.addBranch(v, child)
}

// Update folds record's class value and attribute values into this node's
// statistics, splits the node if it has just become ready to, and forwards
// record on to the appropriate child if already split. record is mutated:
// once the split attribute's value has been used for routing, its entry is
// deleted before the recursive call, matching the reference implementation.
func (n *Node) Update(record Row) error {
	classAttr := n.tree.schema.ClassAttribute()
	clsVal, ok := record[classAttr]
	if !ok {
		return &ConfigError{Reason: "row missing class attribute " + classAttr}
	}
	continuousClass := n.tree.schema.IsContinuousClass()
	var clsNum float64
	if continuousClass {
		v, ok := clsVal.(float64)
		if !ok {
			return &schema.RowValidationError{Attribute: classAttr, Reason: fmt.Sprintf("class value %v is not continuous-compatible", clsVal)}
		}
		clsNum = v
	}

	n.n++
	if continuousClass {
		n.classCDist.Add(clsNum)
	} else {
		n.classDDist.Add(clsVal, 1)
	}

	for _, a := range n.tree.schema.AttributeNames() {
		v, present := record[a]
		if !present {
			continue
		}
		n.recordAttrValue(a, v, clsVal, clsNum, continuousClass)
	}

	if n.attrName == "" && n.ReadyToSplit() {
		best, _ := n.GetBestSplittingAttr()
		n.attrName = best
		for v := range n.attrValueCounts[best] {
			if _, exists := n.branches[v]; !exists {
				n.addBranch(v, newNode(n.tree))
			}
		}
	}

	if n.attrName != "" {
		if v, present := record[n.attrName]; present {
			child, ok := n.branches[v]
			if !ok {
				child = newNode(n.tree)
				n.addBranch(v, child)
			}
			delete(record, n.attrName)
			return child.Update(record)
		}
	}
	return nil
}

func (n *Node) recordAttrValue(a string, v, clsVal interface{}, clsNum float64, continuousClass bool) {
	if n.attrValueCounts[a] == nil {
		n.attrValueCounts[a] = map[interface{}]int{}
	}
	n.attrValueCounts[a][v]++
	n.attrValueCountTotals[a]++

	if continuousClass {
		if n.attrValueCDist[a] == nil {
			n.attrValueCDist[a] = map[interface{}]*dist.CDist{}
		}
		cd, ok := n.attrValueCDist[a][v]
		if !ok {
			cd = dist.NewCDist()
			n.attrValueCDist[a][v] = cd
		}
		cd.Add(clsNum)
		return
	}
	if n.attrClassValueCounts[a] == nil {
		n.attrClassValueCounts[a] = map[interface{}]map[interface{}]int{}
	}
	if n.attrClassValueCounts[a][v] == nil {
		n.attrClassValueCounts[a][v] = map[interface{}]int{}
	}
	n.attrClassValueCounts[a][v][clsVal]++
}

// GetGain returns the information gain of splitting this node on attr,
// computed from cached per-node statistics (the online path's call shape:
// node entropy adds U/A rather than the batch path's subtracting (U-1)/T,
// see DESIGN.md).
func (n *Node) GetGain(attr string) float64 {
	if n.tree.schema.IsContinuousClass() {
		return n.varianceGain(attr)
	}
	return n.entropyGain(attr)
}

func (n *Node) entropyGain(attr string) float64 {
	method := n.tree.DiscreteMetric
	mainEntropy := metric.NodeEntropy(method, n.classDDist.Counts(), n.n, n.classDDist.Len())
	attrTotal := n.attrValueCountTotals[attr]
	if attrTotal == 0 {
		return 0
	}
	distinctAttrValues := len(n.attrValueCounts[attr])
	var subset float64
	for v, count := range n.attrValueCounts[attr] {
		p := float64(count) / float64(attrTotal)
		cellCounts := n.attrClassValueCounts[attr][v]
		subset += p * metric.NodeEntropy(method, cellCounts, attrTotal, distinctAttrValues)
	}
	return mainEntropy - subset
}

func (n *Node) varianceGain(attr string) float64 {
	method := n.tree.ContinuousMetric
	mainVariance, _ := metric.NodeVariance1(n.classCDist)
	attrTotal := n.attrValueCountTotals[attr]
	if attrTotal == 0 {
		return 0
	}
	distinctAttrValues := len(n.attrValueCounts[attr])
	var subset float64
	for v, count := range n.attrValueCounts[attr] {
		p := float64(count) / float64(attrTotal)
		cd := n.attrValueCDist[attr][v]
		var cv float64
		if method == metric.Variance2 {
			cv, _ = metric.NodeVariance2(cd, distinctAttrValues, attrTotal)
		} else {
			cv, _ = metric.NodeVariance1(cd)
		}
		subset += p * cv
	}
	return mainVariance - subset
}

// GetBestSplittingAttr returns the non-class attribute observed at this
// node with the highest GetGain, scanning attribute names in sorted order
// so that a tie (gain >= the running best) is always won by the
// later-scanned name, deterministically.
func (n *Node) GetBestSplittingAttr() (string, float64) {
	names := make([]string, 0, len(n.attrValueCounts))
	for a := range n.attrValueCounts {
		names = append(names, a)
	}
	sort.Strings(names)
	var best string
	var bestGain float64
	first := true
	for _, a := range names {
		g := n.GetGain(a)
		if first || g >= bestGain {
			best, bestGain, first = a, g, false
		}
	}
	return best, bestGain
}

// ReadyToSplit reports whether this node should fix a split attribute on
// its next Update: the tree must have online growth enabled, the node must
// be unsplit, have accumulated at least SplittingN samples, and its current
// leaf quality must be below LeafThreshold.
func (n *Node) ReadyToSplit() bool {
	t := n.tree
	if !t.AutoGrow || n.attrName != "" || n.n < t.SplittingN {
		return false
	}
	if t.schema.IsContinuousClass() {
		v, ok := n.classCDist.Variance()
		return ok && v > t.LeafThreshold
	}
	p, ok := n.classDDist.BestProb()
	return ok && p < t.LeafThreshold
}

// ReadyToPredict reports whether this node has ever been updated.
func (n *Node) ReadyToPredict() bool {
	return n.n > 0
}

// Predict returns the class distribution record falls into, descending
// through children when this node is split. ErrNotReadyToPredict from a
// child is caught here and converted into a fallback on this node's own
// distribution, rather than propagated to the caller.
func (n *Node) Predict(record Row) (*LeafDist, error) {
	if n.n == 0 {
		return nil, ErrNotReadyToPredict
	}
	if n.attrName == "" {
		return n.leafDist(), nil
	}
	if v, present := record[n.attrName]; present {
		if child, ok := n.branches[v]; ok {
			ld, err := child.Predict(record)
			if err == nil {
				return ld, nil
			}
			if err != ErrNotReadyToPredict {
				return nil, err
			}
			return n.leafDist(), nil
		}
	}
	return n.predictWithMissingPolicy(record)
}

func (n *Node) leafDist() *LeafDist {
	if n.tree.schema.IsContinuousClass() {
		return continuousLeafDist(n.classCDist)
	}
	return discreteLeafDist(n.classDDist)
}

func (n *Node) predictWithMissingPolicy(record Row) (*LeafDist, error) {
	policy, ok := n.tree.MissingValuePolicy[n.attrName]
	if !ok {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: "value not observed during training and no policy is installed"}
	}
	if policy != UseNearest {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: fmt.Sprintf("unrecognized policy %q", policy)}
	}
	attr, ok := n.tree.schema.Lookup(n.attrName)
	if !ok {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: "attribute not declared in schema"}
	}
	if attr.Type == schema.Nominal {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: "use-nearest is not valid for nominal attributes"}
	}
	queryVal, present := record[n.attrName]
	if !present {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: "row carries no value to resolve a nearest neighbour from"}
	}
	qv, err := numericValue(queryVal)
	if err != nil {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: err.Error()}
	}
	var nearest interface{}
	var nearestDist float64
	found := false
	for _, v := range n.branchOrder {
		kv, err := numericValue(v)
		if err != nil {
			continue
		}
		d := math.Abs(kv - qv)
		if !found || d < nearestDist {
			nearest, nearestDist, found = v, d, true
		}
	}
	if !found {
		return nil, &MissingPolicyError{Attribute: n.attrName, Reason: "no known values recorded to compare against"}
	}
	ld, err := n.branches[nearest].Predict(record)
	if err == ErrNotReadyToPredict {
		return n.leafDist(), nil
	}
	return ld, err
}

func numericValue(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
