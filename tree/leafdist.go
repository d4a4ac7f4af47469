package tree

import "github.com/Sandy4321/dtree/dist"

// Kind identifies which concrete distribution a LeafDist wraps.
type Kind int

const (
	DiscreteKind Kind = iota
	ContinuousKind
)

// LeafDist is the tagged union Predict hands back to callers (and Test
// unpacks to score each prediction): a
// node's class distribution is a DDist when the class attribute is
// discrete and a CDist when it is continuous, and the two share no common
// operations beyond a sample count.
type LeafDist struct {
	kind  Kind
	ddist *dist.DDist
	cdist *dist.CDist
}

func discreteLeafDist(d *dist.DDist) *LeafDist {
	return &LeafDist{kind: DiscreteKind, ddist: d}
}

func continuousLeafDist(c *dist.CDist) *LeafDist {
	return &LeafDist{kind: ContinuousKind, cdist: c}
}

// Kind reports whether the wrapped distribution is discrete or continuous.
func (l *LeafDist) Kind() Kind {
	return l.kind
}

// DDist returns the wrapped discrete distribution and true, or (nil, false)
// if this LeafDist wraps a CDist instead.
func (l *LeafDist) DDist() (*dist.DDist, bool) {
	if l.kind != DiscreteKind {
		return nil, false
	}
	return l.ddist, true
}

// CDist returns the wrapped continuous distribution and true, or (nil,
// false) if this LeafDist wraps a DDist instead.
func (l *LeafDist) CDist() (*dist.CDist, bool) {
	if l.kind != ContinuousKind {
		return nil, false
	}
	return l.cdist, true
}

// Best returns the mode of a discrete LeafDist, or the mean of a
// continuous one, as a single predicted value.
func (l *LeafDist) Best() (interface{}, bool) {
	if l.kind == DiscreteKind {
		return l.ddist.Best()
	}
	return l.cdist.Mean()
}
