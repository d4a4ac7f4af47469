/*
Package forest declares the contract for an ensemble of trees and
implements the one piece of its aggregation arithmetic that is fully
specified by the reference implementation: weighting each tree's
prediction by how much better its mean absolute error is than the
ensemble's total, and picking the single best tree by MAE. The reference
source's growth/bagging algorithm (mini-batch sampling, random attribute
subsets) references undefined names and unfinished stubs, so it is not
implemented here — only the contract and this aggregation arithmetic are.
*/
package forest

import (
	"errors"

	"github.com/Sandy4321/dtree/dist"
	"github.com/Sandy4321/dtree/tree"
)

// AggregationMode selects how a Forest combines its trees' predictions.
type AggregationMode string

const (
	// AggregationEnsemble weights every tree's prediction by its relative
	// MAE and sums the weighted predictions.
	AggregationEnsemble AggregationMode = "ensemble"
	// AggregationBest uses only the prediction of the tree with the
	// lowest MAE.
	AggregationBest AggregationMode = "best"
)

// ErrEmptyForest is returned when a prediction is requested of a Forest
// with no trees, and also when no member can be weighted: in best mode when
// no member has a recorded MAE, in ensemble mode when the members' MAEs sum
// to zero or the weights of the members that produced a continuous
// prediction sum to zero (including when there are none).
var ErrEmptyForest = errors.New("forest: no trees to predict with")

// Member is a tree participating in a Forest, carrying the MAE it was
// registered with through AddTree (as measured by Tree.Test).
type Member struct {
	Tree *tree.Tree
	MAE  *dist.CDist
}

// Forest is an ensemble of regression trees. Growing a Forest (deciding
// which trees to add and how) is outside this contract; AddTree only
// registers an already-trained tree and the MAE it has been measured to
// have.
type Forest interface {
	AddTree(t *tree.Tree, mae *dist.CDist)
	Predict(record tree.Row) (float64, error)
	Test(rows []tree.Row, classAttr string) (*dist.CDist, error)
}

// weightedForest implements Forest with the weighted-ensemble and
// best-tree aggregation modes.
type weightedForest struct {
	mode    AggregationMode
	members []Member
}

// New returns an empty Forest using the given aggregation mode.
func New(mode AggregationMode) Forest {
	return &weightedForest{mode: mode}
}

func (f *weightedForest) AddTree(t *tree.Tree, mae *dist.CDist) {
	f.members = append(f.members, Member{Tree: t, MAE: mae})
}

// Predict aggregates every member tree's prediction for record according
// to the forest's aggregation mode.
func (f *weightedForest) Predict(record tree.Row) (float64, error) {
	if len(f.members) == 0 {
		return 0, ErrEmptyForest
	}
	if f.mode == AggregationBest {
		return f.predictBest(record)
	}
	return f.predictEnsemble(record)
}

func (f *weightedForest) predictBest(record tree.Row) (float64, error) {
	var best *Member
	var bestMAE float64
	for i := range f.members {
		m := &f.members[i]
		mae, ok := m.MAE.Mean()
		if !ok {
			continue
		}
		if best == nil || mae < bestMAE {
			best, bestMAE = m, mae
		}
	}
	if best == nil {
		return 0, ErrEmptyForest
	}
	ld, err := best.Tree.Predict(record)
	if err != nil {
		return 0, err
	}
	cd, ok := ld.CDist()
	if !ok {
		return 0, errors.New("forest: best-tree prediction is not a continuous distribution")
	}
	mean, _ := cd.Mean()
	return mean, nil
}

func (f *weightedForest) predictEnsemble(record tree.Row) (float64, error) {
	type weighted struct {
		weight     float64
		prediction float64
	}
	var totalMAE float64
	maes := make([]float64, len(f.members))
	preds := make([]float64, len(f.members))
	ok := make([]bool, len(f.members))
	for i, m := range f.members {
		mean, hasMAE := m.MAE.Mean()
		if hasMAE {
			maes[i] = mean
			totalMAE += mean
		}
		ld, err := m.Tree.Predict(record)
		if err != nil {
			continue
		}
		cd, isContinuous := ld.CDist()
		if !isContinuous {
			continue
		}
		p, hasMean := cd.Mean()
		if !hasMean {
			continue
		}
		preds[i] = p
		ok[i] = hasMAE
	}
	if totalMAE == 0 {
		return 0, ErrEmptyForest
	}
	var entries []weighted
	var weightSum float64
	for i := range f.members {
		if !ok[i] {
			continue
		}
		w := 1 - maes[i]/totalMAE
		entries = append(entries, weighted{weight: w, prediction: preds[i]})
		weightSum += w
	}
	if len(entries) == 0 || weightSum == 0 {
		return 0, ErrEmptyForest
	}
	var result float64
	for _, e := range entries {
		result += (e.weight / weightSum) * e.prediction
	}
	return result, nil
}

// Test measures the forest's own MAE across rows, predicting each with
// Predict and comparing against the row's classAttr value.
func (f *weightedForest) Test(rows []tree.Row, classAttr string) (*dist.CDist, error) {
	result := dist.NewCDist()
	for _, row := range rows {
		pred, err := f.Predict(row)
		if err != nil {
			return nil, err
		}
		actual, ok := row[classAttr].(float64)
		if !ok {
			return nil, errors.New("forest: row's class value is not continuous-compatible")
		}
		diff := pred - actual
		if diff < 0 {
			diff = -diff
		}
		result.Add(diff)
	}
	return result, nil
}
