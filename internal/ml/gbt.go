package ml

import (
	"errors"
	"sort"
)

// GBTConfig contains configuration for the gradient-boosted tree trainer.
type GBTConfig struct {
	Trees        int
	LearningRate float64
	MaxDepth     int
	MinLeafSize  int
}

// Ensemble is a gradient-boosted regression tree model: a base score (the
// label mean) plus a sequence of shallow trees, each fit on the residual
// error of the ensemble before it.
type Ensemble struct {
	BaseScore    float64
	LearningRate float64
	Trees        []*TreeNode
}

// TreeNode is one node of a regression tree. Leaves have Feature == -1 and
// carry the prediction in Value.
type TreeNode struct {
	Feature   int
	Threshold float64
	Value     float64
	Left      *TreeNode
	Right     *TreeNode
}

type gbtTrainer struct {
	cfg      GBTConfig
	features [][]float64
	targets  []float64
}

// FitEnsemble trains an ensemble against the squared-error objective.
// Training is deterministic for a fixed input order.
func FitEnsemble(cfg GBTConfig, features [][]float64, labels []float64) (*Ensemble, error) {
	if len(features) == 0 {
		return nil, errors.New("no training rows")
	}
	if len(features) != len(labels) {
		return nil, errors.New("features and labels length mismatch")
	}

	// Apply defaults
	if cfg.Trees == 0 {
		cfg.Trees = 50
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.1
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 4
	}
	if cfg.MinLeafSize == 0 {
		cfg.MinLeafSize = 2
	}

	var base float64
	for _, y := range labels {
		base += y
	}
	base /= float64(len(labels))

	ensemble := &Ensemble{
		BaseScore:    base,
		LearningRate: cfg.LearningRate,
		Trees:        make([]*TreeNode, 0, cfg.Trees),
	}

	residuals := make([]float64, len(labels))
	for i, y := range labels {
		residuals[i] = y - base
	}

	trainer := &gbtTrainer{cfg: cfg, features: features, targets: residuals}
	indices := make([]int, len(labels))
	for i := range indices {
		indices[i] = i
	}

	for t := 0; t < cfg.Trees; t++ {
		tree := trainer.buildNode(indices, 0)
		ensemble.Trees = append(ensemble.Trees, tree)
		for i := range residuals {
			residuals[i] -= cfg.LearningRate * tree.predict(features[i])
		}
	}
	return ensemble, nil
}

// Predict scores a single feature vector.
func (e *Ensemble) Predict(vec []float64) float64 {
	score := e.BaseScore
	for _, tree := range e.Trees {
		score += e.LearningRate * tree.predict(vec)
	}
	return score
}

func (n *TreeNode) predict(vec []float64) float64 {
	node := n
	for node.Feature >= 0 {
		if vec[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func (t *gbtTrainer) buildNode(indices []int, depth int) *TreeNode {
	if depth >= t.cfg.MaxDepth || len(indices) < 2*t.cfg.MinLeafSize {
		return t.leaf(indices)
	}

	feature, threshold, ok := t.bestSplit(indices)
	if !ok {
		return t.leaf(indices)
	}

	var left, right []int
	for _, i := range indices {
		if t.features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.cfg.MinLeafSize || len(right) < t.cfg.MinLeafSize {
		return t.leaf(indices)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.buildNode(left, depth+1),
		Right:     t.buildNode(right, depth+1),
	}
}

func (t *gbtTrainer) leaf(indices []int) *TreeNode {
	var sum float64
	for _, i := range indices {
		sum += t.targets[i]
	}
	value := 0.0
	if len(indices) > 0 {
		value = sum / float64(len(indices))
	}
	return &TreeNode{Feature: -1, Value: value}
}

// bestSplit scans every feature for the variance-minimising threshold. The
// split score sumL^2/nL + sumR^2/nR is equivalent to minimising the summed
// squared error because the total sum of squares is constant per node.
func (t *gbtTrainer) bestSplit(indices []int) (int, float64, bool) {
	n := len(indices)
	featureCount := len(t.features[indices[0]])

	var totalSum float64
	for _, i := range indices {
		totalSum += t.targets[i]
	}
	baseScore := totalSum * totalSum / float64(n)

	bestFeature := -1
	bestThreshold := 0.0
	bestScore := baseScore

	order := make([]int, n)
	for f := 0; f < featureCount; f++ {
		copy(order, indices)
		sort.Slice(order, func(a, b int) bool {
			return t.features[order[a]][f] < t.features[order[b]][f]
		})

		var leftSum float64
		for pos := 0; pos < n-1; pos++ {
			leftSum += t.targets[order[pos]]

			cur := t.features[order[pos]][f]
			next := t.features[order[pos+1]][f]
			if cur == next {
				continue
			}
			nL := pos + 1
			nR := n - nL
			if nL < t.cfg.MinLeafSize || nR < t.cfg.MinLeafSize {
				continue
			}
			rightSum := totalSum - leftSum
			score := leftSum*leftSum/float64(nL) + rightSum*rightSum/float64(nR)
			if score > bestScore+1e-12 {
				bestScore = score
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}
