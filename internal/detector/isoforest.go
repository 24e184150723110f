package detector

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"macrowatch/models"
)

// IsoForestConfig tunes the multivariate isolation forest detector.
type IsoForestConfig struct {
	Trees         int
	SampleSize    int
	Contamination float64 // expected proportion of anomalous periods
	Seed          int64
}

func (c IsoForestConfig) withDefaults() IsoForestConfig {
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.SampleSize <= 0 {
		c.SampleSize = 256
	}
	if c.Contamination <= 0 {
		c.Contamination = 0.10
	}
	return c
}

// IsoForest flags periods whose joint position across all standardized fields
// is isolated from the bulk of the panel. Same panel and seed always produce
// identical flags.
func IsoForest(panel models.Panel, cfg IsoForestConfig) ([]bool, error) {
	cfg = cfg.withDefaults()

	points, err := standardize(panel)
	if err != nil {
		return nil, err
	}
	n := len(points)

	rng := rand.New(rand.NewSource(cfg.Seed))
	sample := cfg.SampleSize
	if sample > n {
		sample = n
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sample))))
	if heightLimit < 1 {
		heightLimit = 1
	}

	pathSum := make([]float64, n)
	for t := 0; t < cfg.Trees; t++ {
		idx := rng.Perm(n)[:sample]
		tree := buildIsoTree(points, idx, 0, heightLimit, rng)
		for i, p := range points {
			pathSum[i] += isoPathLength(tree, p, 0)
		}
	}

	c := avgPathLength(float64(sample))
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = math.Pow(2, -(pathSum[i]/float64(cfg.Trees))/c)
	}

	// Internal threshold calibrated to the contamination fraction: the
	// top-scoring round(contamination*n) periods are flagged.
	k := int(math.Round(cfg.Contamination * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	flags := make([]bool, n)
	for _, i := range order[:k] {
		flags[i] = true
	}
	return flags, nil
}

// standardize rescales every monitored field to zero mean and unit variance
// across the whole panel.
func standardize(panel models.Panel) ([][]float64, error) {
	points := panel.Matrix()
	for j, f := range models.Fields {
		mean, std := stat.MeanStdDev(panel.Values(f), nil)
		if std == 0 || math.IsNaN(std) {
			return nil, &models.DegenerateInputError{Field: f}
		}
		for i := range points {
			points[i][j] = (points[i][j] - mean) / std
		}
	}
	return points, nil
}

type isoNode struct {
	dim   int
	split float64
	size  int // subset size at this node, used for the path adjustment
	left  *isoNode
	right *isoNode
}

// buildIsoTree partitions the subsample via random axis-aligned splits until
// points are isolated or the height limit is reached.
func buildIsoTree(points [][]float64, idx []int, depth, limit int, rng *rand.Rand) *isoNode {
	if len(idx) <= 1 || depth >= limit {
		return &isoNode{size: len(idx)}
	}

	dim := rng.Intn(len(models.Fields))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := points[i][dim]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return &isoNode{size: len(idx)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []int
	for _, i := range idx {
		if points[i][dim] < split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &isoNode{
		dim:   dim,
		split: split,
		size:  len(idx),
		left:  buildIsoTree(points, left, depth+1, limit, rng),
		right: buildIsoTree(points, right, depth+1, limit, rng),
	}
}

func isoPathLength(node *isoNode, p []float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(float64(node.size))
	}
	if p[node.dim] < node.split {
		return isoPathLength(node.left, p, depth+1)
	}
	return isoPathLength(node.right, p, depth+1)
}

const eulerMascheroni = 0.5772156649015329

// avgPathLength is the expected unsuccessful-search depth in a BST of n nodes.
func avgPathLength(n float64) float64 {
	if n <= 1 {
		return 0
	}
	return 2*(math.Log(n-1)+eulerMascheroni) - 2*(n-1)/n
}
