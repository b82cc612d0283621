package model

import (
	"math/rand"
	"sort"
)

// treeNode 是 CART 决策树节点，内部节点与叶子共用一个结构，便于 JSON 序列化。
// Feature == -1 表示叶子，此时 Probs 为该叶子的类别分布。
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Probs     []float64 `json:"probs,omitempty"`
}

const leafFeature = -1

// treeParams 是单棵树的生长参数。
type treeParams struct {
	maxDepth   int // 0 表示不限制
	minLeaf    int // 叶子的最小样本数
	numClasses int
	mtry       int // 每次分裂随机考察的特征数
}

// growTree 在给定样本索引上递归生长一棵 CART 树。
// rng 由调用方按树编号确定性播种，保证训练结果可复现。
func growTree(X [][]float64, y []int, idx []int, depth int, p treeParams, rng *rand.Rand) *treeNode {
	counts := classCounts(y, idx, p.numClasses)

	if stop(idx, counts, depth, p) {
		return leaf(counts)
	}

	feat, thr, ok := bestSplit(X, y, idx, p, rng)
	if !ok {
		return leaf(counts)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf(counts)
	}

	return &treeNode{
		Feature:   feat,
		Threshold: thr,
		Left:      growTree(X, y, left, depth+1, p, rng),
		Right:     growTree(X, y, right, depth+1, p, rng),
	}
}

func stop(idx []int, counts []int, depth int, p treeParams) bool {
	if p.maxDepth > 0 && depth >= p.maxDepth {
		return true
	}
	if len(idx) < 2*p.minLeaf {
		return true
	}
	// 纯节点无需继续分裂
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func leaf(counts []int) *treeNode {
	total := 0
	for _, c := range counts {
		total += c
	}
	probs := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			probs[i] = float64(c) / float64(total)
		}
	}
	return &treeNode{Feature: leafFeature, Probs: probs}
}

func classCounts(y []int, idx []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

// bestSplit 在 mtry 个随机特征上寻找加权 gini 最小的二分切分。
// 对每个候选特征按取值排序后线性扫描，切分点取相邻不同取值的中点。
func bestSplit(X [][]float64, y []int, idx []int, p treeParams, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(X[idx[0]])
	features := rng.Perm(numFeatures)[:p.mtry]

	var (
		bestFeat = -1
		bestThr  float64
		bestGini = gini(classCounts(y, idx, p.numClasses), len(idx))
		found    bool
	)

	sorted := make([]int, len(idx))
	leftCounts := make([]int, p.numClasses)
	rightCounts := make([]int, p.numClasses)

	for _, feat := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return X[sorted[a]][feat] < X[sorted[b]][feat]
		})

		for i := range leftCounts {
			leftCounts[i] = 0
		}
		copy(rightCounts, classCounts(y, idx, p.numClasses))

		total := len(sorted)
		for i := 0; i < total-1; i++ {
			c := y[sorted[i]]
			leftCounts[c]++
			rightCounts[c]--

			cur, next := X[sorted[i]][feat], X[sorted[i+1]][feat]
			if cur == next {
				continue
			}
			nLeft, nRight := i+1, total-i-1
			if nLeft < p.minLeaf || nRight < p.minLeaf {
				continue
			}

			g := (float64(nLeft)*gini(leftCounts, nLeft) +
				float64(nRight)*gini(rightCounts, nRight)) / float64(total)
			if g < bestGini {
				bestGini = g
				bestFeat = feat
				bestThr = (cur + next) / 2
				found = true
			}
		}
	}
	return bestFeat, bestThr, found
}

// gini 计算类别计数的 gini 不纯度。
func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

// predictTree 沿树下行到叶子，返回叶子的类别分布。
func predictTree(n *treeNode, x []float64) []float64 {
	for n.Feature != leafFeature {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Probs
}
