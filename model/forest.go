package model

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/winekit/core"
)

// ForestConfig 是随机森林的超参数，字段显式枚举（不使用松散的 kv 传参）。
type ForestConfig struct {
	// Trees 森林规模（树的数量）
	Trees int `json:"trees" yaml:"trees"`

	// MaxDepth 单棵树的最大深度，0 表示不限制
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// MinLeaf 叶子的最小样本数
	MinLeaf int `json:"min_leaf" yaml:"min_leaf"`

	// Seed 随机种子，保证 bootstrap 与特征采样可复现
	Seed int64 `json:"seed" yaml:"seed"`
}

// DefaultForestConfig 返回与训练脚本对齐的默认超参数
// （100 棵树、不限深度、seed 42）。
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:   100,
		MinLeaf: 1,
		Seed:    42,
	}
}

func (c *ForestConfig) normalize() {
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.MinLeaf <= 0 {
		c.MinLeaf = 1
	}
}

// Forest 实现了随机森林分类器。
//
// 训练原理：
//  1. 每棵树在 bootstrap 重采样（有放回，样本数等于原始集）上生长
//  2. 每次分裂只考察 sqrt(F) 个随机特征，降低树间相关性
//  3. 预测为各树叶子类别分布的平均
//
// 每棵树的随机源按 Seed+树编号独立播种，因此并行训练的结果与串行一致。
type Forest struct {
	Trees      []*treeNode `json:"trees"`
	Features   int         `json:"num_features"`
	ClassCount int         `json:"num_classes"`

	cfg ForestConfig
}

// NewForest 按给定超参数创建未训练的随机森林。
// 从文件加载的森林（LoadForest）只用于推理，不携带超参数。
func NewForest(cfg ForestConfig) *Forest {
	cfg.normalize()
	return &Forest{cfg: cfg}
}

func (f *Forest) Name() string     { return "random_forest" }
func (f *Forest) NumFeatures() int { return f.Features }
func (f *Forest) NumClasses() int  { return f.ClassCount }

// Fit 在 (X, y) 上训练森林，树之间通过 errgroup 并行生长。
func (f *Forest) Fit(X []core.FeatureVector, y []core.Label) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("fit: invalid training set: %d vectors, %d labels", len(X), len(y))
	}

	cfg := f.cfg
	cfg.normalize()

	numFeatures := len(X[0])
	rows := make([][]float64, len(X))
	labels := make([]int, len(y))
	for i, v := range X {
		if len(v) != numFeatures {
			return fmt.Errorf("fit: ragged feature matrix at row %d", i)
		}
		rows[i] = v
		labels[i] = int(y[i])
	}

	params := treeParams{
		maxDepth:   cfg.MaxDepth,
		minLeaf:    cfg.MinLeaf,
		numClasses: core.NumClasses,
		mtry:       mtry(numFeatures),
	}

	trees := make([]*treeNode, cfg.Trees)
	var eg errgroup.Group
	for t := 0; t < cfg.Trees; t++ {
		t := t
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))

			// bootstrap 重采样
			idx := make([]int, len(rows))
			for i := range idx {
				idx[i] = rng.Intn(len(rows))
			}

			trees[t] = growTree(rows, labels, idx, 0, params, rng)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	f.Trees = trees
	f.Features = numFeatures
	f.ClassCount = core.NumClasses
	return nil
}

// PredictProba 返回各树叶子分布的平均，长度为 NumClasses，和为 1。
func (f *Forest) PredictProba(x core.FeatureVector) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("predict: forest is not fitted")
	}
	if len(x) != f.Features {
		return nil, fmt.Errorf("predict: feature dimension mismatch: got %d, want %d", len(x), f.Features)
	}

	probs := make([]float64, f.ClassCount)
	for _, tree := range f.Trees {
		leafProbs := predictTree(tree, x)
		for c, p := range leafProbs {
			probs[c] += p
		}
	}
	n := float64(len(f.Trees))
	for c := range probs {
		probs[c] /= n
	}
	return probs, nil
}

// Predict 返回 PredictProba 的 argmax（并列时取编号最小的类别）。
func (f *Forest) Predict(x core.FeatureVector) (core.Label, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return core.Label(Argmax(probs)), nil
}

// Argmax 返回最大概率的下标，并列时取最小下标（稳定）。
func Argmax(probs []float64) int {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}

// Save 把训练好的森林序列化为 JSON 文件。
func (f *Forest) Save(path string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal forest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write forest: %w", err)
	}
	return nil
}

// LoadForest 从 JSON 文件反序列化森林。
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse forest: %w", err)
	}
	if len(f.Trees) == 0 || f.Features == 0 {
		return nil, fmt.Errorf("parse forest: empty model")
	}
	return &f, nil
}

// mtry 返回每次分裂考察的特征数：sqrt(F) 向下取整，至少为 1。
func mtry(numFeatures int) int {
	m := int(math.Sqrt(float64(numFeatures)))
	if m < 1 {
		m = 1
	}
	return m
}
