package train

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/model"
)

// Train 在 (X, y) 上训练随机森林并返回制品。
//
// 契约：
//   - 样本数少于 MinTrainSamples 或只有单一类别时返回 TRAINING_ERROR
//   - SplitFraction > 0 时按 Seed 确定性切分留出集并计算指标，否则全量训练、指标缺省
//   - 相同输入 + 相同配置训练出相同的森林（切分与 bootstrap 均由 Seed 播种）
func Train(X []core.FeatureVector, y []core.Label, cfg Config) (*Artifact, error) {
	if len(X) != len(y) {
		return nil, core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: %d vectors but %d labels", len(X), len(y)))
	}
	if len(X) < MinTrainSamples {
		return nil, core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: %d samples, need at least %d", len(X), MinTrainSamples))
	}
	if distinctClasses(y) < 2 {
		return nil, core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			"train: degenerate training set: fewer than 2 distinct classes")
	}
	if cfg.SplitFraction < 0 || cfg.SplitFraction >= 1 {
		return nil, core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: split_fraction %v out of range [0, 1)", cfg.SplitFraction))
	}

	trainX, trainY, testX, testY := split(X, y, cfg.SplitFraction, cfg.Seed)

	forest := model.NewForest(model.ForestConfig{
		Trees:    cfg.Trees,
		MaxDepth: cfg.MaxDepth,
		MinLeaf:  cfg.MinLeaf,
		Seed:     cfg.Seed,
	})
	if err := forest.Fit(trainX, trainY); err != nil {
		return nil, core.WrapDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: fit forest: %v", err), err)
	}

	meta := Metadata{
		ModelVersion:   cfg.Version,
		TrainedAt:      time.Now().UTC(),
		FeatureColumns: append([]string(nil), core.FeatureNames...),
		FeatureCount:   core.FeatureCount,
		TrainSamples:   len(trainX),
		TestSamples:    len(testX),
		Config:         cfg,
	}

	if len(testX) > 0 {
		yPred := make([]core.Label, len(testX))
		for i, x := range testX {
			label, err := forest.Predict(x)
			if err != nil {
				return nil, core.WrapDomainError(core.ModuleTrain, core.ErrorCodeTraining,
					fmt.Sprintf("train: evaluate holdout: %v", err), err)
			}
			yPred[i] = label
		}
		m := Evaluate(testY, yPred)
		meta.Metrics = &m
	}

	return &Artifact{Forest: forest, Meta: meta}, nil
}

// split 按 Seed 确定性地洗牌并切分留出集。fraction 为 0 时全量训练。
func split(X []core.FeatureVector, y []core.Label, fraction float64, seed int64) (
	trainX []core.FeatureVector, trainY []core.Label,
	testX []core.FeatureVector, testY []core.Label,
) {
	if fraction == 0 {
		return X, y, nil, nil
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(X))

	testN := int(float64(len(X)) * fraction)
	// 留出集不吃掉全部训练数据
	if testN >= len(X) {
		testN = len(X) - 1
	}

	for i, p := range perm {
		if i < testN {
			testX = append(testX, X[p])
			testY = append(testY, y[p])
		} else {
			trainX = append(trainX, X[p])
			trainY = append(trainY, y[p])
		}
	}
	return trainX, trainY, testX, testY
}

func distinctClasses(y []core.Label) int {
	var seen [core.NumClasses]bool
	n := 0
	for _, label := range y {
		if label >= 0 && int(label) < core.NumClasses && !seen[label] {
			seen[label] = true
			n++
		}
	}
	return n
}
