package predict

import (
	"fmt"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/model"
	"github.com/rushteam/winekit/train"
)

// Prediction 是一次推理的结果：标签 + 三分类概率分布。
// Label 恒等于 Probs 的 argmax。
type Prediction struct {
	Label core.Label `json:"label"`
	Probs []float64  `json:"probs"`
}

// Predictor 在本地制品上做推理。
//
// 契约：
//   - 输入向量的维度必须与制品声明的特征数一致，否则返回 SCHEMA_MISMATCH
//     且不产出任何预测
//   - 特征顺序必须与制品元数据中的 FeatureColumns 一致；顺序错误在运行期
//     无法检测（静默损坏风险），调用方应使用 core.FeatureNames 构造向量
type Predictor struct {
	artifact *train.Artifact
}

// New 在已加载的制品上创建 Predictor。
func New(artifact *train.Artifact) *Predictor {
	return &Predictor{artifact: artifact}
}

// NewFromFile 从模型文件（及其元数据 sidecar）创建 Predictor。
func NewFromFile(modelPath string) (*Predictor, error) {
	artifact, err := train.LoadArtifact(modelPath)
	if err != nil {
		return nil, err
	}
	return New(artifact), nil
}

// Meta 返回制品元数据。
func (p *Predictor) Meta() train.Metadata {
	return p.artifact.Meta
}

// Predict 对单个特征向量做推理。
func (p *Predictor) Predict(x core.FeatureVector) (*Prediction, error) {
	want := p.artifact.Forest.NumFeatures()
	if len(x) != want {
		return nil, core.NewDomainError(core.ModulePredict, core.ErrorCodeSchemaMismatch,
			fmt.Sprintf("predict: feature vector has %d values, model expects %d", len(x), want))
	}

	probs, err := p.artifact.Forest.PredictProba(x)
	if err != nil {
		return nil, core.WrapDomainError(core.ModulePredict, core.ErrorCodeSchemaMismatch,
			fmt.Sprintf("predict: %v", err), err)
	}

	return &Prediction{
		Label: core.Label(model.Argmax(probs)),
		Probs: probs,
	}, nil
}

// PredictBatch 对多个特征向量做推理；任一向量维度不符则整体失败。
func (p *Predictor) PredictBatch(xs []core.FeatureVector) ([]*Prediction, error) {
	out := make([]*Prediction, 0, len(xs))
	for i, x := range xs {
		pred, err := p.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out = append(out, pred)
	}
	return out, nil
}
