package train

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rushteam/winekit/model"
)

// Metadata 是模型制品的元数据，对应 <model>.meta.json sidecar 文件。
// 制品一经创建不可变，以版本标签标识。
type Metadata struct {
	// ModelVersion 版本标签（如 "v1.2.0"）
	ModelVersion string `json:"model_version"`

	// TrainedAt 训练时间
	TrainedAt time.Time `json:"trained_at"`

	// FeatureColumns 特征列名列表（按顺序，schema v1 固定 11 列）
	FeatureColumns []string `json:"feature_columns"`

	// FeatureCount 特征数量
	FeatureCount int `json:"feature_count"`

	// TrainSamples / TestSamples 训练集与留出集样本数
	TrainSamples int `json:"train_samples"`
	TestSamples  int `json:"test_samples"`

	// Config 本次训练使用的完整配置
	Config Config `json:"config"`

	// Metrics 留出集指标；SplitFraction 为 0 时缺省
	Metrics *Metrics `json:"metrics,omitempty"`
}

// Artifact 是一次训练运行的产物：序列化的分类器 + 元数据。
type Artifact struct {
	Forest *model.Forest
	Meta   Metadata
}

// MetaPath 返回模型文件对应的元数据 sidecar 路径。
func MetaPath(modelPath string) string {
	return modelPath + ".meta.json"
}

// Save 把制品持久化到 modelPath（模型 JSON）与 MetaPath(modelPath)（元数据 JSON）。
func (a *Artifact) Save(modelPath string) error {
	if err := a.Forest.Save(modelPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	data, err := json.MarshalIndent(&a.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(MetaPath(modelPath), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// LoadArtifact 从磁盘读回制品。
// 元数据 sidecar 缺失时返回错误：没有声明的特征顺序，推理无法做 schema 校验。
func LoadArtifact(modelPath string) (*Artifact, error) {
	forest, err := model.LoadForest(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	data, err := os.ReadFile(MetaPath(modelPath))
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	if meta.FeatureCount != forest.NumFeatures() {
		return nil, fmt.Errorf("artifact mismatch: metadata declares %d features, model expects %d",
			meta.FeatureCount, forest.NumFeatures())
	}

	return &Artifact{Forest: forest, Meta: meta}, nil
}
