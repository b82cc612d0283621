package train

// Config 是一次训练运行的完整配置，字段显式枚举。
type Config struct {
	// Trees 森林规模
	Trees int `json:"trees" yaml:"trees"`

	// MaxDepth 单棵树的最大深度，0 表示不限制
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// MinLeaf 叶子的最小样本数
	MinLeaf int `json:"min_leaf" yaml:"min_leaf"`

	// Seed 随机种子，同时控制切分与森林训练的确定性
	Seed int64 `json:"seed" yaml:"seed"`

	// SplitFraction 留出集比例，0 表示全量训练（此时不产出评估指标）
	SplitFraction float64 `json:"split_fraction" yaml:"split_fraction"`

	// Version 训练产物的版本标签（如 "v1.2.0"），写入元数据
	Version string `json:"version" yaml:"version"`
}

// DefaultConfig 返回与训练脚本对齐的默认配置
// （100 棵树、seed 42、20% 留出集）。
func DefaultConfig() Config {
	return Config{
		Trees:         100,
		MinLeaf:       1,
		Seed:          42,
		SplitFraction: 0.2,
	}
}

// MinTrainSamples 是允许训练的最小样本数，低于此值直接拒绝，
// 避免在空集/近空集上静默训练出退化模型。
const MinTrainSamples = 10
