package model

import "github.com/rushteam/winekit/core"

// Classifier 是分类模型的最小抽象：输入特征向量，输出标签与类别概率分布。
// 具体实现可以是本地模型（随机森林）或其他可序列化的分类器。
type Classifier interface {
	Name() string

	// NumFeatures 返回模型声明的特征维度
	NumFeatures() int

	// NumClasses 返回类别数
	NumClasses() int

	// Predict 返回预测标签（等价于 PredictProba 的 argmax）
	Predict(x core.FeatureVector) (core.Label, error)

	// PredictProba 返回类别概率分布（长度为 NumClasses，元素非负且和为 1）
	PredictProba(x core.FeatureVector) ([]float64, error)
}
