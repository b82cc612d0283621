// Package winekit 是一个葡萄酒质量分类工具包（Wine Quality Kit）。
//
// 设计要点：
// - Dataset-first: 原始 CSV → 预处理（分桶/校验/过滤）→ 特征矩阵
// - Artifact 不可变: 训练产物按版本标签发布，元数据记录特征顺序
// - Hub 按需加载: 版本解析 → 本地缓存 → 原子下载，UI 侧零训练依赖
package winekit

import "github.com/rushteam/winekit/core"

// 轻量 facade：便于用户直接 import "winekit" 使用核心抽象。
type Sample = core.Sample
type FeatureVector = core.FeatureVector
type Label = core.Label

const (
	LabelPoor    = core.LabelPoor
	LabelAverage = core.LabelAverage
	LabelGood    = core.LabelGood
)
