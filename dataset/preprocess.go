package dataset

import (
	"fmt"
	"math"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/pkg/dsl"
)

// Bucket 把连续的质量评分映射为三分类标签。
//
// 分桶规则（对评分单调不减，三段覆盖全部取值、互不重叠）：
//   - Poor:    q <= 5
//   - Average: 5 < q < 7（数据集中评分为整数，即 q == 6）
//   - Good:    q >= 7
func Bucket(q float64) core.Label {
	switch {
	case q >= 7:
		return core.LabelGood
	case q > 5:
		return core.LabelAverage
	default:
		return core.LabelPoor
	}
}

// Option 是 Preprocess 的可选配置。
type Option func(*options)

type options struct {
	filterExpr string
}

// WithFilter 设置 CEL 行过滤表达式，只保留表达式为 true 的样本。
// 表达式语法见 pkg/dsl。
func WithFilter(expr string) Option {
	return func(o *options) {
		o.filterExpr = expr
	}
}

// Preprocess 把原始样本转换为 (特征矩阵, 标签) 对。
//
// 契约：
//   - 纯函数：不修改输入，无副作用
//   - 每条样本必须携带全部 11 个特征和质量评分，否则返回 VALIDATION_ERROR
//   - 特征顺序固定为 core.FeatureNames（schema v1），训练与推理必须一致
func Preprocess(samples []core.Sample, opts ...Option) ([]core.FeatureVector, []core.Label, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	filter, err := dsl.NewFilter(o.filterExpr)
	if err != nil {
		return nil, nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeValidation,
			fmt.Sprintf("dataset: invalid filter expression: %v", err), err)
	}

	X := make([]core.FeatureVector, 0, len(samples))
	y := make([]core.Label, 0, len(samples))
	for i := range samples {
		s := &samples[i]

		if filter != nil {
			ok, err := filter.Match(s)
			if err != nil {
				return nil, nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeValidation,
					fmt.Sprintf("dataset: filter sample %d: %v", i, err), err)
			}
			if !ok {
				continue
			}
		}

		if !s.HasQuality {
			return nil, nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeValidation,
				fmt.Sprintf("dataset: sample %d has no quality score", i))
		}

		vec, ok := s.Vector()
		if !ok {
			return nil, nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeValidation,
				fmt.Sprintf("dataset: sample %d is missing attribute %q", i, missingAttr(s)))
		}
		for j, v := range vec {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeValidation,
					fmt.Sprintf("dataset: sample %d has non-finite value for %q", i, core.FeatureNames[j]))
			}
		}

		X = append(X, vec)
		y = append(y, Bucket(s.Quality))
	}
	return X, y, nil
}

// missingAttr 定位第一个缺失的特征名，用于错误消息。
func missingAttr(s *core.Sample) string {
	for _, name := range core.FeatureNames {
		if _, ok := s.Features[name]; !ok {
			return name
		}
	}
	return ""
}
