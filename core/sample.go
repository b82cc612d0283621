package core

// FeatureNames 是特征向量的规范顺序（schema v1）。
// 训练与推理必须使用完全相同的顺序；顺序不匹配属于静默数据损坏，
// 运行期只能校验维度（见 predict 模块的 SCHEMA_MISMATCH）。
var FeatureNames = []string{
	"fixed acidity",
	"volatile acidity",
	"citric acid",
	"residual sugar",
	"chlorides",
	"free sulfur dioxide",
	"total sulfur dioxide",
	"density",
	"pH",
	"sulphates",
	"alcohol",
}

// FeatureCount 是特征向量的固定维度。
const FeatureCount = 11

// FeatureVector 是按 FeatureNames 顺序排列的特征元组。
type FeatureVector []float64

// Sample 是一条原始样本：11 个理化指标 + 可选的质量评分。
// 从数据源读出后不可变。
type Sample struct {
	// Features 理化指标，key 为 FeatureNames 中的列名
	Features map[string]float64

	// Quality 质量评分（0-10），HasQuality 为 false 时无效
	Quality float64

	// HasQuality 标记样本是否携带质量评分（推理输入通常没有）
	HasQuality bool

	// Type 酒的类型（red / white），数据集中为自由文本，原样保留
	Type string
}

// Vector 按规范顺序导出特征向量。
// 缺失的特征返回 (nil, false)；校验与错误包装由 dataset 模块负责。
func (s *Sample) Vector() (FeatureVector, bool) {
	vec := make(FeatureVector, 0, FeatureCount)
	for _, name := range FeatureNames {
		v, ok := s.Features[name]
		if !ok {
			return nil, false
		}
		vec = append(vec, v)
	}
	return vec, true
}

// Label 是三分类的质量标签。
type Label int

const (
	LabelPoor    Label = 0 // 质量评分 <= 5
	LabelAverage Label = 1 // 质量评分 == 6
	LabelGood    Label = 2 // 质量评分 >= 7
)

// NumClasses 是分类数。
const NumClasses = 3

// Labels 按类别编号顺序列出全部标签。
var Labels = []Label{LabelPoor, LabelAverage, LabelGood}

func (l Label) String() string {
	switch l {
	case LabelPoor:
		return "poor"
	case LabelAverage:
		return "average"
	case LabelGood:
		return "good"
	default:
		return "unknown"
	}
}
