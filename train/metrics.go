package train

import "github.com/rushteam/winekit/core"

// Metrics 是留出集上的评估指标。
// Precision/Recall/F1 为宏平均（各类别等权），与三分类的不均衡数据兼容。
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Evaluate 在 (yTrue, yPred) 上计算指标。
func Evaluate(yTrue, yPred []core.Label) Metrics {
	var m Metrics
	n := len(yTrue)
	if n == 0 || n != len(yPred) {
		return m
	}

	// 混淆矩阵：confusion[true][pred]
	var confusion [core.NumClasses][core.NumClasses]int
	correct := 0
	for i := 0; i < n; i++ {
		confusion[yTrue[i]][yPred[i]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	m.Accuracy = float64(correct) / float64(n)

	var precisionSum, recallSum, f1Sum float64
	for c := 0; c < core.NumClasses; c++ {
		tp := confusion[c][c]

		predicted, actual := 0, 0
		for k := 0; k < core.NumClasses; k++ {
			predicted += confusion[k][c]
			actual += confusion[c][k]
		}

		var precision, recall float64
		if predicted > 0 {
			precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			recall = float64(tp) / float64(actual)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		precisionSum += precision
		recallSum += recall
		f1Sum += f1
	}
	m.Precision = precisionSum / core.NumClasses
	m.Recall = recallSum / core.NumClasses
	m.F1 = f1Sum / core.NumClasses
	return m
}
