package predict

import (
	"path/filepath"
	"testing"

	"github.com/rushteam/winekit/core"
	"github.com/rushteam/winekit/model"
	"github.com/rushteam/winekit/train"
)

// trainedArtifact 训练一个小森林：第 0 维完全决定类别。
func trainedArtifact(t *testing.T) *train.Artifact {
	t.Helper()

	var X []core.FeatureVector
	var y []core.Label
	add := func(n int, base float64, label core.Label) {
		for i := 0; i < n; i++ {
			v := make(core.FeatureVector, core.FeatureCount)
			v[0] = base + float64(i)*0.01
			for j := 1; j < core.FeatureCount; j++ {
				v[j] = 1.0
			}
			X = append(X, v)
			y = append(y, label)
		}
	}
	add(20, 1.0, core.LabelPoor)
	add(20, 5.0, core.LabelAverage)
	add(20, 9.0, core.LabelGood)

	cfg := train.DefaultConfig()
	cfg.Trees = 10
	cfg.Version = "v1.0.0"

	artifact, err := train.Train(X, y, cfg)
	if err != nil {
		t.Fatalf("训练失败: %v", err)
	}
	return artifact
}

func probeVector(base float64) core.FeatureVector {
	v := make(core.FeatureVector, core.FeatureCount)
	v[0] = base
	for j := 1; j < core.FeatureCount; j++ {
		v[j] = 1.0
	}
	return v
}

func TestPredictorPredict(t *testing.T) {
	p := New(trainedArtifact(t))

	tests := []struct {
		base float64
		want core.Label
	}{
		{1.1, core.LabelPoor},
		{5.1, core.LabelAverage},
		{9.1, core.LabelGood},
	}
	for _, tt := range tests {
		pred, err := p.Predict(probeVector(tt.base))
		if err != nil {
			t.Fatalf("预测失败: %v", err)
		}
		if pred.Label != tt.want {
			t.Errorf("Predict(base=%v) = %v, want %v", tt.base, pred.Label, tt.want)
		}
		if len(pred.Probs) != core.NumClasses {
			t.Errorf("概率维度 = %d, want %d", len(pred.Probs), core.NumClasses)
		}
		if int(pred.Label) != model.Argmax(pred.Probs) {
			t.Errorf("Label 与 Probs 的 argmax 不一致: %+v", pred)
		}
	}
}

func TestPredictorSchemaMismatch(t *testing.T) {
	p := New(trainedArtifact(t))

	pred, err := p.Predict(core.FeatureVector{1, 2, 3})
	if !core.IsSchemaMismatch(err) {
		t.Fatalf("期望 SCHEMA_MISMATCH，实际 %v", err)
	}
	if pred != nil {
		t.Error("维度不符时不应产出预测")
	}
}

func TestPredictBatch(t *testing.T) {
	p := New(trainedArtifact(t))

	preds, err := p.PredictBatch([]core.FeatureVector{
		probeVector(1.1),
		probeVector(9.1),
	})
	if err != nil {
		t.Fatalf("批量预测失败: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("期望 2 条结果，实际 %d", len(preds))
	}
	if preds[0].Label != core.LabelPoor || preds[1].Label != core.LabelGood {
		t.Errorf("批量预测标签不符: %v, %v", preds[0].Label, preds[1].Label)
	}
}

// TestPredictBatchFailFast 任一向量维度不符时整体失败，错误链仍可识别。
func TestPredictBatchFailFast(t *testing.T) {
	p := New(trainedArtifact(t))

	preds, err := p.PredictBatch([]core.FeatureVector{
		probeVector(1.1),
		{1, 2, 3},
	})
	if preds != nil {
		t.Error("整体失败时不应产出部分结果")
	}
	if !core.IsSchemaMismatch(err) {
		t.Fatalf("期望包装后的 SCHEMA_MISMATCH，实际 %v", err)
	}
}

func TestNewFromFile(t *testing.T) {
	artifact := trainedArtifact(t)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := artifact.Save(path); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	p, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile 失败: %v", err)
	}
	if p.Meta().ModelVersion != "v1.0.0" {
		t.Errorf("ModelVersion = %q, want %q", p.Meta().ModelVersion, "v1.0.0")
	}

	pred, err := p.Predict(probeVector(9.1))
	if err != nil {
		t.Fatalf("预测失败: %v", err)
	}
	if pred.Label != core.LabelGood {
		t.Errorf("Label = %v, want %v", pred.Label, core.LabelGood)
	}
}

func TestNewFromFileMissing(t *testing.T) {
	if _, err := NewFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("缺失文件应报错")
	}
}
