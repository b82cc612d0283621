package model

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rushteam/winekit/core"
)

// separableDataset 构造一份线性可分的三分类训练集：
// 第 0 维取值在三个互不重叠的区间，足以完全区分类别。
func separableDataset(n int) ([]core.FeatureVector, []core.Label) {
	X := make([]core.FeatureVector, 0, n*3)
	y := make([]core.Label, 0, n*3)
	for i := 0; i < n; i++ {
		off := float64(i) * 0.01
		X = append(X,
			core.FeatureVector{1.0 + off, 0.5, 3.0},
			core.FeatureVector{5.0 + off, 0.5, 3.0},
			core.FeatureVector{9.0 + off, 0.5, 3.0},
		)
		y = append(y, core.LabelPoor, core.LabelAverage, core.LabelGood)
	}
	return X, y
}

func fitTestForest(t *testing.T, cfg ForestConfig) *Forest {
	t.Helper()
	X, y := separableDataset(20)
	f := NewForest(cfg)
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("训练失败: %v", err)
	}
	return f
}

func TestForestFitPredict(t *testing.T) {
	f := fitTestForest(t, ForestConfig{Trees: 20, Seed: 42})

	tests := []struct {
		x    core.FeatureVector
		want core.Label
	}{
		{core.FeatureVector{1.1, 0.5, 3.0}, core.LabelPoor},
		{core.FeatureVector{5.1, 0.5, 3.0}, core.LabelAverage},
		{core.FeatureVector{9.1, 0.5, 3.0}, core.LabelGood},
	}
	for _, tt := range tests {
		got, err := f.Predict(tt.x)
		if err != nil {
			t.Fatalf("预测失败: %v", err)
		}
		if got != tt.want {
			t.Errorf("Predict(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestForestPredictProba(t *testing.T) {
	f := fitTestForest(t, ForestConfig{Trees: 20, Seed: 42})

	probs, err := f.PredictProba(core.FeatureVector{5.1, 0.5, 3.0})
	if err != nil {
		t.Fatalf("预测失败: %v", err)
	}
	if len(probs) != core.NumClasses {
		t.Fatalf("概率维度 = %d, want %d", len(probs), core.NumClasses)
	}

	sum := 0.0
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Errorf("概率越界: %v", p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("概率和 = %v, want 1", sum)
	}

	// Predict 与 PredictProba 的 argmax 一致
	label, err := f.Predict(core.FeatureVector{5.1, 0.5, 3.0})
	if err != nil {
		t.Fatalf("预测失败: %v", err)
	}
	if int(label) != Argmax(probs) {
		t.Errorf("Predict = %v 与 Argmax(probs) = %v 不一致", label, Argmax(probs))
	}
}

// TestForestDeterministic 相同种子的两次训练产生相同预测。
func TestForestDeterministic(t *testing.T) {
	f1 := fitTestForest(t, ForestConfig{Trees: 10, Seed: 7})
	f2 := fitTestForest(t, ForestConfig{Trees: 10, Seed: 7})

	probe := core.FeatureVector{4.9, 0.5, 3.0}
	p1, err := f1.PredictProba(probe)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := f2.PredictProba(probe)
	if err != nil {
		t.Fatal(err)
	}
	for c := range p1 {
		if p1[c] != p2[c] {
			t.Fatalf("相同种子概率不一致: %v vs %v", p1, p2)
		}
	}
}

func TestForestErrors(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		f := NewForest(DefaultForestConfig())
		if _, err := f.Predict(core.FeatureVector{1, 2, 3}); err == nil {
			t.Fatal("未训练的森林应拒绝预测")
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		f := fitTestForest(t, ForestConfig{Trees: 5, Seed: 1})
		if _, err := f.PredictProba(core.FeatureVector{1, 2}); err == nil {
			t.Fatal("维度不符应报错")
		}
	})

	t.Run("empty training set", func(t *testing.T) {
		f := NewForest(DefaultForestConfig())
		if err := f.Fit(nil, nil); err == nil {
			t.Fatal("空训练集应报错")
		}
	})

	t.Run("ragged matrix", func(t *testing.T) {
		f := NewForest(ForestConfig{Trees: 5})
		X := []core.FeatureVector{{1, 2, 3}, {1, 2}}
		y := []core.Label{core.LabelPoor, core.LabelGood}
		if err := f.Fit(X, y); err == nil {
			t.Fatal("特征矩阵行长不一致应报错")
		}
	})
}

func TestForestSaveLoad(t *testing.T) {
	f := fitTestForest(t, ForestConfig{Trees: 10, Seed: 42})
	path := filepath.Join(t.TempDir(), "forest.json")

	if err := f.Save(path); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	loaded, err := LoadForest(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}

	if loaded.NumFeatures() != f.NumFeatures() || loaded.NumClasses() != f.NumClasses() {
		t.Errorf("维度不符: %d/%d vs %d/%d",
			loaded.NumFeatures(), loaded.NumClasses(), f.NumFeatures(), f.NumClasses())
	}

	// 加载后的森林产生完全一致的预测
	probe := core.FeatureVector{9.1, 0.5, 3.0}
	want, err := f.PredictProba(probe)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.PredictProba(probe)
	if err != nil {
		t.Fatal(err)
	}
	for c := range want {
		if got[c] != want[c] {
			t.Fatalf("加载前后概率不一致: %v vs %v", got, want)
		}
	}
}

func TestLoadForestInvalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadForest(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("缺失文件应报错")
		}
	})
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		probs []float64
		want  int
	}{
		{[]float64{0.1, 0.7, 0.2}, 1},
		{[]float64{0.9, 0.05, 0.05}, 0},
		{[]float64{0.2, 0.2, 0.6}, 2},
		{[]float64{0.4, 0.4, 0.2}, 0}, // 并列取最小下标
		{[]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, 0},
	}
	for _, tt := range tests {
		if got := Argmax(tt.probs); got != tt.want {
			t.Errorf("Argmax(%v) = %d, want %d", tt.probs, got, tt.want)
		}
	}
}
