package dsl

import (
	"testing"

	"github.com/rushteam/winekit/core"
)

func testSample() *core.Sample {
	return &core.Sample{
		Features: map[string]float64{
			"alcohol":          10.5,
			"pH":               3.2,
			"volatile acidity": 0.4,
		},
		Quality:    6,
		HasQuality: true,
		Type:       "red",
	}
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"feature compare", `features["alcohol"] > 10.0`, true},
		{"feature compare false", `features["alcohol"] > 12.0`, false},
		{"quality compare", `quality >= 5.0`, true},
		{"type equality", `type == "red"`, true},
		{"type equality false", `type == "white"`, false},
		{"logical and", `features["pH"] < 3.5 && features["alcohol"] > 9.0`, true},
		{"has quality flag", `has_quality`, true},
		{"feature with space", `features["volatile acidity"] < 1.0`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.expr)
			if err != nil {
				t.Fatalf("编译表达式失败: %v", err)
			}
			got, err := f.Match(testSample())
			if err != nil {
				t.Fatalf("Match 失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestNewFilterEmpty(t *testing.T) {
	f, err := NewFilter("")
	if err != nil {
		t.Fatalf("空表达式不应报错: %v", err)
	}
	if f != nil {
		t.Error("空表达式应返回 nil 过滤器")
	}
}

func TestNewFilterCompileError(t *testing.T) {
	_, err := NewFilter("not a valid ++ expr")
	if err == nil {
		t.Fatal("期望编译失败")
	}
}

func TestFilterMatchErrors(t *testing.T) {
	t.Run("missing feature key", func(t *testing.T) {
		f, err := NewFilter(`features["nonexistent"] > 1.0`)
		if err != nil {
			t.Fatalf("编译表达式失败: %v", err)
		}
		if _, err := f.Match(testSample()); err == nil {
			t.Fatal("访问不存在的 key 应报错")
		}
	})

	t.Run("non-boolean result", func(t *testing.T) {
		f, err := NewFilter(`quality + 1.0`)
		if err != nil {
			t.Fatalf("编译表达式失败: %v", err)
		}
		if _, err := f.Match(testSample()); err == nil {
			t.Fatal("非布尔结果应报错")
		}
	})
}

// TestFilterConcurrent 编译一次后 Match 可并发调用。
func TestFilterConcurrent(t *testing.T) {
	f, err := NewFilter(`features["alcohol"] > 10.0`)
	if err != nil {
		t.Fatalf("编译表达式失败: %v", err)
	}

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			ok, err := f.Match(testSample())
			done <- err == nil && ok
		}()
	}
	for i := 0; i < 10; i++ {
		if !<-done {
			t.Fatal("并发 Match 结果不一致")
		}
	}
}
