package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/winekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("features", cel.DynType),
		cel.Variable("quality", cel.DoubleType),
		cel.Variable("has_quality", cel.BoolType),
		cel.Variable("type", cel.StringType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel env not initialized")
	}
	return celEnv, err
}

// Filter 是样本过滤 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：features["alcohol"] > 10.0 / quality >= 5.0
//   - 逻辑：features["pH"] < 3.5 && features["alcohol"] > 9.0
//   - 类型：type == "red"
//
// 示例：
//   - `features["volatile acidity"] < 1.0` → 剔除挥发酸异常样本
//   - `type == "white" && quality >= 5.0` → 只保留评分正常的白葡萄酒
//
// 表达式在 NewFilter 时编译一次，Match 可以被并发多次调用。
type Filter struct {
	expr string
	prg  cel.Program
}

// NewFilter 编译 DSL 表达式并返回过滤器。
// 表达式为空时返回 (nil, nil)，表示不过滤。
func NewFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env error: %v", err)
	}

	// 编译表达式
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Filter{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式（用于日志/元数据）。
func (f *Filter) Expr() string { return f.expr }

// Match 对单条样本执行表达式，返回布尔结果。
func (f *Filter) Match(s *core.Sample) (bool, error) {
	input := buildInput(s)

	out, _, err := f.prg.Eval(input)
	if err != nil {
		// 访问不存在的 feature key 时，CEL 会返回错误
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(s *core.Sample) map[string]interface{} {
	features := make(map[string]interface{}, len(s.Features))
	for k, v := range s.Features {
		features[k] = v
	}
	return map[string]interface{}{
		"features":    features,
		"quality":     s.Quality,
		"has_quality": s.HasQuality,
		"type":        s.Type,
	}
}
