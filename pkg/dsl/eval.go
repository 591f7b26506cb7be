// Package dsl 提供基于 CEL (Common Expression Language) 的过滤表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("source", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，可被多个 goroutine 并发求值。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.price < 100.0 / item.similarity_score >= 0.5
//   - 字符串：item.category == source.category
//   - 逻辑：item.rating > 4.0 && item.reviews_count > 10
//   - 包含：item.title.contains("shoes")
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if t := ast.OutputType(); t.Kind() != types.BoolKind && t.Kind() != types.DynKind {
		return nil, fmt.Errorf("expression must return bool, got %s", t)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Evaluate 以 item / source 为输入执行表达式。
// 访问不存在的 key 会报错。
func (p *Program) Evaluate(item, source map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		"item":   item,
		"source": source,
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Eval 编译并执行一次表达式。空表达式视为 true。
func Eval(expr string, item, source map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Evaluate(item, source)
}
