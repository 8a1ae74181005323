package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/voizy/feedrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量。
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境。
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选过滤规则的解释器，使用 CEL (Common Expression Language) 实现。
// 运营侧可以用表达式下线/拦截某类候选，而无需改代码。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "trending"
//   - 数值：item.popularity_score > 0.9 / item.recency_score < 0.1
//   - 逻辑：label.recall_source == "social" && item.score > 0.8
//   - 存在性：label.recall_source != null
//   - 包含：label.recall_source.contains("content")
type Eval struct {
	item *core.Candidate
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(item *core.Candidate, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行表达式，返回布尔结果。
// 空表达式视为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// CEL 访问不存在的 key 会报错；用 label.key != null 检查存在性
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
func (e *Eval) buildInput() map[string]interface{} {
	item := map[string]interface{}{
		"content_id":          e.item.ContentID,
		"score":               e.item.Score,
		"collaborative_score": e.item.CollaborativeScore,
		"content_based_score": e.item.ContentBasedScore,
		"popularity_score":    e.item.PopularityScore,
		"recency_score":       e.item.RecencyScore,
		"social_score":        e.item.SocialScore,
		"meta":                e.item.Meta,
	}

	rctx := map[string]interface{}{
		"user_id": e.rctx.UserID,
		"params":  e.rctx.Params,
	}

	// label.recall_source 直接返回 value，方便常用写法
	labelAccessor := make(map[string]interface{})
	for k, v := range e.item.Labels {
		labelAccessor[k] = v.Value
	}

	return map[string]interface{}{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
