package filter

import (
	"context"

	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/pkg/dsl"
)

// Expression 是基于 CEL 表达式的过滤器：表达式命中（返回 true）的候选被移除。
// 运营侧可以用它临时拦截某类候选，例如：
//
//	label.recall_source == "trending" && item.popularity_score < 0.1
//
// 表达式为空时不过滤任何候选。
type Expression struct {
	Expr string
}

func (f *Expression) Name() string { return "filter.expression" }

func (f *Expression) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(c, rctx).Evaluate(f.Expr)
}
