package rerank

import (
	"context"

	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/pipeline"
)

// TopN 是截断节点，保留前 N 个候选。通常放在 Diversity 之后，
// 把候选池裁剪到请求要求的条数。
type TopN struct {
	// N 要保留的候选数量；N <= 0 或候选不足 N 时不截断
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 || len(candidates) <= n.N {
		return candidates, nil
	}
	return candidates[:n.N], nil
}
