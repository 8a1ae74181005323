package recall

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/pipeline"
	"github.com/voizy/feedrec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并按固定优先级合并结果。
//
// 合并语义：各源结果按 Sources 的声明顺序拼接后去重，同一内容只保留
// 最先出现的候选（分数不合并，label 可以累积来源信息）。并发执行不改变
// 合并顺序，每个源写入自己的结果槽位，等全部结束后按槽位顺序归并。
// 单个源失败或超时只记日志，不中断其他召回源。
type Fanout struct {
	Sources []Source
	Timeout time.Duration // 每个召回源的超时时间，0 表示不限制
	Logger  *zap.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Candidate, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range n.Sources {
		slot, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			candidates, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 单源失败降级为空结果，不影响其他召回源
				if n.Logger != nil {
					n.Logger.Warn("recall source failed",
						zap.String("source", s.Name()),
						zap.Int64("user_id", rctx.UserID),
						zap.Error(err))
				}
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, c := range candidates {
				c.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
			}
			results[slot] = candidates
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return n.mergeFirst(results), nil
}

// mergeFirst 按槽位顺序拼接并去重，同一内容保留最先出现的候选。
// 后到的重复候选只贡献 label，分数一律丢弃。
func (n *Fanout) mergeFirst(results [][]*core.Candidate) []*core.Candidate {
	total := 0
	for _, r := range results {
		total += len(r)
	}

	seen := make(map[int64]*core.Candidate, total)
	out := make([]*core.Candidate, 0, total)
	for _, r := range results {
		for _, c := range r {
			if c == nil {
				continue
			}
			if old, ok := seen[c.ContentID]; ok {
				for k, v := range c.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[c.ContentID] = c
			out = append(out, c)
		}
	}
	return out
}
