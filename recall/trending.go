package recall

import (
	"context"

	"github.com/voizy/feedrec/core"
)

// Trending 是全站热门召回源：取近 Days 天内互动分最高的内容。
// 用于冷启动兜底，新用户没有兴趣、好友和交互历史时依然有内容可推。
type Trending struct {
	Contents core.ContentRepository

	// Days 热门统计窗口（天），<=0 时使用默认值
	Days int

	// Limit 召回条数上限，<=0 时使用默认值
	Limit int
}

func (r *Trending) Name() string { return "trending" }

func (r *Trending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Contents == nil || rctx == nil {
		return nil, nil
	}

	days := r.Days
	if days <= 0 {
		days = core.DefaultTrendingDays
	}
	limit := r.Limit
	if limit <= 0 {
		limit = core.DefaultTrendingLimit
	}

	items, err := r.Contents.GetTrendingContent(ctx, days, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(items))
	for _, item := range items {
		if item == nil || rctx.Excluded(item.ContentID) {
			continue
		}
		c := core.NewCandidate(item.ContentID)
		c.PopularityScore = item.PopularityScore()
		out = append(out, c)
	}
	return out, nil
}
