package recall

import (
	"context"

	"github.com/voizy/feedrec/core"
)

// 协同召回里不同交互类型对应的基础分。分数越高代表行为越"重"。
var interactionWeights = map[string]float64{
	core.InteractionView:     0.5,
	core.InteractionClick:    0.5,
	core.InteractionReaction: 0.7,
	core.InteractionComment:  0.8,
	core.InteractionShare:    0.9,
}

// Collaborative 是基于相似用户的协同召回源（User-Based Collaborative Filtering）。
//
// 核心思想："兴趣相近的用户，他们最近互动过的内容也值得推荐给你"。
// 取最多 SimilarUserLimit 个相似用户，回看他们近 Days 天的交互，
// 按交互类型赋分。同一内容只保留第一次出现的分数；内容查不到时
// 跳过，但该 id 仍然占坑，后续更低优先级的同 id 交互不会再进来。
type Collaborative struct {
	Users        core.UserRepository
	Interactions core.InteractionRepository
	Contents     core.ContentRepository

	// SimilarUserLimit 相似用户数上限，<=0 时使用默认值
	SimilarUserLimit int

	// Days 交互回看窗口（天），<=0 时使用默认值
	Days int
}

func (r *Collaborative) Name() string { return "collaborative" }

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Users == nil || r.Interactions == nil || r.Contents == nil ||
		rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	limit := r.SimilarUserLimit
	if limit <= 0 {
		limit = core.DefaultSimilarUserLimit
	}
	days := r.Days
	if days <= 0 {
		days = core.DefaultInteractionDays
	}

	similar, err := r.Users.GetUsersWithSimilarInterests(ctx, rctx.UserID, limit)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{})
	out := make([]*core.Candidate, 0, 64)
	for _, uid := range similar {
		if uid == rctx.UserID {
			continue
		}
		interactions, err := r.Interactions.GetRecentInteractions(ctx, uid, days)
		if err != nil {
			continue
		}
		for _, in := range interactions {
			if rctx.Excluded(in.ContentID) {
				continue
			}
			if _, ok := seen[in.ContentID]; ok {
				continue
			}
			// 先占坑：即使下面内容查不到，也不让后续同 id 交互重新进入
			seen[in.ContentID] = struct{}{}

			if _, err := r.Contents.GetContent(ctx, in.ContentID); err != nil {
				continue
			}

			weight, ok := interactionWeights[in.Type]
			if !ok {
				weight = 0.5
			}
			c := core.NewCandidate(in.ContentID)
			c.CollaborativeScore = weight
			out = append(out, c)
		}
	}
	return out, nil
}
