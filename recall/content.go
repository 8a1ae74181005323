package recall

import (
	"context"
	"strings"

	"github.com/voizy/feedrec/core"
)

// ContentBased 是基于兴趣标签的内容召回源。
//
// 核心思想："用户声明了感兴趣的话题，召回带有对应话题标签的内容"。
// 每个兴趣标签最多取 PerInterestLimit 条，标签匹配不区分大小写。
// 召回阶段给出固定的内容匹配分 0.8，精确的向量相似度留给排序阶段计算。
type ContentBased struct {
	Users    core.UserRepository
	Contents core.ContentRepository

	// PerInterestLimit 每个兴趣标签最多召回的条数，<=0 时使用默认值
	PerInterestLimit int
}

func (r *ContentBased) Name() string { return "content_based" }

func (r *ContentBased) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Users == nil || r.Contents == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	interests, err := r.Users.GetUserInterests(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return nil, nil
	}

	limit := r.PerInterestLimit
	if limit <= 0 {
		limit = core.DefaultPerInterestLimit
	}

	seen := make(map[int64]struct{})
	out := make([]*core.Candidate, 0, len(interests)*limit)
	for _, interest := range interests {
		tag := strings.ToLower(strings.TrimSpace(interest))
		if tag == "" {
			continue
		}
		items, err := r.Contents.GetContentByHashtag(ctx, tag, limit)
		if err != nil {
			continue
		}
		for _, item := range items {
			if item == nil || rctx.Excluded(item.ContentID) {
				continue
			}
			if _, ok := seen[item.ContentID]; ok {
				continue
			}
			seen[item.ContentID] = struct{}{}

			c := core.NewCandidate(item.ContentID)
			c.ContentBasedScore = 0.8
			out = append(out, c)
		}
	}
	return out, nil
}
