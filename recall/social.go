package recall

import (
	"context"

	"github.com/voizy/feedrec/core"
)

// Social 是社交关系召回源：召回好友最近发布的内容。
//
// 好友产出的内容给固定的社交分 0.9；没有好友或好友没有近期内容时
// 返回空结果，这是正常情况而不是错误。
type Social struct {
	Users    core.UserRepository
	Contents core.ContentRepository

	// PerFriendLimit 每个好友最多召回的近期内容条数，<=0 时使用默认值
	PerFriendLimit int
}

func (r *Social) Name() string { return "social" }

func (r *Social) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Users == nil || r.Contents == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	friends, err := r.Users.GetUserFriends(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return nil, nil
	}

	limit := r.PerFriendLimit
	if limit <= 0 {
		limit = core.DefaultFriendFeedLimit
	}

	seen := make(map[int64]struct{})
	out := make([]*core.Candidate, 0, len(friends)*limit)
	for _, friendID := range friends {
		items, err := r.Contents.GetContentByCreator(ctx, friendID, limit)
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
			c.SetSocialScore(0.9)
			out = append(out, c)
		}
	}
	return out, nil
}
