package recall

import (
	"context"
	"errors"
	"strings"

	"github.com/voizy/feedrec/core"
)

// 测试用的内存仓储桩。

type fakeUsers struct {
	users   map[int64]*core.UserProfile
	similar map[int64][]int64
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (*core.UserProfile, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserInterests(ctx context.Context, id int64) ([]string, error) {
	u, err := f.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Interests, nil
}

func (f *fakeUsers) GetUserFriends(ctx context.Context, id int64) ([]int64, error) {
	u, err := f.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Friends, nil
}

func (f *fakeUsers) GetUsersWithSimilarInterests(_ context.Context, id int64, limit int) ([]int64, error) {
	ids := f.similar[id]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeUsers) GetUserActivityFeatures(_ context.Context, _ int64) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (f *fakeUsers) ListUserIDs(_ context.Context) ([]int64, error) { return nil, nil }

type fakeContents struct {
	contents  map[int64]*core.ContentItem
	byHashtag map[string][]*core.ContentItem
	byCreator map[int64][]*core.ContentItem
	trending  []*core.ContentItem
}

func (f *fakeContents) GetContent(_ context.Context, id int64) (*core.ContentItem, error) {
	c, ok := f.contents[id]
	if !ok {
		return nil, core.ErrContentNotFound
	}
	return c, nil
}

func (f *fakeContents) GetContentByHashtag(_ context.Context, tag string, limit int) ([]*core.ContentItem, error) {
	items := f.byHashtag[strings.ToLower(tag)]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeContents) GetContentByCreator(_ context.Context, creatorID int64, limit int) ([]*core.ContentItem, error) {
	items := f.byCreator[creatorID]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeContents) GetTrendingContent(_ context.Context, _ int, limit int) ([]*core.ContentItem, error) {
	items := f.trending
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeContents) ListContentIDs(_ context.Context) ([]int64, error) { return nil, nil }

type fakeInteractions struct {
	byUser map[int64][]core.Interaction
}

func (f *fakeInteractions) GetRecentInteractions(_ context.Context, userID int64, _ int) ([]core.Interaction, error) {
	return f.byUser[userID], nil
}

// failingSource 总是报错，用于验证 fanout 的降级行为。
type failingSource struct{ name string }

func (s *failingSource) Name() string { return s.name }
func (s *failingSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Candidate, error) {
	return nil, errors.New("boom")
}

// staticSource 返回固定候选列表。
type staticSource struct {
	name string
	ids  []int64
}

func (s *staticSource) Name() string { return s.name }
func (s *staticSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Candidate, error) {
	out := make([]*core.Candidate, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, core.NewCandidate(id))
	}
	return out, nil
}
