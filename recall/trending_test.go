package recall

import (
	"context"
	"testing"

	"github.com/voizy/feedrec/core"
)

func TestTrendingRecall(t *testing.T) {
	contents := &fakeContents{trending: []*core.ContentItem{
		{ContentID: 401, Shares: 100}, // popularity capped at 1.0
		{ContentID: 402, Reactions: 50},
	}}

	src := &Trending{Contents: contents}
	got, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].PopularityScore != 1.0 {
		t.Errorf("candidate[0].PopularityScore = %v, want 1.0", got[0].PopularityScore)
	}
	if got[1].PopularityScore != 0.5 {
		t.Errorf("candidate[1].PopularityScore = %v, want 0.5", got[1].PopularityScore)
	}
}

func TestTrendingRecallExcludes(t *testing.T) {
	contents := &fakeContents{trending: []*core.ContentItem{
		{ContentID: 401}, {ContentID: 402},
	}}
	src := &Trending{Contents: contents}
	rctx := &core.RecommendContext{
		UserID:  1,
		Exclude: map[int64]struct{}{401: {}},
	}
	got, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(got) != 1 || got[0].ContentID != 402 {
		t.Errorf("excluded content leaked: got %+v", got)
	}
}
