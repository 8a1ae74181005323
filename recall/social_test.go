package recall

import (
	"context"
	"testing"

	"github.com/voizy/feedrec/core"
)

func TestSocialRecall(t *testing.T) {
	users := &fakeUsers{users: map[int64]*core.UserProfile{
		1: {UserID: 1, Friends: []int64{2, 3}},
	}}
	contents := &fakeContents{byCreator: map[int64][]*core.ContentItem{
		2: {{ContentID: 301, CreatorID: 2}},
		3: {{ContentID: 302, CreatorID: 3}, {ContentID: 301, CreatorID: 3}},
	}}

	src := &Social{Users: users, Contents: contents}
	got, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// 301 shows up for both friends but is returned once
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	for _, c := range got {
		if !c.HasSocialScore || c.SocialScore != 0.9 {
			t.Errorf("content %d social score = (%v, %v), want (0.9, true)",
				c.ContentID, c.SocialScore, c.HasSocialScore)
		}
	}
}

func TestSocialRecallNoFriends(t *testing.T) {
	users := &fakeUsers{users: map[int64]*core.UserProfile{
		1: {UserID: 1},
	}}
	src := &Social{Users: users, Contents: &fakeContents{}}
	got, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0 for user without friends", len(got))
	}
}
