package recall

import (
	"context"
	"testing"

	"github.com/voizy/feedrec/core"
)

func TestCollaborativeRecallWeights(t *testing.T) {
	users := &fakeUsers{
		users:   map[int64]*core.UserProfile{1: {UserID: 1}},
		similar: map[int64][]int64{1: {2}},
	}
	contents := &fakeContents{contents: map[int64]*core.ContentItem{
		201: {ContentID: 201}, 202: {ContentID: 202},
		203: {ContentID: 203}, 204: {ContentID: 204}, 205: {ContentID: 205},
	}}
	interactions := &fakeInteractions{byUser: map[int64][]core.Interaction{
		2: {
			{ContentID: 201, Type: core.InteractionView},
			{ContentID: 202, Type: core.InteractionReaction},
			{ContentID: 203, Type: core.InteractionComment},
			{ContentID: 204, Type: core.InteractionShare},
			{ContentID: 205, Type: "unknown"},
		},
	}}

	src := &Collaborative{Users: users, Interactions: interactions, Contents: contents}
	got, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	want := map[int64]float64{201: 0.5, 202: 0.7, 203: 0.8, 204: 0.9, 205: 0.5}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for _, c := range got {
		if c.CollaborativeScore != want[c.ContentID] {
			t.Errorf("content %d score = %v, want %v", c.ContentID, c.CollaborativeScore, want[c.ContentID])
		}
	}
}

func TestCollaborativeRecallFirstWins(t *testing.T) {
	users := &fakeUsers{
		users:   map[int64]*core.UserProfile{1: {UserID: 1}},
		similar: map[int64][]int64{1: {2, 3}},
	}
	contents := &fakeContents{contents: map[int64]*core.ContentItem{
		201: {ContentID: 201},
	}}
	interactions := &fakeInteractions{byUser: map[int64][]core.Interaction{
		2: {{ContentID: 201, Type: core.InteractionView}},
		3: {{ContentID: 201, Type: core.InteractionShare}},
	}}

	src := &Collaborative{Users: users, Interactions: interactions, Contents: contents}
	got, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	// first interaction (view, 0.5) wins over the later share
	if got[0].CollaborativeScore != 0.5 {
		t.Errorf("score = %v, want 0.5 (first interaction wins)", got[0].CollaborativeScore)
	}
}

func TestCollaborativeRecallMissingContentStillClaimsID(t *testing.T) {
	users := &fakeUsers{
		users:   map[int64]*core.UserProfile{1: {UserID: 1}},
		similar: map[int64][]int64{1: {2, 3}},
	}
	// content 201 does not exist in the repository
	contents := &fakeContents{contents: map[int64]*core.ContentItem{}}
	interactions := &fakeInteractions{byUser: map[int64][]core.Interaction{
		2: {{ContentID: 201, Type: core.InteractionView}},
		3: {{ContentID: 201, Type: core.InteractionShare}},
	}}

	src := &Collaborative{Users: users, Interactions: interactions, Contents: contents}
	got, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// the id was claimed by the first (failed) lookup, so the second
	// interaction must not produce a candidate either
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}
