package recall

import (
	"context"
	"testing"

	"github.com/voizy/feedrec/core"
)

func TestFanoutMergeOrder(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&staticSource{name: "content_based", ids: []int64{1, 2}},
		&staticSource{name: "collaborative", ids: []int64{2, 3}},
		&staticSource{name: "trending", ids: []int64{3, 4}},
	}}

	// 并发执行不应影响合并顺序，跑多轮验证稳定性
	for i := 0; i < 20; i++ {
		got, err := n.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		wantIDs := []int64{1, 2, 3, 4}
		if len(got) != len(wantIDs) {
			t.Fatalf("got %d candidates, want %d", len(got), len(wantIDs))
		}
		for j, id := range wantIDs {
			if got[j].ContentID != id {
				t.Fatalf("run %d: candidate[%d].ContentID = %d, want %d", i, j, got[j].ContentID, id)
			}
		}
	}
}

func TestFanoutFirstWinsKeepsScores(t *testing.T) {
	first := core.NewCandidate(1)
	first.ContentBasedScore = 0.8
	second := core.NewCandidate(1)
	second.SetSocialScore(0.9)

	n := &Fanout{}
	got := n.mergeFirst([][]*core.Candidate{{first}, {second}})
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	// the duplicate's scores must not leak into the winner
	if got[0].ContentBasedScore != 0.8 || got[0].HasSocialScore {
		t.Errorf("merged candidate = %+v, want first candidate's scores untouched", got[0])
	}
}

func TestFanoutDuplicateMergesLabels(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&staticSource{name: "content_based", ids: []int64{1}},
		&staticSource{name: "social", ids: []int64{1}},
	}}
	got, err := n.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	lbl, ok := got[0].Labels["recall_source"]
	if !ok {
		t.Fatal("missing recall_source label")
	}
	if lbl.Value != "content_based|social" {
		t.Errorf("recall_source = %q, want merged provenance %q", lbl.Value, "content_based|social")
	}
}

func TestFanoutFailedSourceDegrades(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&failingSource{name: "collaborative"},
		&staticSource{name: "trending", ids: []int64{5}},
	}}
	got, err := n.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 || got[0].ContentID != 5 {
		t.Errorf("got %+v, want only trending result", got)
	}
}

func TestFanoutNoSources(t *testing.T) {
	n := &Fanout{}
	got, err := n.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}
