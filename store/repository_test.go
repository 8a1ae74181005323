package store

import (
	"context"
	"testing"
	"time"

	"github.com/voizy/feedrec/core"
)

func testRepo(now time.Time) *Repository {
	return NewRepository(NewMemoryStore(), func() time.Time { return now })
}

func TestRepositoryUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := testRepo(now)

	user := &core.UserProfile{
		UserID:    1,
		Username:  "alice",
		Interests: []string{"Technology", "music"},
		Friends:   []int64{2, 3},
		JoinedAt:  now.AddDate(0, -1, 0),
	}
	if err := repo.PutUser(ctx, user); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}

	got, err := repo.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Username != "alice" || len(got.Interests) != 2 || len(got.Friends) != 2 {
		t.Errorf("GetUser() = %+v, want stored profile", got)
	}

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("ListUserIDs() = %v, want [1]", ids)
	}
}

func TestRepositoryUnknownUser(t *testing.T) {
	repo := testRepo(time.Now())
	if _, err := repo.GetUser(context.Background(), 99); err != core.ErrUserNotFound {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
}

func TestRepositorySimilarInterestsOrdering(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(time.Now())

	put := func(id int64, interests ...string) {
		if err := repo.PutUser(ctx, &core.UserProfile{UserID: id, Interests: interests}); err != nil {
			t.Fatalf("PutUser(%d) error = %v", id, err)
		}
	}
	put(1, "technology", "music", "gaming")
	put(2, "technology", "music") // shares 2
	put(3, "gaming")              // shares 1
	put(4, "Technology")          // shares 1, case insensitive
	put(5, "cooking")             // shares 0

	got, err := repo.GetUsersWithSimilarInterests(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetUsersWithSimilarInterests() error = %v", err)
	}
	want := []int64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v (count desc, id asc)", got, want)
		}
	}

	limited, err := repo.GetUsersWithSimilarInterests(ctx, 1, 1)
	if err != nil {
		t.Fatalf("GetUsersWithSimilarInterests() error = %v", err)
	}
	if len(limited) != 1 || limited[0] != 2 {
		t.Errorf("limited = %v, want [2]", limited)
	}
}

func TestRepositoryActivityFeatures(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(time.Now())

	got, err := repo.GetUserActivityFeatures(ctx, 1)
	if err != nil {
		t.Fatalf("GetUserActivityFeatures() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("cold user features = %v, want empty map", got)
	}

	features := map[string]float64{core.ActivityPostFrequency: 3.5}
	if err := repo.PutUserActivity(ctx, 1, features); err != nil {
		t.Fatalf("PutUserActivity() error = %v", err)
	}
	got, err = repo.GetUserActivityFeatures(ctx, 1)
	if err != nil {
		t.Fatalf("GetUserActivityFeatures() error = %v", err)
	}
	if got[core.ActivityPostFrequency] != 3.5 {
		t.Errorf("features = %v, want post_frequency 3.5", got)
	}
}

func TestRepositoryContentIndexes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := testRepo(now)

	put := func(id, creator int64, createdAt time.Time, hashtags []string, shares int64) {
		item := &core.ContentItem{
			ContentID: id,
			CreatorID: creator,
			CreatedAt: createdAt,
			Hashtags:  hashtags,
			Shares:    shares,
		}
		if err := repo.PutContent(ctx, item); err != nil {
			t.Fatalf("PutContent(%d) error = %v", id, err)
		}
	}
	put(1, 10, now.Add(-1*time.Hour), []string{"#Tech"}, 1)
	put(2, 10, now.Add(-2*time.Hour), []string{"#tech"}, 5)
	put(3, 11, now.Add(-3*time.Hour), nil, 2)

	byTag, err := repo.GetContentByHashtag(ctx, "TECH", 10)
	if err != nil {
		t.Fatalf("GetContentByHashtag() error = %v", err)
	}
	if len(byTag) != 2 {
		t.Fatalf("hashtag lookup returned %d items, want 2", len(byTag))
	}
	// newest first
	if byTag[0].ContentID != 1 || byTag[1].ContentID != 2 {
		t.Errorf("hashtag order = [%d %d], want [1 2]", byTag[0].ContentID, byTag[1].ContentID)
	}

	byCreator, err := repo.GetContentByCreator(ctx, 10, 1)
	if err != nil {
		t.Fatalf("GetContentByCreator() error = %v", err)
	}
	if len(byCreator) != 1 || byCreator[0].ContentID != 1 {
		t.Errorf("creator feed = %+v, want newest item 1", byCreator)
	}
}

func TestRepositoryTrendingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := testRepo(now)

	// engagement 300 but outside the 3 day window
	old := &core.ContentItem{ContentID: 1, CreatedAt: now.AddDate(0, 0, -10), Shares: 100}
	// engagement 30, fresh
	fresh := &core.ContentItem{ContentID: 2, CreatedAt: now.Add(-time.Hour), Shares: 10}
	if err := repo.PutContent(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := repo.PutContent(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetTrendingContent(ctx, 3, 20)
	if err != nil {
		t.Fatalf("GetTrendingContent() error = %v", err)
	}
	if len(got) != 1 || got[0].ContentID != 2 {
		t.Errorf("trending = %+v, want only the fresh item", got)
	}
}

func TestRepositoryInteractions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := testRepo(now)

	record := func(in core.Interaction) {
		if err := repo.RecordInteraction(ctx, 1, in); err != nil {
			t.Fatalf("RecordInteraction() error = %v", err)
		}
	}
	record(core.Interaction{ContentID: 10, Type: core.InteractionView, Time: now.Add(-time.Hour)})
	record(core.Interaction{ContentID: 11, Type: core.InteractionShare, Time: now.AddDate(0, 0, -40)})

	got, err := repo.GetRecentInteractions(ctx, 1, 30)
	if err != nil {
		t.Fatalf("GetRecentInteractions() error = %v", err)
	}
	if len(got) != 1 || got[0].ContentID != 10 {
		t.Errorf("recent = %+v, want only the interaction inside the window", got)
	}
}

func TestRepositoryRecordInteractionValidation(t *testing.T) {
	repo := testRepo(time.Now())
	err := repo.RecordInteraction(context.Background(), 1, core.Interaction{ContentID: 1, Type: "bookmark"})
	if err == nil {
		t.Fatal("RecordInteraction() = nil error for unknown type")
	}
	domainErr := core.GetDomainError(err)
	if domainErr == nil || domainErr.Code != core.ErrorCodeInvalidInput {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestRepositoryRecordInteractionDefaultsTime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := testRepo(now)

	if err := repo.RecordInteraction(ctx, 1, core.Interaction{ContentID: 10, Type: core.InteractionView}); err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}
	got, err := repo.GetRecentInteractions(ctx, 1, 30)
	if err != nil {
		t.Fatalf("GetRecentInteractions() error = %v", err)
	}
	if len(got) != 1 || !got[0].Time.Equal(now) {
		t.Errorf("recorded time = %+v, want clock time %v", got, now)
	}
}

func TestRepositoryEmbeddings(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := testRepo(now)

	vec, err := repo.GetUserEmbedding(ctx, 1, core.EmbeddingTypeCombined)
	if err != nil {
		t.Fatalf("GetUserEmbedding() error = %v", err)
	}
	if vec != nil {
		t.Errorf("missing embedding = %+v, want nil", vec)
	}

	values := []float64{0.6, 0.8}
	if err := repo.PutUserEmbedding(ctx, 1, values, core.EmbeddingTypeCombined); err != nil {
		t.Fatalf("PutUserEmbedding() error = %v", err)
	}
	vec, err = repo.GetUserEmbedding(ctx, 1, core.EmbeddingTypeCombined)
	if err != nil {
		t.Fatalf("GetUserEmbedding() error = %v", err)
	}
	if vec == nil || vec.OwnerID != 1 || vec.Type != core.EmbeddingTypeCombined {
		t.Fatalf("embedding = %+v, want owner 1 combined", vec)
	}
	if len(vec.Values) != 2 || vec.Values[0] != 0.6 {
		t.Errorf("values = %v, want %v", vec.Values, values)
	}
	if !vec.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", vec.UpdatedAt, now)
	}
}
