package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/voizy/feedrec/core"
)

// Repository 是 KeyValueStore 之上的仓储实现，同时承担读写两侧：
// 读侧实现 core 的各个仓储接口，写侧提供 Put/Record 方法供
// 外围写路径（内容发布、交互上报、数据灌入）使用。
//
// key 布局：
//
//	user:{id}               用户画像 JSON
//	user:{id}:activity      活跃度统计 JSON
//	user:{id}:interactions  交互 zset（member=交互 JSON，score=时间戳）
//	users                   全量用户 zset（score=注册时间）
//	interest:{tag}          兴趣倒排 zset（member=用户 ID）
//	content:{id}            内容快照 JSON
//	contents                全量内容 zset（score=创建时间）
//	hashtag:{tag}           话题倒排 zset（score=创建时间）
//	creator:{id}:feed       创建者时间线 zset（score=创建时间）
//	trending                热门 zset（score=互动热度）
//	emb:user:{id}:{type}    用户向量 JSON
//	emb:content:{id}:{type} 内容向量 JSON
type Repository struct {
	KV  core.KeyValueStore
	Now core.Clock
}

// NewRepository 创建仓储。now 为 nil 时使用 time.Now。
func NewRepository(kv core.KeyValueStore, now core.Clock) *Repository {
	if now == nil {
		now = time.Now
	}
	return &Repository{KV: kv, Now: now}
}

var (
	_ core.UserRepository        = (*Repository)(nil)
	_ core.ContentRepository     = (*Repository)(nil)
	_ core.InteractionRepository = (*Repository)(nil)
	_ core.InteractionRecorder   = (*Repository)(nil)
	_ core.EmbeddingStore        = (*Repository)(nil)
)

func userKey(id int64) string         { return "user:" + strconv.FormatInt(id, 10) }
func activityKey(id int64) string     { return "user:" + strconv.FormatInt(id, 10) + ":activity" }
func interactionsKey(id int64) string { return "user:" + strconv.FormatInt(id, 10) + ":interactions" }
func interestKey(tag string) string   { return "interest:" + strings.ToLower(tag) }
func contentKey(id int64) string      { return "content:" + strconv.FormatInt(id, 10) }
// hashtagKey 归一化话题标签：小写并去掉前缀 #，这样兴趣标签
// "Technology" 和内容标签 "#technology" 落在同一个索引上。
func hashtagKey(tag string) string {
	return "hashtag:" + strings.TrimPrefix(strings.ToLower(tag), "#")
}
func creatorKey(id int64) string      { return "creator:" + strconv.FormatInt(id, 10) + ":feed" }

func embKey(kind string, id int64, embType string) string {
	return "emb:" + kind + ":" + strconv.FormatInt(id, 10) + ":" + embType
}

// --- UserRepository ---

func (r *Repository) GetUser(ctx context.Context, userID int64) (*core.UserProfile, error) {
	data, err := r.KV.Get(ctx, userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	var profile core.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) GetUserInterests(ctx context.Context, userID int64) ([]string, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Interests, nil
}

func (r *Repository) GetUserFriends(ctx context.Context, userID int64) ([]int64, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Friends, nil
}

// GetUsersWithSimilarInterests 通过兴趣倒排索引统计共享兴趣数，
// 按共享数降序（同分按 ID 升序，保证结果稳定）返回最多 limit 个用户。
func (r *Repository) GetUsersWithSimilarInterests(ctx context.Context, userID int64, limit int) ([]int64, error) {
	interests, err := r.GetUserInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(interests) == 0 || limit <= 0 {
		return nil, nil
	}

	shared := make(map[int64]int)
	for _, tag := range interests {
		members, err := r.KV.ZRange(ctx, interestKey(tag), 0, -1)
		if err != nil {
			continue
		}
		for _, m := range members {
			id, err := strconv.ParseInt(m, 10, 64)
			if err != nil || id == userID {
				continue
			}
			shared[id]++
		}
	}
	if len(shared) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(shared))
	for id := range shared {
		ids = append(ids, id)
	}
	sortByCountDesc(ids, shared)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *Repository) GetUserActivityFeatures(ctx context.Context, userID int64) (map[string]float64, error) {
	data, err := r.KV.Get(ctx, activityKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]float64{}, nil
		}
		return nil, err
	}
	var features map[string]float64
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, err
	}
	return features, nil
}

func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	return r.listIDs(ctx, "users")
}

// PutUser 写入用户画像并维护兴趣倒排与全量索引。
func (r *Repository) PutUser(ctx context.Context, user *core.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := r.KV.Set(ctx, userKey(user.UserID), data); err != nil {
		return err
	}
	member := strconv.FormatInt(user.UserID, 10)
	if err := r.KV.ZAdd(ctx, "users", float64(user.JoinedAt.Unix()), member); err != nil {
		return err
	}
	for _, tag := range user.Interests {
		if err := r.KV.ZAdd(ctx, interestKey(tag), 0, member); err != nil {
			return err
		}
	}
	return nil
}

// PutUserActivity 写入用户活跃度统计。
func (r *Repository) PutUserActivity(ctx context.Context, userID int64, features map[string]float64) error {
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return r.KV.Set(ctx, activityKey(userID), data)
}

// --- ContentRepository ---

func (r *Repository) GetContent(ctx context.Context, contentID int64) (*core.ContentItem, error) {
	data, err := r.KV.Get(ctx, contentKey(contentID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrContentNotFound
		}
		return nil, err
	}
	var item core.ContentItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) GetContentByHashtag(ctx context.Context, hashtag string, limit int) ([]*core.ContentItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := r.KV.ZRange(ctx, hashtagKey(hashtag), 0, int64(limit-1))
	if err != nil {
		return nil, err
	}
	return r.loadContents(ctx, members, limit)
}

func (r *Repository) GetContentByCreator(ctx context.Context, creatorID int64, limit int) ([]*core.ContentItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := r.KV.ZRange(ctx, creatorKey(creatorID), 0, int64(limit-1))
	if err != nil {
		return nil, err
	}
	return r.loadContents(ctx, members, limit)
}

// GetTrendingContent 按互动热度降序扫描热门索引，只保留时间窗口内的内容。
func (r *Repository) GetTrendingContent(ctx context.Context, days int, limit int) ([]*core.ContentItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := r.KV.ZRange(ctx, "trending", 0, -1)
	if err != nil {
		return nil, err
	}

	cutoff := r.Now().AddDate(0, 0, -days)
	out := make([]*core.ContentItem, 0, limit)
	for _, m := range members {
		if len(out) >= limit {
			break
		}
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		item, err := r.GetContent(ctx, id)
		if err != nil {
			continue
		}
		if item.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *Repository) ListContentIDs(ctx context.Context) ([]int64, error) {
	return r.listIDs(ctx, "contents")
}

// PutContent 写入内容快照并维护话题倒排、创建者时间线与热门索引。
func (r *Repository) PutContent(ctx context.Context, item *core.ContentItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if err := r.KV.Set(ctx, contentKey(item.ContentID), data); err != nil {
		return err
	}

	member := strconv.FormatInt(item.ContentID, 10)
	createdAt := float64(item.CreatedAt.Unix())
	if err := r.KV.ZAdd(ctx, "contents", createdAt, member); err != nil {
		return err
	}
	for _, tag := range item.Hashtags {
		if err := r.KV.ZAdd(ctx, hashtagKey(tag), createdAt, member); err != nil {
			return err
		}
	}
	if err := r.KV.ZAdd(ctx, creatorKey(item.CreatorID), createdAt, member); err != nil {
		return err
	}
	return r.KV.ZAdd(ctx, "trending", item.EngagementScore(), member)
}

// --- InteractionRepository / InteractionRecorder ---

func (r *Repository) GetRecentInteractions(ctx context.Context, userID int64, days int) ([]core.Interaction, error) {
	members, err := r.KV.ZRange(ctx, interactionsKey(userID), 0, -1)
	if err != nil {
		return nil, err
	}

	cutoff := r.Now().AddDate(0, 0, -days)
	out := make([]core.Interaction, 0, len(members))
	for _, m := range members {
		var in core.Interaction
		if err := json.Unmarshal([]byte(m), &in); err != nil {
			continue
		}
		if in.Time.Before(cutoff) {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

// RecordInteraction 记录一条交互。未知交互类型返回 INVALID_INPUT；
// 时间缺省取当前时间。
func (r *Repository) RecordInteraction(ctx context.Context, userID int64, in core.Interaction) error {
	if !core.ValidInteractionType(in.Type) {
		return core.NewDomainError(core.ModuleUser, core.ErrorCodeInvalidInput,
			"unknown interaction type: "+in.Type)
	}
	if in.Time.IsZero() {
		in.Time = r.Now()
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return r.KV.ZAdd(ctx, interactionsKey(userID), float64(in.Time.Unix()), string(data))
}

// --- EmbeddingStore ---

func (r *Repository) GetUserEmbedding(ctx context.Context, userID int64, embType string) (*core.EmbeddingVector, error) {
	return r.getEmbedding(ctx, embKey("user", userID, embType))
}

func (r *Repository) PutUserEmbedding(ctx context.Context, userID int64, values []float64, embType string) error {
	return r.putEmbedding(ctx, embKey("user", userID, embType), userID, embType, values)
}

func (r *Repository) GetContentEmbedding(ctx context.Context, contentID int64, embType string) (*core.EmbeddingVector, error) {
	return r.getEmbedding(ctx, embKey("content", contentID, embType))
}

func (r *Repository) PutContentEmbedding(ctx context.Context, contentID int64, values []float64, embType string) error {
	return r.putEmbedding(ctx, embKey("content", contentID, embType), contentID, embType, values)
}

func (r *Repository) getEmbedding(ctx context.Context, key string) (*core.EmbeddingVector, error) {
	data, err := r.KV.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var vec core.EmbeddingVector
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, err
	}
	return &vec, nil
}

func (r *Repository) putEmbedding(ctx context.Context, key string, ownerID int64, embType string, values []float64) error {
	vec := core.EmbeddingVector{
		OwnerID:   ownerID,
		Type:      embType,
		Values:    values,
		UpdatedAt: r.Now(),
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return r.KV.Set(ctx, key, data)
}

// --- helpers ---

func (r *Repository) listIDs(ctx context.Context, key string) ([]int64, error) {
	members, err := r.KV.ZRange(ctx, key, 0, -1)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *Repository) loadContents(ctx context.Context, members []string, limit int) ([]*core.ContentItem, error) {
	out := make([]*core.ContentItem, 0, len(members))
	for _, m := range members {
		if len(out) >= limit {
			break
		}
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		item, err := r.GetContent(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// sortByCountDesc 按共享兴趣数降序、同分按 ID 升序原地排序。
func sortByCountDesc(ids []int64, counts map[int64]int) {
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
}
