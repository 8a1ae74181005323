package core

import (
	"context"
	"time"
)

// 仓储接口定义在领域层（core），由基础设施层（store 等）实现。
// 遵循依赖倒置原则：召回源 / 特征抽取器 / engine 只依赖这些接口，
// 对接 MySQL、Redis 还是内存实现由外围装配决定。
//
// 统一约定："无数据"返回空结果而不是错误（DataUnavailable 是常态）；
// "实体不存在"返回 NOT_FOUND 类 DomainError。

// UserRepository 提供用户画像的读取能力。
type UserRepository interface {
	// GetUser 获取用户快照；不存在时返回 ErrUserNotFound。
	GetUser(ctx context.Context, userID int64) (*UserProfile, error)

	// GetUserInterests 获取用户兴趣标签集合。
	GetUserInterests(ctx context.Context, userID int64) ([]string, error)

	// GetUserFriends 获取已接受好友关系的对端用户 ID（关系对称）。
	GetUserFriends(ctx context.Context, userID int64) ([]int64, error)

	// GetUsersWithSimilarInterests 按共享兴趣数降序返回最多 limit 个相似用户（不含自己）。
	GetUsersWithSimilarInterests(ctx context.Context, userID int64, limit int) ([]int64, error)

	// GetUserActivityFeatures 获取用户活跃度统计（post_frequency 等），
	// 冷启动用户返回空 map。
	GetUserActivityFeatures(ctx context.Context, userID int64) (map[string]float64, error)

	// ListUserIDs 列出所有用户 ID（供离线刷新向量使用）。
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// ContentRepository 提供内容的读取能力。
type ContentRepository interface {
	// GetContent 获取内容快照；不存在时返回 ErrContentNotFound。
	GetContent(ctx context.Context, contentID int64) (*ContentItem, error)

	// GetContentByHashtag 按 hashtag（大小写不敏感）返回最多 limit 条内容。
	GetContentByHashtag(ctx context.Context, hashtag string, limit int) ([]*ContentItem, error)

	// GetContentByCreator 按创建者返回最近的最多 limit 条内容（按创建时间降序）。
	GetContentByCreator(ctx context.Context, creatorID int64, limit int) ([]*ContentItem, error)

	// GetTrendingContent 返回最近 days 天内按互动热度降序的最多 limit 条内容。
	GetTrendingContent(ctx context.Context, days int, limit int) ([]*ContentItem, error)

	// ListContentIDs 列出所有内容 ID（供离线刷新向量使用）。
	ListContentIDs(ctx context.Context) ([]int64, error)
}

// InteractionRepository 提供交互历史的读取能力。
type InteractionRepository interface {
	// GetRecentInteractions 返回用户最近 days 天内的交互记录（时间降序）。
	GetRecentInteractions(ctx context.Context, userID int64, days int) ([]Interaction, error)
}

// InteractionRecorder 提供交互记录的写入能力。
// 交互类型必须是五种已知类型之一，否则返回 INVALID_INPUT。
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, userID int64, in Interaction) error
}

// EmbeddingStore 提供向量的读写能力。
// 每个 owner + type 只有一份当前值；Put 总是覆盖。
// 并发重算同一 owner 时 last-write-wins 即可，重复计算是浪费不是错误。
type EmbeddingStore interface {
	// GetUserEmbedding 获取用户向量；不存在时返回 (nil, nil)。
	GetUserEmbedding(ctx context.Context, userID int64, embType string) (*EmbeddingVector, error)

	// PutUserEmbedding 覆盖写入用户向量。
	PutUserEmbedding(ctx context.Context, userID int64, values []float64, embType string) error

	// GetContentEmbedding 获取内容向量；不存在时返回 (nil, nil)。
	GetContentEmbedding(ctx context.Context, contentID int64, embType string) (*EmbeddingVector, error)

	// PutContentEmbedding 覆盖写入内容向量。
	PutContentEmbedding(ctx context.Context, contentID int64, values []float64, embType string) error
}

// Clock 抽象"现在"，用于时效衰减与时间窗口的可测试性。
type Clock func() time.Time
