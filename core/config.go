package core

// ScoreWeights 是混合打分的权重配置：显式不可变值，构造时注入 Scorer，
// 绝不使用包级可变全局，测试可按需覆盖而不泄漏共享状态。
type ScoreWeights struct {
	Collaborative float64
	ContentBased  float64
	Popularity    float64
	Recency       float64
}

// DefaultScoreWeights 返回线上默认权重。
// 协同与内容相似各占 0.4，热度与时效各占 0.1。
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Collaborative: 0.4,
		ContentBased:  0.4,
		Popularity:    0.1,
		Recency:       0.1,
	}
}

// 召回默认参数。各源的零值字段回退到这些常量。
const (
	// DefaultPerInterestLimit 内容召回每个兴趣标签最多取的条数
	DefaultPerInterestLimit = 10

	// DefaultSimilarUserLimit 协同召回考虑的相似用户数上限
	DefaultSimilarUserLimit = 20

	// DefaultInteractionDays 协同召回回看的交互天数
	DefaultInteractionDays = 14

	// DefaultTrendingDays 热门召回的时间窗口（天）
	DefaultTrendingDays = 3

	// DefaultTrendingLimit 热门召回的条数上限
	DefaultTrendingLimit = 20

	// DefaultFriendFeedLimit 社交召回每个好友最多取的近期内容条数
	DefaultFriendFeedLimit = 10
)

// 多样性重排默认参数。
const (
	// DefaultCreatorCap 前 50 个席位中单个创建者最多出现的次数
	DefaultCreatorCap = 2

	// DefaultDiversityPool 重排阶段收集的候选池大小
	DefaultDiversityPool = 50

	// DefaultKeepTop 保持原序不参与探索的头部条数
	DefaultKeepTop = 5

	// DefaultExploreProb 每个尾部条目被探索加成的概率
	DefaultExploreProb = 0.3

	// DefaultMaxBoost 探索加成的最大幅度（分数乘以 [1, 1+MaxBoost] 的均匀随机数）
	DefaultMaxBoost = 0.1
)

// 打分阶段的解释因子阈值。
const (
	FactorScoreThreshold   = 0.3 // similar_users / your_interests / popular / friend_activity
	FactorRecencyThreshold = 0.7 // recent
)
