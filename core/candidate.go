package core

import "github.com/voizy/feedrec/pkg/utils"

// Candidate 是推荐链路中的统一承载结构：分源部分分数、最终分数、解释因子、标签。
// 每次推荐请求都会重新生成，绝不落库。
//
// 部分分数由各召回源写入（未命中的源保持 0）：
//   - CollaborativeScore: 协同信号（相似用户的交互深度）
//   - ContentBasedScore:  兴趣标签匹配信号
//   - PopularityScore:    互动热度（shares×3 + comments×2 + reactions，/100 封顶 1.0）
//   - RecencyScore:       时效（30 天线性衰减到 0）
//   - SocialScore:        好友信号（仅社交召回源设置，HasSocialScore 标记"存在"语义）
type Candidate struct {
	ContentID int64

	CollaborativeScore float64
	ContentBasedScore  float64
	PopularityScore    float64
	RecencyScore       float64
	SocialScore        float64
	HasSocialScore     bool

	// Score 是 rank 阶段写入的最终加权分数；rerank 的探索加成也作用于它。
	Score float64

	// Factors 是 rank 阶段写入的有序解释因子（similar_users / your_interests / ...）。
	Factors []string

	// Labels 用于解释与观测，全链路透传（召回来源、过滤原因等）。
	Labels map[string]utils.Label

	// Meta 缓存已解析的内容元信息（creator_id 等），避免下游重复查询。
	Meta map[string]any
}

// Meta 的约定 key。rank 阶段解析内容元数据后写入，
// rerank 与结果组装直接消费，避免重复回查存储。
const (
	MetaCreatorID   = "creator_id"   // int64
	MetaContentType = "content_type" // string：post / poll / repost
	MetaTitle       = "title"        // string：原始正文，展示层自行截断
	MetaCreatedAt   = "created_at"   // time.Time
)

func NewCandidate(contentID int64) *Candidate {
	return &Candidate{
		ContentID: contentID,
		Labels:    make(map[string]utils.Label),
		Meta:      make(map[string]any),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// SetSocialScore 设置好友信号分数并标记"存在"。
// factor 判定需要区分"social_score 为 0"与"social_score 不存在"，因此不直接暴露字段赋值。
func (c *Candidate) SetSocialScore(score float64) {
	c.SocialScore = score
	c.HasSocialScore = true
}
