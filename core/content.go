package core

import "time"

// 内容类型判定结果，见 ContentItem.Type。
const (
	ContentTypePost   = "post"
	ContentTypePoll   = "poll"
	ContentTypeRepost = "repost"
)

// ContentItem 是内容（帖子/投票/转发）的只读快照。
// 在一次推荐调用内视为不可变；计数器由外围写路径维护。
type ContentItem struct {
	ContentID int64
	CreatorID int64
	CreatedAt time.Time

	Text     string
	Hashtags []string

	// 互动计数器
	Impressions int64
	Views       int64
	Reactions   int64
	Comments    int64
	Shares      int64

	// IsPoll / OriginalPostID 决定内容类型（见 Type）。
	IsPoll         bool
	OriginalPostID int64
}

// Type 解析内容类型：投票标记优先，其次转发（存在原帖 ID），否则普通帖子。
func (c *ContentItem) Type() string {
	if c.IsPoll {
		return ContentTypePoll
	}
	if c.OriginalPostID != 0 {
		return ContentTypeRepost
	}
	return ContentTypePost
}

// EngagementScore 计算互动热度：shares×3 + comments×2 + reactions。
// 分享权重最高，其次评论，最后点赞类反应。
func (c *ContentItem) EngagementScore() float64 {
	return float64(c.Reactions) + float64(c.Comments)*2 + float64(c.Shares)*3
}

// PopularityScore 把互动热度折算到 [0,1]：engagement/100 封顶 1.0。
func (c *ContentItem) PopularityScore() float64 {
	score := c.EngagementScore() / 100
	if score > 1.0 {
		return 1.0
	}
	return score
}

// RecencyScore 计算时效分：30 天内线性衰减，过期归 0；创建时间缺失视为过期。
func (c *ContentItem) RecencyScore(now time.Time) float64 {
	if c.CreatedAt.IsZero() {
		return 0
	}
	ageDays := now.Sub(c.CreatedAt).Hours() / 24
	score := 1 - ageDays/30
	if score < 0 {
		return 0
	}
	return score
}
