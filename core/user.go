package core

import "time"

// 交互类型。Collaborative 召回按交互深度打分：view/click 0.5、reaction 0.7、
// comment 0.8、share 0.9（单调递增）。
const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionReaction = "reaction"
	InteractionComment  = "comment"
	InteractionShare    = "share"
)

// ValidInteractionType 校验交互类型是否为五种已知类型之一。
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionView, InteractionClick, InteractionReaction, InteractionComment, InteractionShare:
		return true
	}
	return false
}

// Interaction 是一条用户-内容交互记录。
// Subtype 仅对 reaction 有意义（like / love / laugh / ...），用于用户画像的反应分布。
type Interaction struct {
	ContentID int64
	Type      string
	Subtype   string
	Time      time.Time
}

// UserProfile 是用户的只读快照，核心只消费不回写。
//
// 维度          作用
// Interests     内容召回 / 协同邻居检索 / 兴趣向量
// Friends       社交召回
// 活跃度统计    用户向量（activity 子向量），由仓储或 Feast 特征服务提供
type UserProfile struct {
	UserID   int64
	Username string

	// Interests 是兴趣标签集合（"technology"、"music" 等）。
	Interests []string

	// Friends 是已接受好友关系的对端用户 ID（关系对称）。
	Friends []int64

	JoinedAt time.Time
}

// 活跃度统计的特征名。与 Feast 特征视图中的字段名保持一致。
const (
	ActivityPostFrequency     = "post_frequency"
	ActivityCommentFrequency  = "comment_frequency"
	ActivityReactionFrequency = "reaction_frequency"
	ActivityShareFrequency    = "share_frequency"
	ActivityActiveDaysPerWeek = "active_days_per_week"
)
