package feature

import (
	"context"

	"github.com/voizy/feedrec/core"
)

// UserEmbeddingDim 是用户向量的固定维度：
// 兴趣 12 + 活跃度 5 + 反应分布 7 + 活跃时段 4 + 活跃等级 1。
const UserEmbeddingDim = 29

// 画像统计的回看窗口（天）。
const profileInteractionDays = 30

// 活跃度指标的归一化上限（周频）。
const (
	maxPostFrequency     = 10
	maxCommentFrequency  = 50
	maxReactionFrequency = 100
	maxShareFrequency    = 20
)

// reactionSubtypes 定义反应分布向量的维度顺序。
var reactionSubtypes = []string{
	"like", "love", "laugh", "congratulate", "shocked", "sad", "angry",
}

// UserExtractor 把用户画像转成定长向量并落库。
//
// Activity 是可选的在线特征服务；配置后优先取在线特征，
// 失败时回退到仓储的活跃度统计，两边都拿不到就用零值。
type UserExtractor struct {
	Users        core.UserRepository
	Interactions core.InteractionRepository
	Embeddings   core.EmbeddingStore
	Activity     ActivityFeatureService
}

// NewUserExtractor 创建用户特征提取器。
func NewUserExtractor(
	users core.UserRepository,
	interactions core.InteractionRepository,
	embeddings core.EmbeddingStore,
) *UserExtractor {
	return &UserExtractor{Users: users, Interactions: interactions, Embeddings: embeddings}
}

// Embedding 计算用户向量：兴趣、活跃度、近 30 天交互派生的行为分布，
// 拼成 29 维向量后 L2 归一化，并以 "combined" 类型覆盖写入向量存储。
// 用户不存在时返回 NOT_FOUND。
func (e *UserExtractor) Embedding(ctx context.Context, userID int64) ([]float64, error) {
	user, err := e.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	interests := user.Interests
	if len(interests) == 0 {
		if got, err := e.Users.GetUserInterests(ctx, userID); err == nil {
			interests = got
		}
	}

	activity := e.activityFeatures(ctx, userID)

	interactions, err := e.Interactions.GetRecentInteractions(ctx, userID, profileInteractionDays)
	if err != nil {
		interactions = nil
	}

	vec := make([]float64, 0, UserEmbeddingDim)
	vec = append(vec, interestVector(interests)...)
	vec = append(vec, activityVector(activity)...)
	vec = append(vec, reactionDistribution(interactions)...)
	vec = append(vec, activityTimeDistribution(interactions)...)
	vec = append(vec, engagementLevel(len(interactions)))

	core.L2Normalize(vec)

	if e.Embeddings != nil {
		if err := e.Embeddings.PutUserEmbedding(ctx, userID, vec, core.EmbeddingTypeCombined); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

// activityFeatures 获取活跃度统计：在线特征服务优先，仓储兜底。
func (e *UserExtractor) activityFeatures(ctx context.Context, userID int64) map[string]float64 {
	if e.Activity != nil {
		if features, err := e.Activity.ActivityFeatures(ctx, userID); err == nil && len(features) > 0 {
			return features
		}
	}
	if features, err := e.Users.GetUserActivityFeatures(ctx, userID); err == nil {
		return features
	}
	return nil
}

// activityVector 返回 5 维活跃度向量，各指标按经验上限归一化。
func activityVector(activity map[string]float64) []float64 {
	return []float64{
		clamp01(activity[core.ActivityPostFrequency] / maxPostFrequency),
		clamp01(activity[core.ActivityCommentFrequency] / maxCommentFrequency),
		clamp01(activity[core.ActivityReactionFrequency] / maxReactionFrequency),
		clamp01(activity[core.ActivityShareFrequency] / maxShareFrequency),
		activity[core.ActivityActiveDaysPerWeek] / 7,
	}
}

// reactionDistribution 返回 7 维反应类型分布，按反应总数归一化。
func reactionDistribution(interactions []core.Interaction) []float64 {
	counts := make(map[string]int)
	total := 0
	for _, in := range interactions {
		if in.Type != core.InteractionReaction {
			continue
		}
		counts[in.Subtype]++
		total++
	}

	out := make([]float64, len(reactionSubtypes))
	if total == 0 {
		return out
	}
	for i, subtype := range reactionSubtypes {
		out[i] = float64(counts[subtype]) / float64(total)
	}
	return out
}

// activityTimeDistribution 返回 4 维活跃时段分布：
// 早 6-12、午 12-18、晚 18-24、夜 0-6，按交互总数归一化。
func activityTimeDistribution(interactions []core.Interaction) []float64 {
	out := make([]float64, 4)
	if len(interactions) == 0 {
		return out
	}
	for _, in := range interactions {
		hour := in.Time.Hour()
		switch {
		case hour >= 6 && hour < 12:
			out[0]++
		case hour >= 12 && hour < 18:
			out[1]++
		case hour >= 18:
			out[2]++
		default:
			out[3]++
		}
	}
	total := float64(len(interactions))
	for i := range out {
		out[i] /= total
	}
	return out
}

// engagementLevel 按近 30 天交互量折算活跃等级：>50 高 1.0、>20 中 0.5、否则 0。
func engagementLevel(interactionCount int) float64 {
	switch {
	case interactionCount > 50:
		return 1.0
	case interactionCount > 20:
		return 0.5
	default:
		return 0.0
	}
}
