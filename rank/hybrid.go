package rank

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/pipeline"
	"github.com/voizy/feedrec/pkg/utils"
)

// 解释因子。顺序固定：判定按 similar_users、your_interests、popular、
// recent、friend_activity 依次进行，结果里的因子顺序因此也是稳定的。
const (
	FactorSimilarUsers      = "similar_users"
	FactorYourInterests     = "your_interests"
	FactorPopular           = "popular"
	FactorRecent            = "recent"
	FactorFriendActivity    = "friend_activity"
	FactorRecommendedForYou = "recommended_for_you"
)

// ContentEmbedder 按需计算内容向量（计算后由实现负责落库）。
// 由 feature.ContentExtractor 实现。
type ContentEmbedder interface {
	Embedding(ctx context.Context, contentID int64) ([]float64, error)
}

// Hybrid 是混合打分 Node：对每个候选计算四个分量并加权求和。
//
//	score = w1·协同分 + w2·内容相似度 + w3·热度分 + w4·时效分
//
// 协同分来自召回阶段；内容相似度是用户向量与内容向量的余弦；
// 热度和时效由内容元数据即时计算。元数据查不到的候选会被丢弃。
// 打分同时产出解释因子，排序使用稳定排序，同分保持输入顺序。
type Hybrid struct {
	Contents   core.ContentRepository
	Embeddings core.EmbeddingStore
	Embedder   ContentEmbedder

	Weights core.ScoreWeights
	Now     core.Clock
	Logger  *zap.Logger
}

func (n *Hybrid) Name() string        { return "rank.hybrid" }
func (n *Hybrid) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	now := n.now()
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}

		item, err := n.Contents.GetContent(ctx, c.ContentID)
		if err != nil || item == nil {
			// 元数据缺失的候选无法打分，丢弃
			continue
		}

		if c.Meta == nil {
			c.Meta = make(map[string]any)
		}
		c.Meta[core.MetaCreatorID] = item.CreatorID
		c.Meta[core.MetaContentType] = item.Type()
		c.Meta[core.MetaTitle] = item.Text
		c.Meta[core.MetaCreatedAt] = item.CreatedAt

		c.PopularityScore = item.PopularityScore()
		c.RecencyScore = item.RecencyScore(now)
		c.ContentBasedScore = n.contentSimilarity(ctx, rctx, c.ContentID)

		c.Score = n.Weights.Collaborative*c.CollaborativeScore +
			n.Weights.ContentBased*c.ContentBasedScore +
			n.Weights.Popularity*c.PopularityScore +
			n.Weights.Recency*c.RecencyScore

		c.Factors = explainFactors(c)
		c.PutLabel("rank_model", utils.Label{Value: "hybrid", Source: "rank"})
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// contentSimilarity 计算用户向量与内容向量的余弦相似度。
// 内容向量优先读存储，没有就现算（现算会落库供下次复用）；
// 拿不到向量时相似度为 0，打分继续。
func (n *Hybrid) contentSimilarity(ctx context.Context, rctx *core.RecommendContext, contentID int64) float64 {
	if len(rctx.UserEmbedding) == 0 {
		return 0
	}

	var values []float64
	if n.Embeddings != nil {
		if vec, err := n.Embeddings.GetContentEmbedding(ctx, contentID, core.EmbeddingTypeCombined); err == nil && vec != nil {
			values = vec.Values
		}
	}
	if len(values) == 0 && n.Embedder != nil {
		vec, err := n.Embedder.Embedding(ctx, contentID)
		if err != nil {
			if n.Logger != nil {
				n.Logger.Debug("content embedding unavailable",
					zap.Int64("content_id", contentID),
					zap.Error(err))
			}
			return 0
		}
		values = vec
	}

	return core.CosineSimilarity(rctx.UserEmbedding, values)
}

// explainFactors 生成解释因子，顺序固定。没有任何分量过阈值时
// 回退到兜底因子 recommended_for_you。
func explainFactors(c *core.Candidate) []string {
	factors := make([]string, 0, 5)
	if c.CollaborativeScore > core.FactorScoreThreshold {
		factors = append(factors, FactorSimilarUsers)
	}
	if c.ContentBasedScore > core.FactorScoreThreshold {
		factors = append(factors, FactorYourInterests)
	}
	if c.PopularityScore > core.FactorScoreThreshold {
		factors = append(factors, FactorPopular)
	}
	if c.RecencyScore > core.FactorRecencyThreshold {
		factors = append(factors, FactorRecent)
	}
	if c.HasSocialScore && c.SocialScore > core.FactorScoreThreshold {
		factors = append(factors, FactorFriendActivity)
	}
	if len(factors) == 0 {
		factors = append(factors, FactorRecommendedForYou)
	}
	return factors
}

func (n *Hybrid) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}
