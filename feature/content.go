package feature

import (
	"context"

	"github.com/voizy/feedrec/core"
)

// ContentEmbeddingDim 是内容向量的固定维度：
// 情感 1 + 主题 5 + 文本统计 4 + 互动 6 + 话题标签类别 17。
const ContentEmbeddingDim = 33

// 互动指标的归一化上限。
const (
	maxImpressions = 10000
	maxReactions   = 500
	maxComments    = 100
	maxShares      = 50
)

// ContentExtractor 把内容元数据转成定长向量并落库。
type ContentExtractor struct {
	Contents   core.ContentRepository
	Embeddings core.EmbeddingStore
}

// NewContentExtractor 创建内容特征提取器。
func NewContentExtractor(contents core.ContentRepository, embeddings core.EmbeddingStore) *ContentExtractor {
	return &ContentExtractor{Contents: contents, Embeddings: embeddings}
}

// Embedding 计算内容向量：查元数据、构造 33 维向量、L2 归一化，
// 然后以 "combined" 类型覆盖写入向量存储。内容不存在时返回 NOT_FOUND。
func (e *ContentExtractor) Embedding(ctx context.Context, contentID int64) ([]float64, error) {
	item, err := e.Contents.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	vec := e.Vector(item)
	core.L2Normalize(vec)

	if e.Embeddings != nil {
		if err := e.Embeddings.PutContentEmbedding(ctx, contentID, vec, core.EmbeddingTypeCombined); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

// Vector 根据内容元数据构造未归一化的 33 维向量。
func (e *ContentExtractor) Vector(item *core.ContentItem) []float64 {
	vec := make([]float64, 0, ContentEmbeddingDim)

	// 文本特征：情感 + 主题 + 文本统计
	vec = append(vec, sentimentValue(item.Text))
	vec = append(vec, topicVector(item.Text)...)
	vec = append(vec,
		clamp01(float64(len(item.Text))/500),
		clamp01(float64(wordCount(item.Text))/100),
		boolToFloat(hasURL(item.Text)),
		boolToFloat(hasMention(item.Text)),
	)

	// 互动特征
	vec = append(vec,
		clamp01(float64(item.Impressions)/maxImpressions),
		clamp01(float64(item.Views)/maxImpressions),
		clamp01(float64(item.Reactions)/maxReactions),
		clamp01(float64(item.Comments)/maxComments),
		clamp01(float64(item.Shares)/maxShares),
		engagementRate(item),
	)

	// 话题标签类别
	vec = append(vec, hashtagVector(item.Hashtags)...)
	return vec
}

// engagementRate 计算互动率：加权互动数除以曝光数，没有曝光时为 0。
// 评论权重 2、转发权重 3，和热度分的加权口径一致。
func engagementRate(item *core.ContentItem) float64 {
	if item.Impressions == 0 {
		return 0
	}
	return item.EngagementScore() / float64(item.Impressions)
}

func wordCount(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
