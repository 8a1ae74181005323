// Package engine 组装召回、过滤、排序、重排节点，对外提供推荐服务入口。
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/voizy/feedrec/config"
	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/feature"
	"github.com/voizy/feedrec/filter"
	"github.com/voizy/feedrec/pipeline"
	"github.com/voizy/feedrec/pkg/conv"
	"github.com/voizy/feedrec/rank"
	"github.com/voizy/feedrec/recall"
	"github.com/voizy/feedrec/rerank"
)

// TitleRuneLimit 是结果里标题摘要的最大长度（按 rune 截断）。
const TitleRuneLimit = 50

// Request 是一次推荐请求。
type Request struct {
	UserID int64

	// Limit 返回条数，<=0 时使用配置的默认值
	Limit int

	// UserEmbedding 调用方自带的用户向量（可选）。
	// 不提供时引擎先查存储，再没有就现算并落库。
	UserEmbedding []float64

	// ExcludeContentIDs 要排除的内容 ID（已曝光、已屏蔽等）
	ExcludeContentIDs []int64

	// ContentTypes 内容类型白名单（post / poll / repost），空表示不过滤
	ContentTypes []string
}

// Recommendation 是单条推荐结果。
type Recommendation struct {
	ContentID int64     `json:"content_id"`
	Score     float64   `json:"score"`
	Factors   []string  `json:"factors"`
	CreatorID int64     `json:"creator_id"`
	Type      string    `json:"content_type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Result 是一次推荐调用的完整返回。
type Result struct {
	UserID          int64            `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// Options 是引擎的装配参数。
type Options struct {
	Config *config.Config

	Users        core.UserRepository
	Contents     core.ContentRepository
	Interactions core.InteractionRepository
	Recorder     core.InteractionRecorder
	Embeddings   core.EmbeddingStore

	// Activity 可选的在线活跃度特征服务（Feast 适配层）
	Activity feature.ActivityFeatureService

	Rand   core.Rand
	Now    core.Clock
	Logger *zap.Logger
}

// Engine 是推荐引擎。每次请求都按配置现场组装一条五节点管道：
// Fanout（四路召回）→ Filter → Hybrid 排序 → Diversity 重排 → TopN 截断。
//
// 错误约定：未知用户返回 ErrUserNotFound，这是 Recommend 唯一的业务错误；
// 管道内部的召回失败、内容缺失、向量缺失都只记日志并降级，绝不让
// 单条坏数据拖垮整个请求。
type Engine struct {
	cfg *config.Config

	users        core.UserRepository
	contents     core.ContentRepository
	interactions core.InteractionRepository
	recorder     core.InteractionRecorder
	embeddings   core.EmbeddingStore

	userExtractor    *feature.UserExtractor
	contentExtractor *feature.ContentExtractor

	rand   core.Rand
	now    core.Clock
	logger *zap.Logger
}

// New 装配推荐引擎。Config/Rand/Now/Logger 缺省时使用默认值。
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = core.NewRand(time.Now().UnixNano())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	userExtractor := feature.NewUserExtractor(opts.Users, opts.Interactions, opts.Embeddings)
	userExtractor.Activity = opts.Activity

	return &Engine{
		cfg:              cfg,
		users:            opts.Users,
		contents:         opts.Contents,
		interactions:     opts.Interactions,
		recorder:         opts.Recorder,
		embeddings:       opts.Embeddings,
		userExtractor:    userExtractor,
		contentExtractor: feature.NewContentExtractor(opts.Contents, opts.Embeddings),
		rand:             rnd,
		now:              now,
		logger:           logger,
	}
}

// Recommend 生成个性化推荐。
func (e *Engine) Recommend(ctx context.Context, req *Request) (*Result, error) {
	if _, err := e.users.GetUser(ctx, req.UserID); err != nil {
		if core.IsNotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	rctx := e.buildContext(ctx, req)
	p := e.buildPipeline(limit)

	candidates, err := p.Run(ctx, rctx, nil)
	if err != nil {
		// 管道错误降级为空结果
		e.logger.Error("pipeline failed",
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		candidates = nil
	}

	result := &Result{
		UserID:          req.UserID,
		Recommendations: e.buildRecommendations(candidates),
		GeneratedAt:     e.now(),
	}
	e.logger.Info("recommendations generated",
		zap.Int64("user_id", req.UserID),
		zap.Int("count", len(result.Recommendations)))
	return result, nil
}

// RecordInteraction 记录一条用户-内容交互。
func (e *Engine) RecordInteraction(ctx context.Context, userID int64, in core.Interaction) error {
	if e.recorder == nil {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotSupported,
			"interaction recorder is not configured")
	}
	if _, err := e.users.GetUser(ctx, userID); err != nil {
		if core.IsNotFound(err) {
			return core.ErrUserNotFound
		}
		return err
	}
	return e.recorder.RecordInteraction(ctx, userID, in)
}

// buildContext 构建请求上下文，包含已解析的用户向量。
func (e *Engine) buildContext(ctx context.Context, req *Request) *core.RecommendContext {
	rctx := &core.RecommendContext{
		UserID:       req.UserID,
		ContentTypes: req.ContentTypes,
	}
	if len(req.ExcludeContentIDs) > 0 {
		rctx.Exclude = make(map[int64]struct{}, len(req.ExcludeContentIDs))
		for _, id := range req.ExcludeContentIDs {
			rctx.Exclude[id] = struct{}{}
		}
	}
	rctx.UserEmbedding = e.resolveUserEmbedding(ctx, req)
	return rctx
}

// resolveUserEmbedding 按优先级解析用户向量：请求自带 → 存储 → 现算落库。
// 全部失败时返回 nil，内容相似度分量降级为 0。
func (e *Engine) resolveUserEmbedding(ctx context.Context, req *Request) []float64 {
	if len(req.UserEmbedding) > 0 {
		return req.UserEmbedding
	}
	if e.embeddings != nil {
		if vec, err := e.embeddings.GetUserEmbedding(ctx, req.UserID, core.EmbeddingTypeCombined); err == nil && vec != nil && !vec.IsZero() {
			return vec.Values
		}
	}
	vec, err := e.userExtractor.Embedding(ctx, req.UserID)
	if err != nil {
		e.logger.Warn("user embedding unavailable",
			zap.Int64("user_id", req.UserID),
			zap.Error(err))
		return nil
	}
	return vec
}

// buildPipeline 按配置组装一次请求的管道。
func (e *Engine) buildPipeline(limit int) *pipeline.Pipeline {
	rc := e.cfg.Recall

	fanout := &recall.Fanout{
		Sources: []recall.Source{
			&recall.ContentBased{
				Users:            e.users,
				Contents:         e.contents,
				PerInterestLimit: rc.PerInterestLimit,
			},
			&recall.Collaborative{
				Users:            e.users,
				Interactions:     e.interactions,
				Contents:         e.contents,
				SimilarUserLimit: rc.SimilarUserLimit,
				Days:             rc.InteractionDays,
			},
			&recall.Social{
				Users:          e.users,
				Contents:       e.contents,
				PerFriendLimit: rc.FriendFeedLimit,
			},
			&recall.Trending{
				Contents: e.contents,
				Days:     rc.TrendingDays,
				Limit:    rc.TrendingLimit,
			},
		},
		Timeout: time.Duration(rc.SourceTimeoutMS) * time.Millisecond,
		Logger:  e.logger,
	}

	filters := []filter.Filter{
		&filter.ContentType{Contents: e.contents},
	}
	if e.cfg.FilterExpr != "" {
		filters = append(filters, &filter.Expression{Expr: e.cfg.FilterExpr})
	}

	dv := e.cfg.Diversity
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			fanout,
			&filter.FilterNode{Filters: filters},
			&rank.Hybrid{
				Contents:   e.contents,
				Embeddings: e.embeddings,
				Embedder:   e.contentExtractor,
				Weights:    e.cfg.ScoreWeights(),
				Now:        e.now,
				Logger:     e.logger,
			},
			&rerank.Diversity{
				CreatorCap:  dv.CreatorCap,
				PoolSize:    dv.PoolSize,
				KeepTop:     dv.KeepTop,
				ExploreProb: dv.ExploreProb,
				MaxBoost:    dv.MaxBoost,
				Rand:        e.rand,
			},
			&rerank.TopN{N: limit},
		},
	}
}

// buildRecommendations 把候选转换为对外结果。
// rank 阶段没能解析出元数据的候选直接跳过。
func (e *Engine) buildRecommendations(candidates []*core.Candidate) []Recommendation {
	out := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		creatorID, ok := conv.ToInt64(c.Meta[core.MetaCreatorID])
		if !ok {
			continue
		}
		contentType, _ := c.Meta[core.MetaContentType].(string)
		title, _ := c.Meta[core.MetaTitle].(string)
		createdAt, _ := c.Meta[core.MetaCreatedAt].(time.Time)

		out = append(out, Recommendation{
			ContentID: c.ContentID,
			Score:     c.Score,
			Factors:   c.Factors,
			CreatorID: creatorID,
			Type:      contentType,
			Title:     truncateRunes(title, TitleRuneLimit),
			CreatedAt: createdAt,
		})
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
