package engine

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/voizy/feedrec/core"
)

// 离线刷新单次处理的实体数上限，避免全量扫描拖垮存储。
const (
	refreshUserLimit    = 100
	refreshContentLimit = 500
)

// 支持的模型类型。
const (
	ModelTypeHybrid        = "hybrid"
	ModelTypeCollaborative = "collaborative"
	ModelTypeContentBased  = "content_based"
)

// Embedder 按需计算单个实体的向量（计算后由实现负责落库）。
type Embedder interface {
	Embedding(ctx context.Context, id int64) ([]float64, error)
}

// ModelRecord 是一次训练产出的模型快照，JSON 序列化后落库。
// 同一模型类型只保留当前激活版本，新版本直接覆盖。
type ModelRecord struct {
	ModelType string             `json:"model_type"`
	Version   string             `json:"version"`
	Weights   map[string]float64 `json:"weights"`
	Metrics   map[string]float64 `json:"metrics"`
	CreatedAt time.Time          `json:"created_at"`
	Active    bool               `json:"active"`
}

// RefreshStats 是一次向量刷新的统计。
type RefreshStats struct {
	UsersRefreshed    int
	ContentsRefreshed int
}

// Trainer 负责离线侧的两件事：批量刷新用户/内容向量，
// 以及产出并持久化打分权重。单个实体失败只记日志不中断批次。
type Trainer struct {
	Users    core.UserRepository
	Contents core.ContentRepository

	UserEmbedder    Embedder
	ContentEmbedder Embedder

	// Models 模型快照的持久化存储
	Models core.Store

	Now    core.Clock
	Logger *zap.Logger
}

// NewTrainer 从已装配的引擎构建 Trainer，复用引擎的特征提取器。
func NewTrainer(e *Engine, models core.Store) *Trainer {
	return &Trainer{
		Users:           e.users,
		Contents:        e.contents,
		UserEmbedder:    e.userExtractor,
		ContentEmbedder: e.contentExtractor,
		Models:          models,
		Now:             e.now,
		Logger:          e.logger,
	}
}

// RefreshEmbeddings 批量重算用户与内容向量并落库。
func (t *Trainer) RefreshEmbeddings(ctx context.Context) (*RefreshStats, error) {
	stats := &RefreshStats{}

	userIDs, err := t.Users.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(userIDs) > refreshUserLimit {
		userIDs = userIDs[:refreshUserLimit]
	}
	for _, id := range userIDs {
		if _, err := t.UserEmbedder.Embedding(ctx, id); err != nil {
			t.log().Warn("refresh user embedding failed", zap.Int64("user_id", id), zap.Error(err))
			continue
		}
		stats.UsersRefreshed++
	}

	contentIDs, err := t.Contents.ListContentIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(contentIDs) > refreshContentLimit {
		contentIDs = contentIDs[:refreshContentLimit]
	}
	for _, id := range contentIDs {
		if _, err := t.ContentEmbedder.Embedding(ctx, id); err != nil {
			t.log().Warn("refresh content embedding failed", zap.Int64("content_id", id), zap.Error(err))
			continue
		}
		stats.ContentsRefreshed++
	}

	t.log().Info("embeddings refreshed",
		zap.Int("users", stats.UsersRefreshed),
		zap.Int("contents", stats.ContentsRefreshed))
	return stats, nil
}

// Train 刷新向量、产出指定模型类型的权重并持久化。
// 返回落库后的模型快照。
func (t *Trainer) Train(ctx context.Context, modelType string) (*ModelRecord, error) {
	weights, err := modelWeights(modelType)
	if err != nil {
		return nil, err
	}

	if _, err := t.RefreshEmbeddings(ctx); err != nil {
		return nil, err
	}

	now := t.nowTime()
	record := &ModelRecord{
		ModelType: modelType,
		Version:   modelType + "_v" + now.Format("20060102_150405"),
		Weights:   weights,
		CreatedAt: now,
		Active:    true,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if err := t.Models.Set(ctx, modelKey(modelType), data); err != nil {
		return nil, err
	}

	t.log().Info("model trained",
		zap.String("model_type", modelType),
		zap.String("version", record.Version))
	return record, nil
}

// ModelInfo 读取当前激活的模型快照；没有训练过返回 NOT_FOUND。
func (t *Trainer) ModelInfo(ctx context.Context, modelType string) (*ModelRecord, error) {
	data, err := t.Models.Get(ctx, modelKey(modelType))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound,
				"no trained model for type: "+modelType)
		}
		return nil, err
	}
	var record ModelRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// modelWeights 返回各模型类型的打分权重。
func modelWeights(modelType string) (map[string]float64, error) {
	switch modelType {
	case ModelTypeHybrid:
		return map[string]float64{
			"collaborative_score": 0.4,
			"content_based_score": 0.4,
			"popularity_score":    0.1,
			"recency_score":       0.1,
		}, nil
	case ModelTypeCollaborative:
		return map[string]float64{
			"user_similarity":    0.6,
			"content_popularity": 0.2,
			"recency":            0.2,
		}, nil
	case ModelTypeContentBased:
		return map[string]float64{
			"interest_match":  0.5,
			"hashtag_match":   0.3,
			"text_similarity": 0.2,
		}, nil
	default:
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"unknown model type: "+modelType)
	}
}

func modelKey(modelType string) string { return "model:" + modelType }

func (t *Trainer) nowTime() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Trainer) log() *zap.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}
