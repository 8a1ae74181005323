package core

import "github.com/voizy/feedrec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/约束信息，贯穿整个 Pipeline 透传。
// 由 engine 在每次请求时构建；各 Node 只读（Labels 除外）。
type RecommendContext struct {
	UserID int64

	// UserEmbedding 是已解析的用户向量（调用方提供 / 存储读取 / 懒计算），可能为空。
	UserEmbedding []float64

	// Exclude 是调用方要求排除的内容 ID（例如已看过的内容）。
	// 各召回源必须保证结果不含其中的 ID。
	Exclude map[int64]struct{}

	// ContentTypes 是内容类型过滤白名单（post / poll / repost），空表示不过滤。
	ContentTypes []string

	// Labels 是请求级标签，可驱动 Pipeline 行为（探索强度、实验桶等）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（设备、地理位置、实时特征等），按需取用。
	Params map[string]any
}

// Excluded 判断内容是否在排除集中。
func (rctx *RecommendContext) Excluded(contentID int64) bool {
	if rctx == nil || rctx.Exclude == nil {
		return false
	}
	_, ok := rctx.Exclude[contentID]
	return ok
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
