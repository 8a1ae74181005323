package core

import (
	"math"
	"time"
)

// EmbeddingTypeCombined 是核心唯一依赖的向量类型：全部子向量拼接后归一化的结果。
// 每个 owner + type 只保留一份当前值，重算即覆盖。
const EmbeddingTypeCombined = "combined"

// EmbeddingVector 是定长归一化数值向量（L2 范数为 1，源数据为空时全零）。
type EmbeddingVector struct {
	OwnerID   int64     `json:"owner_id"`
	Type      string    `json:"type"`
	Values    []float64 `json:"values"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsZero 判断向量是否为空或全零（冷启动占位）。
func (e *EmbeddingVector) IsZero() bool {
	if e == nil || len(e.Values) == 0 {
		return true
	}
	for _, v := range e.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// CosineSimilarity 计算两个向量的余弦相似度。
// 长度不一致、任一向量为空或全零时定义为 0，绝不报错——缺失向量是常态而非异常。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// L2Normalize 原地把向量归一化到单位 L2 范数。
// 全零向量保持全零（不做除零），对应"源数据为空"的冷启动语义。
func L2Normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
