package feature

import "context"

// ActivityFeatureService 提供用户活跃度统计特征（post_frequency 等）。
// 典型实现是在线特征平台（如 Feast）的适配层；未配置或失败时
// 提取器回退到仓储数据，保证向量总能算出来。
type ActivityFeatureService interface {
	ActivityFeatures(ctx context.Context, userID int64) (map[string]float64, error)
}
