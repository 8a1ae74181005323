package feast

import (
	"context"
	"fmt"
	"strings"

	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/pkg/conv"
)

// DefaultFeatureView 是用户活跃度特征视图的默认名称。
const DefaultFeatureView = "user_activity"

// DefaultEntityName 是用户实体在特征视图中的字段名。
const DefaultEntityName = "user_id"

// ActivityFeatureProvider 把 Feast 在线特征适配成用户画像需要的活跃度统计。
// 实现 feature.ActivityFeatureService；调用失败时由调用方回退到仓储数据。
type ActivityFeatureProvider struct {
	Client Client

	// FeatureView 特征视图名称，空值使用 DefaultFeatureView
	FeatureView string

	// EntityName 实体字段名，空值使用 DefaultEntityName
	EntityName string
}

// activityFeatureNames 是活跃度统计在特征视图中的字段集合。
var activityFeatureNames = []string{
	core.ActivityPostFrequency,
	core.ActivityCommentFrequency,
	core.ActivityReactionFrequency,
	core.ActivityShareFrequency,
	core.ActivityActiveDaysPerWeek,
}

// ActivityFeatures 查询单个用户的活跃度特征。
// 返回的 key 是去掉特征视图前缀的字段名（post_frequency 等），
// 缺失的字段不会出现在结果里，由上层当作 0 处理。
func (p *ActivityFeatureProvider) ActivityFeatures(ctx context.Context, userID int64) (map[string]float64, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("feast client is not configured")
	}

	view := p.FeatureView
	if view == "" {
		view = DefaultFeatureView
	}
	entity := p.EntityName
	if entity == "" {
		entity = DefaultEntityName
	}

	features := make([]string, 0, len(activityFeatureNames))
	for _, name := range activityFeatureNames {
		features = append(features, view+":"+name)
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: []map[string]interface{}{{entity: userID}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, fmt.Errorf("feast returned no feature vectors for user %d", userID)
	}

	out := make(map[string]float64, len(activityFeatureNames))
	for name, raw := range resp.FeatureVectors[0].Values {
		v, ok := conv.ToFloat64(raw)
		if !ok {
			continue
		}
		// 去掉 "view:" 前缀，保留字段名
		if idx := strings.LastIndex(name, ":"); idx >= 0 {
			name = name[idx+1:]
		}
		out[name] = v
	}
	return out, nil
}
