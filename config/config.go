// Package config 提供引擎的 YAML 配置。所有字段都有和线上默认值
// 一致的缺省值，配置文件只需要写想覆盖的部分。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voizy/feedrec/core"
)

// Config 是引擎的完整配置。
type Config struct {
	// DefaultLimit 请求未指定 limit 时的返回条数
	DefaultLimit int `yaml:"default_limit"`

	// FilterExpr 是可选的 CEL 过滤表达式，命中的候选被移除
	FilterExpr string `yaml:"filter_expr"`

	Weights   WeightsConfig   `yaml:"weights"`
	Recall    RecallConfig    `yaml:"recall"`
	Diversity DiversityConfig `yaml:"diversity"`
	Redis     RedisConfig     `yaml:"redis"`
	Feast     FeastConfig     `yaml:"feast"`
}

// WeightsConfig 是混合打分的权重。
type WeightsConfig struct {
	Collaborative float64 `yaml:"collaborative"`
	ContentBased  float64 `yaml:"content_based"`
	Popularity    float64 `yaml:"popularity"`
	Recency       float64 `yaml:"recency"`
}

// RecallConfig 是各召回源的参数。
type RecallConfig struct {
	PerInterestLimit int `yaml:"per_interest_limit"`
	SimilarUserLimit int `yaml:"similar_user_limit"`
	InteractionDays  int `yaml:"interaction_days"`
	TrendingDays     int `yaml:"trending_days"`
	TrendingLimit    int `yaml:"trending_limit"`
	FriendFeedLimit  int `yaml:"friend_feed_limit"`

	// SourceTimeoutMS 单个召回源的超时（毫秒），0 表示不限制
	SourceTimeoutMS int `yaml:"source_timeout_ms"`
}

// DiversityConfig 是多样性与探索重排的参数。
type DiversityConfig struct {
	CreatorCap  int     `yaml:"creator_cap"`
	PoolSize    int     `yaml:"pool_size"`
	KeepTop     int     `yaml:"keep_top"`
	ExploreProb float64 `yaml:"explore_prob"`
	MaxBoost    float64 `yaml:"max_boost"`
}

// RedisConfig 是 Redis 存储的连接参数。Addr 为空时使用内存存储。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// FeastConfig 是 Feast 在线特征服务的连接参数。
// Host 为空时不启用，活跃度特征回退到仓储数据。
type FeastConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Project     string `yaml:"project"`
	FeatureView string `yaml:"feature_view"`
}

// Default 返回与线上默认值一致的配置。
func Default() *Config {
	w := core.DefaultScoreWeights()
	return &Config{
		DefaultLimit: 20,
		Weights: WeightsConfig{
			Collaborative: w.Collaborative,
			ContentBased:  w.ContentBased,
			Popularity:    w.Popularity,
			Recency:       w.Recency,
		},
		Recall: RecallConfig{
			PerInterestLimit: core.DefaultPerInterestLimit,
			SimilarUserLimit: core.DefaultSimilarUserLimit,
			InteractionDays:  core.DefaultInteractionDays,
			TrendingDays:     core.DefaultTrendingDays,
			TrendingLimit:    core.DefaultTrendingLimit,
			FriendFeedLimit:  core.DefaultFriendFeedLimit,
		},
		Diversity: DiversityConfig{
			CreatorCap:  core.DefaultCreatorCap,
			PoolSize:    core.DefaultDiversityPool,
			KeepTop:     core.DefaultKeepTop,
			ExploreProb: core.DefaultExploreProb,
			MaxBoost:    core.DefaultMaxBoost,
		},
	}
}

// LoadFromYAML 从 YAML 文件加载配置，未出现的字段保持默认值。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// ScoreWeights 转换为 core 的权重结构。
func (c *Config) ScoreWeights() core.ScoreWeights {
	return core.ScoreWeights{
		Collaborative: c.Weights.Collaborative,
		ContentBased:  c.Weights.ContentBased,
		Popularity:    c.Weights.Popularity,
		Recency:       c.Weights.Recency,
	}
}
