// Package feedrec 是社交信息流的混合推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 四路召回（兴趣内容 / 协同 / 社交 / 热门）并发 fan-out，按固定优先级合并
// - 混合打分可解释：每条结果带有序的推荐因子
package feedrec

import "github.com/voizy/feedrec/pipeline"

// 轻量 facade：便于用户直接 import "feedrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
