package rerank

import (
	"context"
	"sort"

	"github.com/voizy/feedrec/core"
	"github.com/voizy/feedrec/pipeline"
	"github.com/voizy/feedrec/pkg/conv"
)

// Diversity 是多样性与探索重排 Node，在排好序的候选上做三步：
//
//  1. 创建者限流：顺序扫描，单个创建者最多占 CreatorCap 个席位，
//     候选池最多收 PoolSize 个。创建者信息缺失的候选这一步跳过。
//  2. 回填：池子没满时，把被限流或缺信息跳过的候选按原序补进来。
//  3. 探索加成：头部 KeepTop 个保持原序不动；其余每个以 ExploreProb
//     概率把分数乘以 [1, 1+MaxBoost) 的均匀随机数，然后只对这部分重排。
//
// 随机源通过 Rand 注入，测试给固定种子就能得到可复现的结果。
type Diversity struct {
	// CreatorCap 单创建者席位上限，<=0 时使用默认值
	CreatorCap int

	// PoolSize 候选池大小，<=0 时使用默认值
	PoolSize int

	// KeepTop 不参与探索的头部条数，<=0 时使用默认值
	KeepTop int

	// ExploreProb 每个尾部候选被加成的概率，<=0 时使用默认值
	ExploreProb float64

	// MaxBoost 探索加成的最大幅度，<=0 时使用默认值
	MaxBoost float64

	Rand core.Rand
}

func (n *Diversity) Name() string        { return "rerank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	capPerCreator := n.CreatorCap
	if capPerCreator <= 0 {
		capPerCreator = core.DefaultCreatorCap
	}
	pool := n.PoolSize
	if pool <= 0 {
		pool = core.DefaultDiversityPool
	}

	// 第一步：创建者限流
	admitted := make([]*core.Candidate, 0, pool)
	inPool := make(map[int64]struct{}, pool)
	creatorCounts := make(map[int64]int)
	for _, c := range candidates {
		if len(admitted) >= pool {
			break
		}
		if c == nil {
			continue
		}
		creatorID, ok := conv.ToInt64(c.Meta[core.MetaCreatorID])
		if !ok {
			continue
		}
		if creatorCounts[creatorID] >= capPerCreator {
			continue
		}
		creatorCounts[creatorID]++
		admitted = append(admitted, c)
		inPool[c.ContentID] = struct{}{}
	}

	// 第二步：回填被跳过的候选，直到池满或没有剩余
	if len(admitted) < pool {
		for _, c := range candidates {
			if len(admitted) >= pool {
				break
			}
			if c == nil {
				continue
			}
			if _, ok := inPool[c.ContentID]; ok {
				continue
			}
			admitted = append(admitted, c)
			inPool[c.ContentID] = struct{}{}
		}
	}

	// 第三步：探索加成，头部保持原序
	keep := n.KeepTop
	if keep <= 0 {
		keep = core.DefaultKeepTop
	}
	if len(admitted) <= keep || n.Rand == nil {
		return admitted, nil
	}

	prob := n.ExploreProb
	if prob <= 0 {
		prob = core.DefaultExploreProb
	}
	boost := n.MaxBoost
	if boost <= 0 {
		boost = core.DefaultMaxBoost
	}

	rest := admitted[keep:]
	for _, c := range rest {
		if n.Rand.Float64() < prob {
			c.Score *= 1 + n.Rand.Float64()*boost
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Score > rest[j].Score
	})
	return admitted, nil
}
