package core

import (
	"math/rand"
	"sync"
)

// Rand 是随机源的最小接口：返回 [0,1) 的均匀随机数。
// 探索重排是链路中唯一的非确定步骤，把它隔离在这个接口之后，
// 其余打分逻辑保持纯函数；测试注入固定种子，线上注入真实随机源。
// 不要求密码学强度。
type Rand interface {
	Float64() float64
}

// NewRand 创建一个基于 math/rand 的随机源（带锁，可被并发请求共享）。
func NewRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}
