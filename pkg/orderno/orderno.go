// Package orderno 生成可读订单号。
//
// 默认格式为 yyyyMMddHHmmss + 5 位随机数。同一秒内并发下单存在碰撞可能，
// 订单号仅用于展示，不作为唯一键；需要唯一性时换用 UUIDGenerator 或序列号实现。
package orderno

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	layout    = "20060102150405"
	suffixMin = 10000
	suffixMax = 99999
)

// Generator 订单号生成器
type Generator interface {
	Next() string
}

// Intn 随机源，*rand.Rand 满足该接口
type Intn interface {
	Intn(n int) int
}

// Format 纯函数：时间戳 + 随机后缀
func Format(now time.Time, suffix int) string {
	return now.Format(layout) + fmt.Sprintf("%05d", suffix)
}

// Suffix 从随机源取 [10000, 99999] 之间的后缀
func Suffix(r Intn) int {
	return suffixMin + r.Intn(suffixMax-suffixMin+1)
}

// Generate 使用显式注入的时钟与随机源生成订单号
func Generate(now time.Time, r Intn) string {
	return Format(now, Suffix(r))
}

// TimestampGenerator 时间戳 + 随机数实现；rand.Rand 非并发安全，内部加锁
type TimestampGenerator struct {
	mu    sync.Mutex
	clock func() time.Time
	rnd   Intn
}

func NewTimestampGenerator(clock func() time.Time, rnd Intn) *TimestampGenerator {
	if clock == nil {
		clock = time.Now
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TimestampGenerator{clock: clock, rnd: rnd}
}

func (g *TimestampGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Generate(g.clock(), g.rnd)
}

// UUIDGenerator 全局唯一但不可读的替代实现
type UUIDGenerator struct{}

func (UUIDGenerator) Next() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
