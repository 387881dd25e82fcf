package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/pkg/logger"
)

// MerchantCache 缓存 user_id -> merchant 映射。
// 该映射创建后不再变化，所以只在写入时设置 TTL，不做主动失效。
type MerchantCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMerchantCache client 为 nil 时所有读取都视为未命中
func NewMerchantCache(client *redis.Client, ttl time.Duration) *MerchantCache {
	return &MerchantCache{client: client, ttl: ttl}
}

func merchantKey(userID int64) string {
	return fmt.Sprintf("merchant:user:%d", userID)
}

// Get 命中返回 (merchant, true)；redis 故障按未命中处理
func (c *MerchantCache) Get(ctx context.Context, userID int64) (*model.Merchant, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, merchantKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("merchant cache get failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		c.misses.Add(1)
		return nil, false
	}
	var m model.Merchant
	if err := json.Unmarshal(data, &m); err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &m, true
}

// Set 写入缓存，失败只记录日志
func (c *MerchantCache) Set(ctx context.Context, m *model.Merchant) {
	if c == nil || c.client == nil || m == nil {
		return
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, merchantKey(m.UserID), payload, c.ttl).Err(); err != nil {
		logger.Warn("merchant cache set failed", zap.Int64("user_id", m.UserID), zap.Error(err))
	}
}

// Stats 返回命中与未命中次数
func (c *MerchantCache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
