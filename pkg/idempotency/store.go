// Package idempotency 基于 Redis 的幂等键存储，防止创建订单、支付等写操作被客户端重试重复执行。
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StatePending   = "pending"
	StateCompleted = "completed"
)

// Record 幂等键对应的处理结果
type Record struct {
	State       string `json:"state"`
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Store 幂等键存储
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl, prefix: "idem:"}
}

func (s *Store) key(k string) string { return s.prefix + k }

// Begin 尝试占用幂等键。首次占用返回 (nil, true)；
// 已存在时返回已记录的结果 (record, false)，调用方据此重放或拒绝。
func (s *Store) Begin(ctx context.Context, key string) (*Record, bool, error) {
	pending, _ := json.Marshal(Record{State: StatePending})
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.rdb.SetNX(ctx, s.key(key), pending, s.ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("idempotency begin: %w", err)
		}
		if ok {
			return nil, true, nil
		}
		rec, err := s.Get(ctx, key)
		if errors.Is(err, redis.Nil) {
			// 键在两次调用之间过期，重新占用
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	}
	return nil, false, fmt.Errorf("idempotency begin: key %q keeps expiring", key)
}

// Get 读取幂等键记录
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &rec, nil
}

// Complete 记录最终结果，后续相同键的请求直接重放
func (s *Store) Complete(ctx context.Context, key string, rec Record) error {
	rec.State = StateCompleted
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), data, s.ttl).Err()
}

// Release 释放幂等键（处理失败且允许重试时调用）
func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}
