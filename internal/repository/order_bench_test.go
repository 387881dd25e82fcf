package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/d60-Lab/waimai/internal/model"
)

func BenchmarkOrderCreate(b *testing.B) {
	db := setupTestDB(b)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o := &model.Order{
			OrderNumber:     fmt.Sprintf("%014d", i),
			UserID:          int64(i % 1000),
			MerchantID:      int64(i % 50),
			OrderAmount:     decimal.NewFromInt(int64(i % 100)),
			DeliveryAddress: "bench",
			CreatedAt:       baseTime.Add(time.Duration(i) * time.Millisecond),
		}
		if err := repo.Create(ctx, o); err != nil {
			b.Fatalf("create: %v", err)
		}
	}
}

func BenchmarkOrderListByUser(b *testing.B) {
	db := setupTestDB(b)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	// 预创建 100 个用户共 5000 个订单
	const users = 100
	for i := 0; i < 5000; i++ {
		_ = repo.Create(ctx, &model.Order{
			OrderNumber:     fmt.Sprintf("%014d", i),
			UserID:          int64(i % users),
			MerchantID:      1,
			OrderAmount:     decimal.NewFromInt(1),
			DeliveryAddress: "bench",
			CreatedAt:       baseTime.Add(time.Duration(i) * time.Second),
		})
	}

	r := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.ListByUser(ctx, int64(r.Intn(users))); err != nil {
			b.Fatalf("list: %v", err)
		}
	}
}
