// Command orderbench 并发下单压测：统计 CreateOrder 延迟分位数与订单号碰撞次数。
//
// 环境变量：N 订单总数，CONC 并发数，GEN=uuid 时改用 UUID 订单号。
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/d60-Lab/waimai/config"
	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/internal/service"
	"github.com/d60-Lab/waimai/pkg/database"
	"github.com/d60-Lab/waimai/pkg/orderno"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	check(database.AutoMigrate(db))
	ctx := context.Background()

	N := envInt("N", 2000)
	CONC := envInt("CONC", 8)

	var gen orderno.Generator = orderno.NewTimestampGenerator(time.Now, nil)
	if os.Getenv("GEN") == "uuid" {
		gen = orderno.UUIDGenerator{}
	}

	repos := repository.NewRepositories(db)
	tx := repository.NewTransactor(db, database.TxOptions(cfg.Database), cfg.Database.TxTimeout)
	orders := service.NewOrderService(tx, repos, service.WithOrderNumbers(gen))

	// seed：一个顾客、一个商家、两个商品
	tag := uuid.NewString()[:8]
	customer := &model.User{Name: "bench-c-" + tag, PasswordHash: "-", Phone: "c" + tag, Type: model.UserTypeCustomer}
	owner := &model.User{Name: "bench-m-" + tag, PasswordHash: "-", Phone: "m" + tag, Type: model.UserTypeMerchant}
	check(repos.Users.Create(ctx, customer))
	check(repos.Users.Create(ctx, owner))
	merchant := &model.Merchant{UserID: owner.ID, ShopName: "bench " + tag}
	check(repos.Merchants.Create(ctx, merchant))
	p1 := &model.Product{MerchantID: merchant.ID, Name: "A", Price: decimal.RequireFromString("10.00"), IsAvailable: true}
	p2 := &model.Product{MerchantID: merchant.ID, Name: "B", Price: decimal.RequireFromString("5.50"), IsAvailable: true}
	check(repos.Products.Create(ctx, p1))
	check(repos.Products.Create(ctx, p2))

	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu     sync.Mutex
		lat    = make([]time.Duration, 0, N)
		ids    = make([]int64, 0, N)
		failed atomic.Int64
		wg     sync.WaitGroup
	)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				id, err := orders.CreateOrder(ctx, service.CreateOrderInput{
					UserID:          customer.ID,
					MerchantID:      merchant.ID,
					DeliveryAddress: "bench",
					Items: []service.OrderItemInput{
						{ProductID: p1.ID, Quantity: 1 + i%3},
						{ProductID: p2.ID, Quantity: 1},
					},
				})
				d := time.Since(st)
				if err != nil {
					failed.Add(1)
					continue
				}
				mu.Lock()
				lat = append(lat, d)
				ids = append(ids, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(t0)

	// 订单号碰撞统计
	var numbers []string
	check(db.Model(&model.Order{}).Where("user_id = ?", customer.ID).Pluck("order_number", &numbers).Error)
	seen := make(map[string]int, len(numbers))
	collisions := 0
	for _, n := range numbers {
		seen[n]++
		if seen[n] == 2 {
			collisions++
		}
	}

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	fmt.Printf("N=%d, CONC=%d, driver=%s\n", N, CONC, cfg.Database.Driver)
	fmt.Printf("CreateOrder total: %v, ok=%d, failed=%d, qps=%.1f\n",
		total, len(ids), failed.Load(), float64(len(ids))/total.Seconds())
	fmt.Printf("latency p50=%v p95=%v p99=%v\n", pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
	fmt.Printf("order numbers: %d distinct of %d, duplicated values=%d\n", len(seen), len(numbers), collisions)
}
