package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/database"
	"github.com/d60-Lab/waimai/pkg/orderno"
)

var baseTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return baseTime }

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

// testEnv 每个用例独立的内存库与预置数据
type testEnv struct {
	db       *gorm.DB
	repos    *repository.Repositories
	tx       repository.Transactor
	orders   OrderService
	payments PaymentService

	customer  *model.User
	merchantA *model.Merchant
	merchantB *model.Merchant
	noodles   *model.Product // merchantA, 10.00
	tea       *model.Product // merchantA, 5.00
	burger    *model.Product // merchantB, 8.00
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T, opts ...OrderOption) *testEnv {
	t.Helper()
	db := newTestDB(t)
	repos := repository.NewRepositories(db)
	tx := repository.NewTransactor(db, nil, 5*time.Second)
	ctx := context.Background()

	env := &testEnv{db: db, repos: repos, tx: tx}

	env.customer = &model.User{Name: "alice", PasswordHash: "x", Phone: "100", Type: model.UserTypeCustomer}
	ownerA := &model.User{Name: "shop-a", PasswordHash: "x", Phone: "200", Type: model.UserTypeMerchant}
	ownerB := &model.User{Name: "shop-b", PasswordHash: "x", Phone: "300", Type: model.UserTypeMerchant}
	for _, u := range []*model.User{env.customer, ownerA, ownerB} {
		require.NoError(t, repos.Users.Create(ctx, u))
	}

	env.merchantA = &model.Merchant{UserID: ownerA.ID, ShopName: "Noodle Bar"}
	env.merchantB = &model.Merchant{UserID: ownerB.ID, ShopName: "Burger Joint"}
	require.NoError(t, repos.Merchants.Create(ctx, env.merchantA))
	require.NoError(t, repos.Merchants.Create(ctx, env.merchantB))

	env.noodles = &model.Product{MerchantID: env.merchantA.ID, Name: "Noodles", Price: decimal.RequireFromString("10.00"), IsAvailable: true}
	env.tea = &model.Product{MerchantID: env.merchantA.ID, Name: "Tea", Price: decimal.RequireFromString("5.00"), IsAvailable: true}
	env.burger = &model.Product{MerchantID: env.merchantB.ID, Name: "Burger", Price: decimal.RequireFromString("8.00"), IsAvailable: true}
	for _, p := range []*model.Product{env.noodles, env.tea, env.burger} {
		require.NoError(t, repos.Products.Create(ctx, p))
	}

	defaults := []OrderOption{
		WithClock(fixedClock),
		WithOrderNumbers(orderno.NewTimestampGenerator(fixedClock, fixedRand(4321))),
	}
	env.orders = NewOrderService(tx, repos, append(defaults, opts...)...)
	env.payments = NewPaymentService(tx, repos, fixedClock, "")
	return env
}

// rowCounts 返回 orders, order_items, payments, order_logs 的行数
func (e *testEnv) rowCounts(t *testing.T) [4]int64 {
	t.Helper()
	var out [4]int64
	for i, m := range []interface{}{&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.OrderLog{}} {
		require.NoError(t, e.db.Model(m).Count(&out[i]).Error)
	}
	return out
}

// failOn 在指定表的写操作前注入错误，模拟事务中途失败
func failOn(t *testing.T, db *gorm.DB, kind, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("injected failure on " + table))
		}
	}
	var err error
	switch kind {
	case "create":
		err = db.Callback().Create().Before("gorm:create").Register("test:fail_create_"+table, fail)
	case "update":
		err = db.Callback().Update().Before("gorm:update").Register("test:fail_update_"+table, fail)
	}
	require.NoError(t, err)
}
