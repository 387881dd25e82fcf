package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/pkg/database"
)

func setupTestDB(t testing.TB) *gorm.DB {
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

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newOrder(userID, merchantID int64, amount string, createdAt time.Time) *model.Order {
	return &model.Order{
		OrderNumber:     "20240501120000" + "12345",
		UserID:          userID,
		MerchantID:      merchantID,
		OrderAmount:     decimal.RequireFromString(amount),
		DeliveryAddress: "1 Main St",
		CreatedAt:       createdAt,
	}
}

func TestOrderRepository_ListOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o1 := newOrder(1, 10, "5.00", baseTime)
	o2 := newOrder(1, 10, "6.00", baseTime.Add(time.Minute))
	o3 := newOrder(1, 11, "7.00", baseTime.Add(time.Minute)) // 与 o2 同一时间
	o4 := newOrder(2, 10, "8.00", baseTime.Add(-time.Hour))
	for _, o := range []*model.Order{o1, o2, o3, o4} {
		require.NoError(t, repo.Create(ctx, o))
	}

	byUser, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byUser, 3)
	assert.Equal(t, []int64{o3.ID, o2.ID, o1.ID}, []int64{byUser[0].ID, byUser[1].ID, byUser[2].ID})

	byMerchant, err := repo.ListByMerchant(ctx, 10)
	require.NoError(t, err)
	require.Len(t, byMerchant, 3)
	assert.Equal(t, []int64{o2.ID, o1.ID, o4.ID}, []int64{byMerchant[0].ID, byMerchant[1].ID, byMerchant[2].ID})

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	again, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, again)

	empty, err := repo.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestOrderRepository_StatusAndOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := newOrder(1, 10, "5.00", baseTime)
	require.NoError(t, repo.Create(ctx, o))

	status, found, err := repo.GetStatus(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, model.OrderStatusPending, status)

	_, found, err = repo.GetStatus(ctx, 999)
	require.NoError(t, err)
	assert.False(t, found)

	merchantID, found, err := repo.GetMerchantID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(10), merchantID)

	rows, err := repo.UpdateStatus(ctx, o.ID, model.OrderStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.UpdateStatus(ctx, 999, model.OrderStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, got.OrderStatus)
	assert.True(t, decimal.RequireFromString("5").Equal(got.OrderAmount))
}

func TestProductRepository_OwnershipPredicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &model.Product{MerchantID: 1, Name: "Noodles", Price: decimal.RequireFromString("12.50"), IsAvailable: true}
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.Update(ctx, &model.Product{ID: p.ID, MerchantID: 2, Name: "Hijacked", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetAvailability(ctx, p.ID, 2, false)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Noodles", got.Name)
	assert.True(t, got.IsAvailable)

	ok, err = repo.SetAvailability(ctx, p.ID, 1, false)
	require.NoError(t, err)
	assert.True(t, ok)

	available, err := repo.ListByMerchant(ctx, 1, true)
	require.NoError(t, err)
	assert.Empty(t, available)

	all, err := repo.ListByMerchant(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPaymentRepository_MarkCompletedOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Payment{OrderID: 7, PaymentAmount: decimal.NewFromInt(25)}))

	rows, err := repo.MarkCompleted(ctx, 7, "card", baseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.MarkCompleted(ctx, 7, "cash", baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	p, err := repo.GetByOrderID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, model.PayStatusCompleted, p.PaymentStatus)
	assert.Equal(t, "card", p.PaymentMethod)
	require.NotNil(t, p.PaymentTime)
	assert.True(t, baseTime.Equal(*p.PaymentTime))
}

func TestOrderLogRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderLogRepository(db)
	ctx := context.Background()

	first := &model.OrderLog{OrderID: 1, FromStatus: 0, ToStatus: 0, ChangedAt: baseTime, Remark: "order created"}
	second := &model.OrderLog{OrderID: 1, FromStatus: 0, ToStatus: 1, ChangedAt: baseTime.Add(time.Second)}
	other := &model.OrderLog{OrderID: 2, ChangedAt: baseTime}
	for _, l := range []*model.OrderLog{first, second, other} {
		require.NoError(t, repo.Create(ctx, l))
	}

	logs, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID)
	assert.Equal(t, first.ID, logs[1].ID)
}

func TestStatisticsRepository_Summary(t *testing.T) {
	db := setupTestDB(t)
	stats := NewStatisticsRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	dayStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	s, err := stats.Summary(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.TotalOrders)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Equal(t, int64(0), s.TodayOrders)

	require.NoError(t, orders.Create(ctx, newOrder(1, 1, "10.50", baseTime)))
	require.NoError(t, orders.Create(ctx, newOrder(1, 1, "4.25", dayStart)))
	require.NoError(t, orders.Create(ctx, newOrder(1, 1, "5.00", dayStart.Add(-time.Second))))
	require.NoError(t, orders.Create(ctx, newOrder(1, 1, "1.00", dayEnd)))

	s, err = stats.Summary(ctx, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.TotalOrders)
	assert.Equal(t, "20.75", s.TotalRevenue.StringFixed(2))
	assert.Equal(t, int64(2), s.TodayOrders)
}

func TestAddressRepository_ClearDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAddressRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Address{UserID: 1, RecipientName: "A", Phone: "1", FullAddress: "x", IsDefault: true}))
	require.NoError(t, repo.ClearDefault(ctx, 1))
	require.NoError(t, repo.Create(ctx, &model.Address{UserID: 1, RecipientName: "B", Phone: "2", FullAddress: "y", IsDefault: true}))

	addrs, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "B", addrs[0].RecipientName)
	assert.True(t, addrs[0].IsDefault)
	assert.False(t, addrs[1].IsDefault)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db, nil, time.Second)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	err := tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := orders.WithTx(tx).Create(ctx, newOrder(1, 1, "1.00", baseTime)); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	n, err := orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
