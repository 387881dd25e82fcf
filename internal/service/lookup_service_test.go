package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/waimai/internal/cache"
	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/pkg/apperr"
	"github.com/d60-Lab/waimai/pkg/auth"
)

func TestStatisticsSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stats := NewStatisticsService(env.repos.Statistics, fixedClock)
	s, err := stats.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.TotalOrders)
	assert.True(t, s.TotalRevenue.IsZero())

	createTeaOrder(t, env) // 10.00，今天

	yesterday := NewOrderService(env.tx, env.repos, WithClock(func() time.Time { return baseTime.AddDate(0, 0, -1) }))
	_, err = yesterday.CreateOrder(ctx, CreateOrderInput{
		UserID:     env.customer.ID,
		MerchantID: env.merchantA.ID,
		Items:      []OrderItemInput{{ProductID: env.noodles.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	s, err = stats.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.TotalOrders)
	assert.Equal(t, "20.00", s.TotalRevenue.StringFixed(2))
	assert.Equal(t, int64(1), s.TodayOrders)
}

func TestOrderLogService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	logs := NewOrderLogService(env.repos.OrderLogs, fixedClock)

	l, err := logs.Create(ctx, 7, model.OrderStatusAccepted, model.OrderStatusDelivering, "rider picked up")
	require.NoError(t, err)
	assert.NotZero(t, l.ID)
	assert.True(t, baseTime.Equal(l.ChangedAt))

	list, err := logs.ListByOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "rider picked up", list[0].Remark)
}

func newTestAuth(t *testing.T, env *testEnv) (AuthService, *auth.Manager) {
	t.Helper()
	tokens := auth.NewManager("test-secret", "waimai", "waimai-api", time.Hour)
	svc := NewAuthService(env.repos.Users, tokens, fixedClock)
	svc.(*authService).cost = bcrypt.MinCost
	return svc, tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, tokens := newTestAuth(t, env)

	u, err := svc.Register(ctx, RegisterInput{Name: "bob", Password: "s3cret", Phone: "555", Type: model.UserTypeMerchant})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Name: "bob", Password: "x", Phone: "556"})
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Name: "root", Password: "x", Phone: "557", Type: model.UserTypeAdmin})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	token, got, err := svc.Login(ctx, "bob", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	p, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, auth.RoleMerchant, p.Role)

	_, _, err = svc.Login(ctx, "bob", "wrong")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, _, err = svc.Login(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_CreateUserAllowsAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newTestAuth(t, env)

	u, err := svc.CreateUser(context.Background(), RegisterInput{Name: "root", Password: "x", Phone: "999", Type: model.UserTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.UserTypeAdmin, u.Type)

	_, err = svc.CreateUser(context.Background(), RegisterInput{Name: "ghost", Password: "x", Phone: "998", Type: model.UserType(7)})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

// staleUsers 模拟并发注册：存在性检查总是看不到对方刚写入的行
type staleUsers struct {
	repository.UserRepository
}

func (staleUsers) ExistsByNameOrPhone(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestAuthService_DuplicateInsertIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(staleUsers{env.repos.Users}, auth.NewManager("s", "i", "a", time.Hour), fixedClock)
	svc.(*authService).cost = bcrypt.MinCost

	_, err := svc.Register(ctx, RegisterInput{Name: "dora", Password: "x", Phone: "700"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "dora", Password: "x", Phone: "701"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	_, err = svc.Register(ctx, RegisterInput{Name: "dora2", Password: "x", Phone: "700"})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newTestAuth(t, env)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, users)
	for i := 1; i < len(users); i++ {
		assert.Less(t, users[i-1].ID, users[i].ID)
	}
}

func TestMerchantService_GetByUserIDUsesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mc := cache.NewMerchantCache(client, time.Minute)

	svc := NewMerchantService(env.repos.Users, env.repos.Merchants, mc)

	m, err := svc.GetByUserID(ctx, env.merchantA.UserID)
	require.NoError(t, err)
	assert.Equal(t, env.merchantA.ID, m.ID)

	m, err = svc.GetByUserID(ctx, env.merchantA.UserID)
	require.NoError(t, err)
	assert.Equal(t, env.merchantA.ID, m.ID)

	hits, misses := mc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	_, err = svc.GetByUserID(ctx, env.customer.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMerchantService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewMerchantService(env.repos.Users, env.repos.Merchants, nil)

	err := svc.Create(ctx, &model.Merchant{UserID: env.customer.ID, ShopName: "Nope"})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	err = svc.Create(ctx, &model.Merchant{UserID: env.merchantA.UserID, ShopName: "Second shop"})
	require.ErrorIs(t, err, apperr.ErrConflict)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

type staleMerchants struct {
	repository.MerchantRepository
}

func (staleMerchants) GetByUserID(context.Context, int64) (*model.Merchant, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestMerchantService_DuplicateInsertIsConflict(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMerchantService(env.repos.Users, staleMerchants{env.repos.Merchants}, nil)

	err := svc.Create(context.Background(), &model.Merchant{UserID: env.merchantA.UserID, ShopName: "Second shop"})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestProductService_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewProductService(env.repos.Merchants, env.repos.Products)

	p := &model.Product{MerchantID: env.merchantB.ID, Name: "Fries", Price: decimal.RequireFromString("3.456"), IsAvailable: true}
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, "3.46", p.Price.StringFixed(2))

	ok, err := svc.Update(ctx, &model.Product{ID: p.ID, MerchantID: env.merchantA.ID, Name: "Stolen", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ToggleAvailability(ctx, p.ID, env.merchantB.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)

	visible, err := svc.ListByMerchant(ctx, env.merchantB.ID, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, env.burger.ID, visible[0].ID)

	err = svc.Create(ctx, &model.Product{MerchantID: 999, Name: "Ghost", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.Create(ctx, &model.Product{MerchantID: env.merchantB.ID, Name: "Bad", Price: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestAddressService_SingleDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAddressService(env.tx, env.repos.Addresses)

	uid := env.customer.ID
	require.NoError(t, svc.Create(ctx, &model.Address{UserID: uid, RecipientName: "A", Phone: "1", FullAddress: "home", IsDefault: true}))
	require.NoError(t, svc.Create(ctx, &model.Address{UserID: uid, RecipientName: "B", Phone: "2", FullAddress: "work", IsDefault: true}))

	list, err := svc.ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, "work", a.FullAddress)
		}
	}
	assert.Equal(t, 1, defaults)

	err = svc.Create(ctx, &model.Address{UserID: uid})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestCategoryService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewCategoryService(env.repos.Categories)

	require.NoError(t, svc.Create(ctx, "Noodles"))
	require.NoError(t, svc.Create(ctx, "Noodles"))
	require.NoError(t, svc.Create(ctx, "Drinks"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
