package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/waimai/pkg/auth"
	"github.com/d60-Lab/waimai/pkg/idempotency"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ctxRequestID)) })

	w := serve(r, http.MethodGet, "/", map[string]string{HeaderRequestID: "abc"})
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))

	w = serve(r, http.MethodGet, "/", nil)
	assert.Len(t, w.Body.String(), 36)
}

func TestAuthAndRequireRole(t *testing.T) {
	tokens := auth.NewManager("s", "iss", "aud", time.Hour)
	r := gin.New()
	r.GET("/admin", Auth(tokens), RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"uid": p.UserID})
	})

	admin, err := tokens.Issue(auth.Principal{UserID: 1, Role: auth.RoleAdmin})
	require.NoError(t, err)
	customer, err := tokens.Issue(auth.Principal{UserID: 2, Role: auth.RoleCustomer})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Token x"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + customer}).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + admin}).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0.001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/", nil).Code)
}

func TestIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := idempotency.NewStore(rdb, time.Hour)

	calls := 0
	status := http.StatusCreated
	r := gin.New()
	r.POST("/orders", Idempotency(store), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"call": calls})
	})
	key := map[string]string{HeaderIdempotencyKey: "k"}

	w := serve(r, http.MethodPost, "/orders", key)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = serve(r, http.MethodPost, "/orders", key)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"call":1}`, w.Body.String())
	assert.Equal(t, 1, calls)

	// 5xx 释放键，重试会再次执行
	status = http.StatusInternalServerError
	other := map[string]string{HeaderIdempotencyKey: "k2"}
	serve(r, http.MethodPost, "/orders", other)
	serve(r, http.MethodPost, "/orders", other)
	assert.Equal(t, 3, calls)

	// 处理中的键返回 409
	_, acquired, err := store.Begin(context.Background(), "0:POST:/orders:busy")
	require.NoError(t, err)
	require.True(t, acquired)
	w = serve(r, http.MethodPost, "/orders", map[string]string{HeaderIdempotencyKey: "busy"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 3, calls)

	// 未带请求头直接放行
	serve(r, http.MethodPost, "/orders", nil)
	assert.Equal(t, 4, calls)
}

func TestIdempotencyCompletesAfterClientDisconnect(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := idempotency.NewStore(rdb, time.Hour)

	// 订单已提交，但客户端在响应前断开
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	r := gin.New()
	r.POST("/orders", Idempotency(store), func(c *gin.Context) {
		calls++
		cancel()
		c.JSON(http.StatusCreated, gin.H{"orderId": 42})
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil).WithContext(ctx)
	req.Header.Set(HeaderIdempotencyKey, "gone")
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, 1, calls)

	w := serve(r, http.MethodPost, "/orders", map[string]string{HeaderIdempotencyKey: "gone"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, `{"orderId":42}`, w.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyReleasesKeyOnPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	store := idempotency.NewStore(rdb, time.Hour)

	calls := 0
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/orders", Idempotency(store), func(c *gin.Context) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	key := map[string]string{HeaderIdempotencyKey: "p"}

	w := serve(r, http.MethodPost, "/orders", key)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, mr.Exists("idem:0:POST:/orders:p"))

	w = serve(r, http.MethodPost, "/orders", key)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"call":2}`, w.Body.String())
	assert.Equal(t, 2, calls)
}
