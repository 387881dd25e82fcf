package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/waimai/pkg/idempotency"
	"github.com/d60-Lab/waimai/pkg/logger"
	"github.com/d60-Lab/waimai/pkg/response"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency 按 Idempotency-Key 请求头去重，键按用户与路由隔离。
// 已完成的键直接重放响应；处理中的键返回 409。
// 5xx、handler panic 或结果未能写入时释放键，允许重试。
// store 为 nil 或请求未携带该请求头时直接放行。
func Idempotency(store *idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderIdempotencyKey)
		if store == nil || raw == "" {
			c.Next()
			return
		}

		var uid int64
		if p, ok := CurrentPrincipal(c); ok {
			uid = p.UserID
		}
		key := fmt.Sprintf("%d:%s:%s:%s", uid, c.Request.Method, c.FullPath(), raw)
		if id := c.Param("orderId"); id != "" {
			key += ":" + id
		}
		ctx := c.Request.Context()

		rec, acquired, err := store.Begin(ctx, key)
		if err != nil {
			// redis 不可用时放行，退化为无幂等保护
			logger.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			if rec.State != idempotency.StateCompleted {
				response.Conflict(c, "a request with this idempotency key is in progress")
				c.Abort()
				return
			}
			c.Header("Idempotent-Replayed", "true")
			c.Data(rec.StatusCode, rec.ContentType, rec.Body)
			c.Abort()
			return
		}

		// 请求结束后的写入不受客户端断开影响
		storeCtx := context.WithoutCancel(ctx)
		stored := false
		defer func() {
			if stored {
				return
			}
			if err := store.Release(storeCtx, key); err != nil {
				logger.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
			}
		}()

		w := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() >= http.StatusInternalServerError {
			return
		}
		if err := store.Complete(storeCtx, key, idempotency.Record{
			StatusCode:  w.Status(),
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.buf.Bytes(),
		}); err != nil {
			logger.Warn("idempotency complete failed", zap.String("key", key), zap.Error(err))
			return
		}
		stored = true
	}
}
