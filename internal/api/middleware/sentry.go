package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Sentry 捕获 panic 并上报，随后交给 gin.Recovery 处理
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// ReportErrors 将 5xx 响应中通过 c.Error 记录的错误上报 Sentry
func ReportErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < http.StatusInternalServerError || len(c.Errors) == 0 {
			return
		}
		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			return
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("request_id", c.GetString(ctxRequestID))
			scope.SetTag("route", c.FullPath())
			for _, e := range c.Errors {
				hub.CaptureException(e.Err)
			}
		})
	}
}
