package middleware

import (
	"strconv"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/metrics"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/utils"
	"github.com/labstack/echo/v4"
)

// RequestLoggerMiddleware logs every request and records its latency.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil {
			ctx.Error(err)
		}

		req := ctx.Request()
		res := ctx.Response()
		status := res.Status
		size := res.Size
		s := time.Since(start)

		path := ctx.Path()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(req.Method, path, strconv.Itoa(status)).Observe(s.Seconds())

		if !mw.checkDebug() && status < 400 {
			return nil
		}
		mw.logger.Infof("RequestID: %s, IP: %s, Method: %s, URI: %s, Status: %v, Size: %v, Time: %s",
			utils.GetRequestID(ctx), utils.GetIPAddress(ctx), req.Method, req.URL.String(), status, size, s,
		)
		return nil
	}
}

func (mw *MiddlewareManager) checkDebug() bool {
	return mw.cfg.Server.Mode == "Development" || mw.cfg.Logger.Development
}
