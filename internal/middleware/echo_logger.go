// Package middleware holds the HTTP middleware shared by the server's
// routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EchoZapLogger logs one line per request, leveled by outcome: 5xx and
// handler errors at Error, 4xx at Warn, everything else at Info.
func EchoZapLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
			}
			if id := requestID(c); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			switch {
			case err != nil:
				log.Error("Request failed", append(fields, zap.Error(err))...)
			case res.Status >= http.StatusInternalServerError:
				log.Error("Server error", fields...)
			case res.Status >= http.StatusBadRequest:
				log.Warn("Client error", fields...)
			default:
				log.Info("Request handled", fields...)
			}

			// Echo's error handler still needs to set the response.
			return err
		}
	}
}

func requestID(c echo.Context) string {
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
