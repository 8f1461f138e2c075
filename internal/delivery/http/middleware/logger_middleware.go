package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	deliverycontext "yougotthis/internal/delivery/context"
)

// RequestScope tags every request with an ID and injects a
// request-scoped logger into the request context, so the use cases log
// with the same correlation fields the access log carries.
func RequestScope(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
			if requestID == "" {
				requestID = deliverycontext.GetRequestID(c)
			}
			deliverycontext.SetRequestID(c, requestID)
			c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

			requestLogger := logger.With(slog.String("request_id", requestID))

			ctx := c.Request().Context()
			ctx = deliverycontext.WithRequestID(ctx, requestID)
			ctx = deliverycontext.WithLogger(ctx, requestLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
