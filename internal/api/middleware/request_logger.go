package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request with zerolog. Errors are rendered
// through the echo error handler first so the logged status is the one the
// client saw.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := base.With().
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("url", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Logger()
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				l = l.With().Str("request_id", rid).Logger()
			}
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status
			dur := time.Since(start)

			var ev *zerolog.Event
			switch {
			case status >= 500:
				ev = l.Error().Err(err)
			case status >= 400:
				ev = l.Warn()
			default:
				ev = l.Info().Int64("bytes", c.Response().Size)
			}
			if v := ViewerFrom(c); v.Authenticated() {
				ev = ev.Str("user_id", v.UserID)
			}
			ev.Int("status", status).Dur("duration", dur).Msg("request completed")
			return nil
		}
	}
}
