package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/pkg/metrics"
)

// RequestLogger registra cada petición (método, ruta, status, latencia, request id y, si hay
// token, usuario y rol) y alimenta las métricas HTTP. La ruta se toma del patrón registrado para no explotar la cardinalidad.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		elapsed := time.Since(start)
		path := c.Route().Path
		code := strconv.Itoa(status)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), path, code).Observe(elapsed.Seconds())

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		if uid := GetUserID(c); uid != nil {
			ev = ev.Int64("user_id", *uid).Str("role", GetRole(c))
		}
		ev.Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("http")
		return err
	}
}
