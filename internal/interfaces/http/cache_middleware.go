package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quesarte/queseria-api/internal/infrastructure/cache"
)

const cachePrefix = "resp:"

// CacheMiddleware sirve respuestas GET desde Redis, clave = URL completa
// (path + query). Toda escritura (POST/PUT/DELETE) invalida el prefijo entero:
// los saldos cambian de forma cruzada (una partición toca unidad y alertas),
// así que se prefiere invalidación amplia a servir un saldo viejo.
func CacheMiddleware(c *cache.Cache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !c.Enabled() {
			return ctx.Next()
		}
		if ctx.Method() != fiber.MethodGet {
			err := ctx.Next()
			if err == nil && ctx.Response().StatusCode() < 400 {
				c.InvalidatePrefix(ctx.Context(), cachePrefix)
			}
			return err
		}

		key := cachePrefix + ctx.OriginalURL()
		if body, ok := c.Get(ctx.Context(), key); ok {
			ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			ctx.Set("X-Cache", "HIT")
			return ctx.Send(body)
		}

		if err := ctx.Next(); err != nil {
			return err
		}
		if ctx.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(ctx.Response().Body()))
			copy(body, ctx.Response().Body())
			c.Set(ctx.Context(), key, body)
		}
		ctx.Set("X-Cache", "MISS")
		return nil
	}
}
