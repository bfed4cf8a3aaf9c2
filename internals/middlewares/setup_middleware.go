package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"iltizem_backend/internals/middlewares/logger"
)

// SetupMiddlewares branche la pile transverse dans l'ordre:
// recovery d'abord, puis CORS, logs d'accès et limite globale par IP.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
