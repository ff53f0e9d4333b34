package middleware

import (
	"enrollment-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const defaultAllowOrigins = "http://localhost:5173"

// InitCors applies CORS settings to the app. Origins come from
// CORS_ALLOW_ORIGINS as a comma-separated list.
func InitCors(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnvDefault("CORS_ALLOW_ORIGINS", defaultAllowOrigins),
		AllowMethods:     "GET,POST,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
	}))
}
