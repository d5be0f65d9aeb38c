package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoaconnect/hoa-services-app/controllers"
	"github.com/hoaconnect/hoa-services-app/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/signup", controllers.Signup)
	auth.Post("/login", controllers.Login)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetUserProfile)
	auth.Post("/change-password", middleware.Protected(), controllers.ChangePassword)
}
