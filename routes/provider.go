package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoaconnect/hoa-services-app/controllers/provider"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
)

func SetupProviderRoutes(app *fiber.App) {
	p := app.Group("/providers")

	// Onboarding is open; each step identifies the provider by id until a
	// token is available after activation.
	p.Post("/signup", provider.Signup)
	p.Post("/signup/step1", provider.Step1)
	p.Post("/signup/step2", provider.Step2)
	p.Post("/signup/step3", provider.Step3)
	p.Post("/signup/step4", provider.Step4)
	p.Post("/signup/step5", provider.Step5)
	p.Post("/signup/step6", provider.Step6)
	p.Get("/signup/status", provider.GetStepStatus)

	p.Post("/login", provider.Login)
	p.Get("/me", middleware.Protected(), middleware.RequireRole(models.RoleServiceProvider), provider.GetProfile)
}
