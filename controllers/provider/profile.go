package provider

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/hoaconnect/hoa-services-app/config"
	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
)

// Login issues a provider token. Only fully onboarded, active accounts can
// log in.
func Login(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Email is required",
			Error:   "missing email",
		})
	}

	var provider models.ServiceProvider
	if err := db.DB.Preload("Services").Preload("ServiceRates").
		Preload("Locations").Where("email = ?", body.Email).
		First(&provider).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
			Error:   "service provider not found",
		})
	}

	if !provider.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Account is not active. Please complete onboarding.",
			Error:   "inactive service provider",
		})
	}

	claims := jwt.MapClaims{
		"id":                provider.ID,
		"serviceProviderId": provider.ID,
		"email":             provider.Email,
		"role":              string(models.RoleServiceProvider),
		"exp":               time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Get().JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":          "Login successful",
		"access_token":     signed,
		"service_provider": provider,
	})
}

// GetProfile returns the authenticated provider with all onboarding data.
func GetProfile(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var provider models.ServiceProvider
	if err := db.DB.Preload("Services").
		Preload("ServiceRates").Preload("ServiceRates.Service").
		Preload("Locations").
		First(&provider, principal.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"service_provider": provider})
}

// GetStepStatus summarizes onboarding progress for the given provider.
func GetStepStatus(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	steps := []fiber.Map{
		{"step": 1, "name": "Government document", "completed": provider.SignupStep >= models.ProviderStepDocument},
		{"step": 2, "name": "Service selection", "completed": provider.SignupStep >= models.ProviderStepServices},
		{"step": 3, "name": "Service rates", "completed": provider.SignupStep >= models.ProviderStepRates},
		{"step": 4, "name": "Locations", "completed": provider.SignupStep >= models.ProviderStepLocations},
		{"step": 5, "name": "Bio and profile picture", "completed": provider.SignupStep >= models.ProviderStepBio},
		{"step": 6, "name": "Bank details", "completed": provider.SignupStep >= models.ProviderStepBankDetails},
	}

	return c.JSON(fiber.Map{
		"signup_step":     provider.SignupStep,
		"is_active":       provider.IsActive,
		"signup_complete": provider.SignupStep >= models.ProviderStepBankDetails,
		"steps":           steps,
	})
}
