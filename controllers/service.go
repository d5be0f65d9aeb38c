package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/redis"
	"github.com/hoaconnect/hoa-services-app/utils"
)

type ServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// seedCatalog is the fixed set of service categories.
var seedCatalog = []ServiceRequest{
	{Name: "AC Services", Description: "Air conditioning installation, repair, and maintenance services"},
	{Name: "Cleaning Services", Description: "House cleaning, office cleaning, and specialized cleaning services"},
	{Name: "Electrician", Description: "Electrical installation, repair, and maintenance services"},
	{Name: "Plumber", Description: "Plumbing installation, repair, and maintenance services"},
	{Name: "Painter", Description: "Interior and exterior painting services"},
	{Name: "Pest Control", Description: "Pest elimination and prevention services"},
}

// localizedService is the single-language view returned when the caller
// asks for a specific locale.
type localizedService struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func localizeService(s models.Service, lang string) localizedService {
	return localizedService{
		ID:          s.ID,
		Name:        s.Name.In(lang),
		Description: s.Description.In(lang),
		ImageURL:    s.ImageURL,
	}
}

// GetAllServices returns the service catalog, from cache when warm. A
// ?lang= query reduces the bilingual records to one language.
func GetAllServices(c *fiber.Ctx) error {
	var services []models.Service
	if !redis.GetCachedCatalog(&services) {
		if err := db.DB.Find(&services).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch services",
				Error:   err.Error(),
			})
		}
		redis.SetCachedCatalog(services)
	}

	if raw := c.Query("lang"); raw != "" {
		lang := utils.ValidateLanguage(raw)
		localized := make([]localizedService, len(services))
		for i, s := range services {
			localized[i] = localizeService(s, lang)
		}
		return c.JSON(localized)
	}
	return c.JSON(services)
}

// GetService returns one catalog entry.
func GetService(c *fiber.Ctx) error {
	id := c.Params("id")
	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
			Error:   err.Error(),
		})
	}

	if raw := c.Query("lang"); raw != "" {
		return c.JSON(localizeService(service, utils.ValidateLanguage(raw)))
	}
	return c.JSON(service)
}

// SeedServices inserts the fixed catalog entries that are not present yet.
func SeedServices(c *fiber.Ctx) error {
	for _, entry := range seedCatalog {
		var count int64
		db.DB.Model(&models.Service{}).
			Where("name ->> 'en' = ?", entry.Name).
			Count(&count)
		if count > 0 {
			continue
		}

		translations, err := utils.TranslateAll(entry.Name, entry.Description)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to translate service details",
				Error:   err.Error(),
			})
		}

		if err := db.DB.Create(&models.Service{
			Name:        translations[0],
			Description: translations[1],
		}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to seed services",
				Error:   err.Error(),
			})
		}
	}

	redis.InvalidateCatalog()
	return c.JSON(fiber.Map{
		"message": "Services seeded successfully!",
	})
}

// CreateService adds a catalog entry.
func CreateService(c *fiber.Ctx) error {
	req := new(ServiceRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Service name is required",
			Error:   "missing name",
		})
	}

	translations, err := utils.TranslateAll(req.Name, req.Description)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate service details",
			Error:   err.Error(),
		})
	}

	service := models.Service{
		Name:        translations[0],
		Description: translations[1],
		ImageURL:    req.ImageURL,
	}
	if err := db.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create service",
			Error:   err.Error(),
		})
	}

	redis.InvalidateCatalog()
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService changes a catalog entry.
func UpdateService(c *fiber.Ctx) error {
	id := c.Params("id")

	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service not found",
			Error:   err.Error(),
		})
	}

	req := new(ServiceRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	updates := map[string]interface{}{}
	for column, text := range map[string]string{"name": req.Name, "description": req.Description} {
		if text == "" {
			continue
		}
		translated, err := utils.Translate(text)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to translate service details",
				Error:   err.Error(),
			})
		}
		updates[column] = translated
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&service).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update service",
				Error:   err.Error(),
			})
		}
	}

	redis.InvalidateCatalog()
	return c.JSON(service)
}

// DeleteService removes a catalog entry.
func DeleteService(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := db.DB.Delete(&models.Service{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete service",
			Error:   err.Error(),
		})
	}

	redis.InvalidateCatalog()
	return c.SendStatus(fiber.StatusNoContent)
}
