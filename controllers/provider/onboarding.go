package provider

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hoaconnect/hoa-services-app/config"
	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
)

// Providers onboard through a fixed sequence of steps. Each step records the
// furthest point reached; re-running an earlier step never moves the counter
// backwards.

type SignupRequest struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
}

// Signup creates the provider record and opens the onboarding sequence.
func Signup(c *fiber.Ctx) error {
	req := new(SignupRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.Name == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Name and email are required",
			Error:   "missing required fields",
		})
	}

	var existing models.ServiceProvider
	if db.DB.Where("email = ?", req.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Service provider with this email already exists",
			Error:   "duplicate email",
		})
	}

	name, err := utils.Translate(req.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate provider name",
			Error:   err.Error(),
		})
	}

	provider := models.ServiceProvider{
		Name:        name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		SignupStep:  models.ProviderStepSignedUp,
	}
	if err := db.DB.Create(&provider).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to register service provider",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":          "Service provider registered successfully. Please proceed to step 1 to upload government document.",
		"service_provider": provider,
		"next_step":        "step1",
	})
}

func loadProvider(c *fiber.Ctx) (*models.ServiceProvider, error) {
	principal := middleware.GetPrincipal(c)
	id := c.FormValue("service_provider_id")
	if id == "" {
		id = c.Query("service_provider_id")
	}

	var provider models.ServiceProvider
	q := db.DB
	if principal.Type == "serviceProvider" {
		q = q.Where("id = ?", principal.ID)
	} else if id != "" {
		q = q.Where("id = ?", id)
	} else {
		var body struct {
			ServiceProviderID uint `json:"service_provider_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ServiceProviderID == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		q = q.Where("id = ?", body.ServiceProviderID)
	}

	if err := q.First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func advanceStep(provider *models.ServiceProvider, step int, extra map[string]interface{}) error {
	updates := map[string]interface{}{}
	for k, v := range extra {
		updates[k] = v
	}
	if step > provider.SignupStep {
		updates["signup_step"] = step
	}
	return db.DB.Model(provider).Updates(updates).Error
}

// Step1 uploads the government identity document.
func Step1(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	file, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Government document is required",
			Error:   "missing document",
		})
	}

	url, err := utils.UploadDocument(file, "service-provider-documents", provider.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to upload government document",
			Error:   err.Error(),
		})
	}

	if err := advanceStep(provider, models.ProviderStepDocument, map[string]interface{}{
		"government_document_url": url,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update service provider",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Government document uploaded successfully. Please proceed to step 2 to select services.",
		"next_step": "step2",
	})
}

// Step2 selects the offered service categories, replacing any prior set.
func Step2(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	var body struct {
		ServiceIDs []uint `json:"service_ids"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.ServiceIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "At least one service is required",
			Error:   "missing service_ids",
		})
	}

	var services []models.Service
	if err := db.DB.Where("id IN ?", body.ServiceIDs).Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load services",
			Error:   err.Error(),
		})
	}
	if len(services) != len(body.ServiceIDs) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Some services do not exist",
			Error:   "unknown service id",
		})
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(provider).Association("Services").Replace(services); err != nil {
			return err
		}
		if models.ProviderStepServices > provider.SignupStep {
			return tx.Model(provider).Update("signup_step", models.ProviderStepServices).Error
		}
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update services",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Services selected successfully. Please proceed to step 3 to set service rates.",
		"next_step": "step3",
	})
}

// Step3 records a rate for every selected service, replacing any prior set.
func Step3(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	var body struct {
		ServiceRates []struct {
			ServiceID   uint    `json:"service_id"`
			Rate        float64 `json:"rate"`
			Description string  `json:"description"`
		} `json:"service_rates"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.ServiceRates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Service rates are required",
			Error:   "missing service_rates",
		})
	}

	var selected models.ServiceProvider
	if err := db.DB.Preload("Services").First(&selected, provider.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load selected services",
			Error:   err.Error(),
		})
	}

	rated := map[uint]bool{}
	for _, r := range body.ServiceRates {
		rated[r.ServiceID] = true
	}
	for _, s := range selected.Services {
		if !rated[s.ID] {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Rates are required for all selected services",
				Error:   "missing rate for a selected service",
			})
		}
	}

	// Translate rate descriptions before any write.
	descriptions := make([]string, len(body.ServiceRates))
	for i, r := range body.ServiceRates {
		descriptions[i] = r.Description
	}
	translated, err := utils.TranslateAll(descriptions...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate rate descriptions",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("service_provider_id = ?", provider.ID).
			Delete(&models.ServiceRate{}).Error; err != nil {
			return err
		}
		for i, r := range body.ServiceRates {
			if err := tx.Create(&models.ServiceRate{
				ServiceProviderID: provider.ID,
				ServiceID:         r.ServiceID,
				Rate:              r.Rate,
				Description:       translated[i],
			}).Error; err != nil {
				return err
			}
		}
		if models.ProviderStepRates > provider.SignupStep {
			return tx.Model(provider).Update("signup_step", models.ProviderStepRates).Error
		}
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save service rates",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Service rates set successfully. Please proceed to step 4 to add locations.",
		"next_step": "step4",
	})
}

// Step4 records the cities the provider serves, replacing any prior set.
func Step4(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	var body struct {
		Locations []struct {
			City    string `json:"city"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"locations"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Locations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "At least one location is required",
			Error:   "missing locations",
		})
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("service_provider_id = ?", provider.ID).
			Delete(&models.ProviderLocation{}).Error; err != nil {
			return err
		}
		for _, loc := range body.Locations {
			country := loc.Country
			if country == "" {
				country = config.Get().DefaultCountry
			}
			if err := tx.Create(&models.ProviderLocation{
				ServiceProviderID: provider.ID,
				City:              loc.City,
				State:             loc.State,
				Country:           country,
			}).Error; err != nil {
				return err
			}
		}
		if models.ProviderStepLocations > provider.SignupStep {
			return tx.Model(provider).Update("signup_step", models.ProviderStepLocations).Error
		}
		return nil
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save locations",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Locations added successfully. Please proceed to step 5 to add bio and profile picture.",
		"next_step": "step5",
	})
}

// Step5 records the bio and optional profile picture.
func Step5(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	bio := c.FormValue("bio")
	if bio == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Bio is required",
			Error:   "missing bio",
		})
	}

	profilePictureURL := provider.ProfilePictureURL
	if file, err := c.FormFile("profile_picture"); err == nil && file != nil {
		profilePictureURL, err = utils.UploadDocument(file, "service-provider-profile-pictures", provider.ID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to upload profile picture",
				Error:   err.Error(),
			})
		}
	}

	bioTranslation, err := utils.Translate(bio)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate bio",
			Error:   err.Error(),
		})
	}

	if err := advanceStep(provider, models.ProviderStepBio, map[string]interface{}{
		"bio":                 bioTranslation,
		"profile_picture_url": profilePictureURL,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update service provider",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Bio and profile picture added successfully. Please proceed to step 6 to add bank details.",
		"next_step": "step6",
	})
}

// Step6 records bank details and activates the account.
func Step6(c *fiber.Ctx) error {
	provider, err := loadProvider(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service provider not found",
			Error:   err.Error(),
		})
	}

	firstName := c.FormValue("first_name")
	lastName := c.FormValue("last_name")
	bankAccountNumber := c.FormValue("bank_account_number")
	if firstName == "" || lastName == "" || bankAccountNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "First name, last name and bank account number are required",
			Error:   "missing required fields",
		})
	}

	bankDocumentURL := provider.BankDocumentURL
	if file, err := c.FormFile("bank_document"); err == nil && file != nil {
		bankDocumentURL, err = utils.UploadDocument(file, "service-provider-bank-documents", provider.ID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to upload bank document",
				Error:   err.Error(),
			})
		}
	}

	names, err := utils.TranslateAll(firstName, lastName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate names",
			Error:   err.Error(),
		})
	}

	// The final step activates the account and makes it bid-eligible.
	if err := advanceStep(provider, models.ProviderStepBankDetails, map[string]interface{}{
		"first_name":          names[0],
		"last_name":           names[1],
		"bank_account_number": bankAccountNumber,
		"bank_document_url":   bankDocumentURL,
		"is_active":           true,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update service provider",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":         "Bank details added successfully. Your account is now active!",
		"signup_complete": true,
	})
}
