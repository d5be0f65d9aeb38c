package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hoaconnect/hoa-services-app/config"
	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
	"gorm.io/gorm"
)

type CreateApartmentRequest struct {
	HOANumber string `json:"hoa_number"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
}

type AddHouseRequest struct {
	HouseNumber string `json:"house_number"`
	OwnerID     uint   `json:"owner_id"`
}

func preloadApartment(q *gorm.DB) *gorm.DB {
	return q.Preload("Leader").
		Preload("Houses.Owner")
}

// CreateApartment registers or claims an HOA community for the calling
// leader. An existing leaderless apartment with the same HOA number is
// claimed instead of duplicated.
func CreateApartment(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	req := new(CreateApartmentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.HOANumber == "" || req.Name == "" || req.Address == "" || req.City == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
			Error:   "hoa_number, name, address and city are required",
		})
	}

	country := req.Country
	if country == "" {
		country = config.Get().DefaultCountry
	}

	var existing models.Apartment
	exists := db.DB.Where("hoa_number = ?", req.HOANumber).First(&existing).RowsAffected > 0
	if exists && existing.LeaderID != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "HOA number already exists and has a leader",
			Error:   "duplicate hoa_number",
		})
	}

	fields, err := utils.TranslateAll(req.Name, req.Address, req.City, req.State, country)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to translate apartment details",
			Error:   err.Error(),
		})
	}

	if exists {
		// Claim the leaderless apartment.
		if err := db.DB.Model(&existing).Updates(map[string]interface{}{
			"leader_id": principal.ID,
			"name":      fields[0],
			"address":   fields[1],
			"city":      fields[2],
			"state":     fields[3],
			"country":   fields[4],
		}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update apartment",
				Error:   err.Error(),
			})
		}

		var updated models.Apartment
		preloadApartment(db.DB).First(&updated, existing.ID)
		return c.JSON(fiber.Map{
			"message":   "Apartment updated and leader assigned successfully",
			"apartment": updated,
		})
	}

	leaderID := principal.ID
	apartment := models.Apartment{
		HOANumber: req.HOANumber,
		Name:      fields[0],
		Address:   fields[1],
		City:      fields[2],
		State:     fields[3],
		Country:   fields[4],
		LeaderID:  &leaderID,
	}

	if err := db.DB.Create(&apartment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create apartment",
			Error:   err.Error(),
		})
	}

	var created models.Apartment
	preloadApartment(db.DB).First(&created, apartment.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Apartment created successfully",
		"apartment": created,
	})
}

// GetAllApartments lists every HOA community with leaders and houses.
func GetAllApartments(c *fiber.Ctx) error {
	var apartments []models.Apartment
	if err := preloadApartment(db.DB).Find(&apartments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch apartments",
			Error:   err.Error(),
		})
	}
	return c.JSON(apartments)
}

// GetApartment returns one apartment with leader, houses and jobs attached.
func GetApartment(c *fiber.Ctx) error {
	id := c.Params("id")
	var apartment models.Apartment
	if err := preloadApartment(db.DB).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Jobs.Services").
		Preload("Jobs.Bids.ServiceProvider").
		First(&apartment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Apartment not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(apartment)
}

// GetMyApartments lists the apartments the calling leader manages.
func GetMyApartments(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var apartments []models.Apartment
	if err := preloadApartment(db.DB).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Jobs.Services").
		Preload("Jobs.Bids.ServiceProvider").
		Where("leader_id = ?", principal.ID).
		Find(&apartments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch apartments",
			Error:   err.Error(),
		})
	}
	return c.JSON(apartments)
}

// UpdateApartment lets the managing leader change apartment details.
func UpdateApartment(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var apartment models.Apartment
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&apartment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Apartment not found or you are not authorized to update it",
			Error:   err.Error(),
		})
	}

	req := new(CreateApartmentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	updates := map[string]interface{}{}
	texts := map[string]string{
		"name":    req.Name,
		"address": req.Address,
		"city":    req.City,
		"state":   req.State,
		"country": req.Country,
	}
	for column, text := range texts {
		if text == "" {
			continue
		}
		translated, err := utils.Translate(text)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to translate apartment details",
				Error:   err.Error(),
			})
		}
		updates[column] = translated
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&apartment).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update apartment",
				Error:   err.Error(),
			})
		}
	}

	var updated models.Apartment
	preloadApartment(db.DB).First(&updated, apartment.ID)

	return c.JSON(fiber.Map{
		"message":   "Apartment updated successfully",
		"apartment": updated,
	})
}

// DeleteApartment removes an apartment. Deletion is blocked, not cascaded,
// while houses or jobs still reference it.
func DeleteApartment(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var apartment models.Apartment
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&apartment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Apartment not found or you are not authorized to delete it",
			Error:   err.Error(),
		})
	}

	var houseCount int64
	db.DB.Model(&models.House{}).Where("apartment_id = ?", apartment.ID).Count(&houseCount)
	if houseCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot delete apartment that has houses. Please remove all houses first.",
			Error:   "apartment has houses",
		})
	}

	var jobCount int64
	db.DB.Model(&models.Job{}).Where("apartment_id = ?", apartment.ID).Count(&jobCount)
	if jobCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot delete apartment that has jobs. Please remove all jobs first.",
			Error:   "apartment has jobs",
		})
	}

	if err := db.DB.Delete(&apartment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete apartment",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Apartment deleted successfully",
	})
}

// AddHouse registers a member house; only the apartment's leader may do so,
// and the owner must be a home owner.
func AddHouse(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")

	var apartment models.Apartment
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&apartment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Apartment not found or you are not authorized to add houses to it",
			Error:   err.Error(),
		})
	}

	req := new(AddHouseRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.HouseNumber == "" || req.OwnerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
			Error:   "house_number and owner_id are required",
		})
	}

	var owner models.User
	if err := db.DB.First(&owner, req.OwnerID).Error; err != nil || owner.Role != models.RoleHomeOwner {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "House owner must be a HOME_OWNER",
			Error:   "invalid owner",
		})
	}

	house := models.House{
		HouseNumber: req.HouseNumber,
		ApartmentID: apartment.ID,
		OwnerID:     owner.ID,
	}

	if err := db.DB.Create(&house).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to add house",
			Error:   err.Error(),
		})
	}

	var created models.House
	db.DB.Preload("Apartment").Preload("Owner").First(&created, house.ID)
	created.Owner.Password = ""

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "House added successfully",
		"house":   created,
	})
}

// RemoveHouse deletes a member house; only the apartment's leader may do so.
func RemoveHouse(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	id := c.Params("id")
	houseID := c.Params("houseId")

	var apartment models.Apartment
	if err := db.DB.Where("id = ? AND leader_id = ?", id, principal.ID).
		First(&apartment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Apartment not found or you are not authorized to remove houses from it",
			Error:   err.Error(),
		})
	}

	var house models.House
	if err := db.DB.Where("id = ? AND apartment_id = ?", houseID, apartment.ID).
		First(&house).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "House not found in this apartment",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Delete(&house).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to remove house",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "House removed successfully",
	})
}
