package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hoaconnect/hoa-services-app/config"
	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
	"github.com/hoaconnect/hoa-services-app/utils"
)

// SignupRequest is posted as multipart form data together with the identity
// document. Apartment details are only meaningful for leaders.
type SignupRequest struct {
	NationalID       string      `form:"national_id"`
	HOANumber        string      `form:"hoa_number"`
	Role             models.Role `form:"role"`
	Password         string      `form:"password"`
	ApartmentName    string      `form:"apartment_name"`
	ApartmentAddress string      `form:"apartment_address"`
	ApartmentCity    string      `form:"apartment_city"`
	ApartmentState   string      `form:"apartment_state"`
	ApartmentCountry string      `form:"apartment_country"`
}

// Signup registers a home owner or leader against an HOA number. The
// apartment record for that HOA number is created leaderless on first
// contact; a leader signup claims it.
func Signup(c *fiber.Ctx) error {
	req := new(SignupRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse form data",
		})
	}

	if req.NationalID == "" || req.HOANumber == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	if req.Role != models.RoleHomeOwner && req.Role != models.RoleLeader {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Role must be HOME_OWNER or LEADER",
		})
	}

	var existingUser models.User
	if db.DB.Where("national_id = ?", req.NationalID).First(&existingUser).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User with this National ID already exists",
		})
	}

	// One leader per HOA number.
	if req.Role == models.RoleLeader {
		var ledApartment models.Apartment
		if db.DB.Where("hoa_number = ? AND leader_id IS NOT NULL", req.HOANumber).
			First(&ledApartment).RowsAffected > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "HOA number already has a leader. Only one leader per HOA number is allowed.",
			})
		}
	}

	file, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Identity document is required",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	// Upload before any row is written so a storage failure leaves nothing
	// half-registered.
	documentURL, err := utils.UploadDocument(file, "user-documents", 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to upload identity document: " + err.Error(),
		})
	}

	// Leaders supplying apartment details get them translated up front too.
	var apartmentFields []models.Translation
	hasApartmentDetails := req.Role == models.RoleLeader &&
		req.ApartmentName != "" && req.ApartmentAddress != "" && req.ApartmentCity != ""
	if hasApartmentDetails {
		country := req.ApartmentCountry
		if country == "" {
			country = config.Get().DefaultCountry
		}
		apartmentFields, err = utils.TranslateAll(
			req.ApartmentName,
			req.ApartmentAddress,
			req.ApartmentCity,
			req.ApartmentState,
			country,
		)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to translate apartment details",
			})
		}
	}

	user := models.User{
		NationalID: req.NationalID,
		Password:   string(hashedPassword),
		Role:       req.Role,
	}

	var apartment models.Apartment
	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		urls, _ := json.Marshal([]string{documentURL})
		if err := tx.Create(&models.UserDocument{
			UserID:    user.ID,
			ImageURLs: urls,
		}).Error; err != nil {
			return err
		}

		// Apartments exist (possibly leaderless) before any owner links.
		if err := tx.Where("hoa_number = ?", req.HOANumber).First(&apartment).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			apartment = models.Apartment{HOANumber: req.HOANumber}
			if err := tx.Create(&apartment).Error; err != nil {
				return err
			}
		}

		switch req.Role {
		case models.RoleLeader:
			updates := map[string]interface{}{"leader_id": user.ID}
			if hasApartmentDetails {
				updates["name"] = apartmentFields[0]
				updates["address"] = apartmentFields[1]
				updates["city"] = apartmentFields[2]
				updates["state"] = apartmentFields[3]
				updates["country"] = apartmentFields[4]
			}
			if err := tx.Model(&apartment).Updates(updates).Error; err != nil {
				return err
			}
		case models.RoleHomeOwner:
			if err := tx.Model(&user).Update("apartment_id", apartment.ID).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register user: " + err.Error(),
		})
	}

	db.DB.Preload("Leader").First(&apartment, apartment.ID)
	user.Password = ""

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "User registered successfully",
		"user":         user,
		"document_url": documentURL,
		"apartment":    apartment,
	})
}

// Login handles user authentication
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		NationalID string `json:"national_id"`
		Password   string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.
		Preload("Apartment.Leader").
		Preload("ManagedApartments.Houses.Owner").
		Preload("OwnedHouses.Apartment").
		Preload("PostedJobs").
		Where("national_id = ?", input.NationalID).
		First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	claims := jwt.MapClaims{
		"id":          user.ID,
		"national_id": user.NationalID,
		"role":        string(user.Role),
		"exp":         time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.Get().JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	user.Password = ""

	return c.JSON(fiber.Map{
		"access_token": tokenString,
		"user":         user,
	})
}

// ChangePassword updates the caller's password after verifying the current one.
func ChangePassword(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	type ChangePasswordInput struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	input := new(ChangePasswordInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "New password is required",
		})
	}

	var user models.User
	if err := db.DB.First(&user, principal.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	if err := db.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

// GetUserProfile returns the current user's profile
func GetUserProfile(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	var user models.User
	if err := db.DB.
		Preload("Apartment.Leader").
		Preload("ManagedApartments").
		Preload("OwnedHouses.Apartment").
		Preload("Documents").
		First(&user, principal.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Password = ""

	return c.JSON(user)
}
