package controllers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/models"
)

func TestGetAllServices(t *testing.T) {
	setupTestDB(t)

	createTestService(t, "AC Services")
	createTestService(t, "Plumber")

	app := fiber.New()
	app.Get("/services", GetAllServices)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/services", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var services []models.Service
	decodeBody(t, resp, &services)
	assert.Len(t, services, 2)
}

func TestGetAllServicesLocalized(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, db.DB.Create(&models.Service{
		Name: models.Translation{En: "Plumber", Ar: "سباك"},
	}).Error)

	app := fiber.New()
	app.Get("/services", GetAllServices)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/services?lang=ar", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var localized []struct {
		Name string `json:"name"`
	}
	decodeBody(t, resp, &localized)
	require.Len(t, localized, 1)
	assert.Equal(t, "سباك", localized[0].Name)

	// An unsupported locale falls back to English.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/services?lang=fr", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &localized)
	assert.Equal(t, "Plumber", localized[0].Name)
}

func TestSeedServicesIsIdempotent(t *testing.T) {
	setupTestDB(t)

	app := fiber.New()
	app.Post("/services/seed", SeedServices)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/services/seed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.DB.Model(&models.Service{}).Count(&count)
	assert.Equal(t, int64(6), count)

	// Seeding again adds nothing.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/services/seed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	db.DB.Model(&models.Service{}).Count(&count)
	assert.Equal(t, int64(6), count)
}

func TestCreateServiceTranslatesName(t *testing.T) {
	setupTestDB(t)

	app := fiber.New()
	app.Post("/services", CreateService)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/services", fiber.Map{
		"name":        "Gardening",
		"description": "Garden upkeep and landscaping",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var service models.Service
	require.NoError(t, db.DB.First(&service).Error)
	assert.Equal(t, "Gardening", service.Name.En)
	assert.NotEmpty(t, service.Name.Ar)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/services", fiber.Map{
		"description": "no name",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
