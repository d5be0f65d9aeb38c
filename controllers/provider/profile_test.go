package provider

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/models"
)

func TestLoginIssuesTokenForActiveProvider(t *testing.T) {
	setupTestDB(t)

	sp := models.ServiceProvider{
		Email:      "active@provider.test",
		SignupStep: models.ProviderStepBankDetails,
		IsActive:   true,
	}
	require.NoError(t, db.DB.Create(&sp).Error)

	app := fiber.New()
	app.Post("/providers/login", Login)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/providers/login", fiber.Map{
		"email": "active@provider.test",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.AccessToken)
}

func TestLoginRejectsInactiveProvider(t *testing.T) {
	setupTestDB(t)

	sp := models.ServiceProvider{
		Email:      "halfway@provider.test",
		SignupStep: models.ProviderStepRates,
	}
	require.NoError(t, db.DB.Create(&sp).Error)

	app := fiber.New()
	app.Post("/providers/login", Login)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/providers/login", fiber.Map{
		"email": "halfway@provider.test",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	setupTestDB(t)

	app := fiber.New()
	app.Post("/providers/login", Login)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/providers/login", fiber.Map{
		"email": "nobody@provider.test",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
